package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rv32emu/rv32emu/internal/kernel"
	"github.com/rv32emu/rv32emu/internal/loader"
	"github.com/rv32emu/rv32emu/pkg/hart"
	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/machine"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

func newRegsCmd() *cobra.Command {
	var (
		memSize uint32
		maxInst uint64
	)

	cmd := &cobra.Command{
		Use:   "regs <elf-file>",
		Short: "Run a guest binary for a frozen instruction budget and dump its register file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("rv32run: reading %s: %w", args[0], err)
			}

			mem := memory.NewFlat(memSize)
			image, err := loader.Load(data, mem)
			if err != nil {
				return fmt.Errorf("rv32run: loading ELF: %w", err)
			}

			h := hart.New()
			h.PC = image.Entry
			h.SetReg(isa.RegSP, memSize-(8<<20))

			k := kernel.New(image.BreakAt, os.Stdout, os.Stderr)
			m := machine.New(h, mem, k)

			result, err := m.RunInstructions(maxInst)
			if err != nil {
				return fmt.Errorf("rv32run: %w", err)
			}

			dumpRegs(h)
			if result.Kind == hart.ResultExit {
				fmt.Printf("exited with code %d after %d instructions\n", result.ExitCode, h.InstCount)
			} else {
				fmt.Printf("frozen after %d instructions (budget reached)\n", h.InstCount)
			}
			return nil
		},
	}

	cmd.Flags().Uint32Var(&memSize, "memory-size", 256<<20, "guest memory size in bytes")
	cmd.Flags().Uint64Var(&maxInst, "max-instructions", 1_000_000, "instruction budget before freezing state (0 = unbounded)")

	return cmd
}

func dumpRegs(h *hart.Hart) {
	fmt.Printf("pc       = %#010x\n", h.PC)
	for r := isa.Reg(0); r < 32; r++ {
		fmt.Printf("x%-2d %-4s = %#010x\n", r, r, h.Reg(r))
	}
}
