package main

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/rv32emu/rv32emu/internal/config"
	"github.com/rv32emu/rv32emu/internal/kernel"
	"github.com/rv32emu/rv32emu/internal/loader"
	"github.com/rv32emu/rv32emu/pkg/asm"
	"github.com/rv32emu/rv32emu/pkg/hart"
	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/machine"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		debugStep  bool
		argv       []string
	)

	cmd := &cobra.Command{
		Use:   "run <elf-file>",
		Short: "Load a statically-linked RV32IMAC ELF binary and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetFlags(0)

			cfg, err := config.LoadFrom(configPath)
			if err != nil {
				return fmt.Errorf("rv32run: loading config: %w", err)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("rv32run: reading %s: %w", args[0], err)
			}

			mem := memory.NewFlat(cfg.Execution.MemorySize)
			image, err := loader.Load(data, mem)
			if err != nil {
				return fmt.Errorf("rv32run: loading ELF: %w", err)
			}

			h := hart.New()
			h.PC = image.Entry
			h.SetReg(isa.RegSP, cfg.Execution.MemorySize-cfg.Execution.StackSize)
			setupArgv(h, mem, append([]string{args[0]}, argv...))

			k := kernel.New(image.BreakAt, os.Stdout, os.Stderr)
			k.Trace = cfg.Trace.EnableTrace
			if cfg.Kernel.RandomSeedFile != "" {
				seeded, err := seededRand(cfg.Kernel.RandomSeedFile)
				if err != nil {
					return fmt.Errorf("rv32run: loading random seed file: %w", err)
				}
				k.Rand = seeded
			}
			m := machine.New(h, mem, k)

			var lastSymbol string
			for cfg.Execution.MaxInstructions == 0 || h.InstCount < cfg.Execution.MaxInstructions {
				if cfg.Trace.EnableSymbols {
					if sym := loader.SymbolAt(image.Symbols, h.PC); sym != "" && sym != lastSymbol {
						log.Printf("rv32run: entered %s", sym)
						lastSymbol = sym
					}
				}
				if verbose || cfg.Trace.EnableTrace {
					word, ferr := fetchForTrace(mem, h.PC)
					if ferr == nil {
						log.Printf("rv32run: pc=%#08x %s", h.PC, asm.FormatInstruction(isa.Decode(word)))
					}
				}
				if debugStep || cfg.Trace.SingleStep {
					fmt.Fprint(os.Stderr, "rv32run: paused...")
					fmt.Scanln()
				}

				result, err := h.Step(mem, k)
				if err != nil {
					return fmt.Errorf("rv32run: %w", err)
				}
				if result.Kind == hart.ResultExit {
					os.Exit(int(result.ExitCode))
				}
			}
			return errors.New("rv32run: instruction budget exhausted")
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "rv32run.toml", "path to an optional config file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every fetched instruction")
	cmd.Flags().BoolVarP(&debugStep, "debug", "d", false, "pause for Enter before each instruction")
	cmd.Flags().StringArrayVar(&argv, "arg", nil, "extra argv entries passed to the guest (repeatable)")

	return cmd
}

// seededRand turns the contents of path into a deterministic math/rand
// source for kernel.Kernel.Rand, so a guest's getrandom calls reproduce the
// same bytes across runs instead of drawing from crypto/rand.Reader. The
// file's bytes are hashed down to an int64 seed with FNV-1a rather than read
// as a literal seed value, so any seed file (a passphrase, a checked-in
// fixture, /dev/urandom captured once) works without a fixed-width format.
func seededRand(path string) (io.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	h := fnv.New64a()
	h.Write(data)
	return rand.New(rand.NewSource(int64(h.Sum64()))), nil
}

// fetchForTrace mirrors the hart's own fetch logic purely for display: it
// never mutates hart state, so a verbose trace can print the about-to-run
// instruction before Step consumes it.
func fetchForTrace(mem memory.Memory, pc uint32) (uint32, error) {
	lo, err := mem.LoadU16(pc)
	if err != nil {
		return 0, err
	}
	if lo&0b11 != 0b11 {
		return uint32(lo), nil
	}
	hi, err := mem.LoadU16(pc + 2)
	if err != nil {
		return 0, err
	}
	return uint32(lo) | uint32(hi)<<16, nil
}

// setupArgv writes a minimal Linux-style initial stack: argc, argv pointers,
// a null terminator, then a null envp terminator, just below the stack pointer
// already set in h. No auxv entries are written. Guests that only read argv[0] (common for small static
// test binaries) get what they need; this is not a full glibc-compatible
// stack layout.
func setupArgv(h *hart.Hart, mem memory.Memory, argv []string) {
	sp := h.Reg(isa.RegSP)

	var strAddrs []uint32
	for _, s := range argv {
		bytes := append([]byte(s), 0)
		sp -= uint32(len(bytes))
		sp &^= 0b11 // keep the stack word-aligned as each string is pushed
		for i, b := range bytes {
			_ = mem.StoreU8(sp+uint32(i), b)
		}
		strAddrs = append(strAddrs, sp)
	}

	sp &^= 0b1111 // 16-byte align before the pointer table, per the RV32 ABI
	// envp terminator, argv terminator, then argv pointers in reverse, then argc.
	sp -= 4
	_ = mem.StoreU32(sp, 0) // envp[0] = NULL
	sp -= 4
	_ = mem.StoreU32(sp, 0) // argv[argc] = NULL
	for i := len(strAddrs) - 1; i >= 0; i-- {
		sp -= 4
		_ = mem.StoreU32(sp, strAddrs[i])
	}
	sp -= 4
	_ = mem.StoreU32(sp, uint32(len(strAddrs))) // argc

	h.SetReg(isa.RegSP, sp)
}
