// Command rv32run is the RV32IMAC toolchain entry point: run a guest ELF,
// disassemble a raw code stream, or dump the register file at a fixed
// instruction count. It replaces the teacher's three separate cmd/asm,
// cmd/interp and cmd/vm binaries with one cobra-based multi-command binary,
// in the same "thin main wiring flags to library calls" spirit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "rv32run",
		Short: "Run and inspect statically-linked RV32IMAC ELF binaries",
	}

	root.AddCommand(newRunCmd(), newDecodeCmd(), newRegsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
