package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rv32emu/rv32emu/pkg/asm"
)

func newDecodeCmd() *cobra.Command {
	var (
		file    string
		baseHex string
	)

	cmd := &cobra.Command{
		Use:   "decode [word...]",
		Short: "Disassemble a raw code word, a list of hex words, or a binary file",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := strconv.ParseUint(strings.TrimPrefix(baseHex, "0x"), 16, 32)
			if err != nil {
				return fmt.Errorf("rv32run: invalid --base %q: %w", baseHex, err)
			}

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("rv32run: reading %s: %w", file, err)
				}
				fmt.Print(asm.Disassemble(data, uint32(base)))
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("rv32run: decode needs either --file or at least one hex word")
			}
			return decodeWords(args, uint32(base))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "raw little-endian code image to disassemble")
	cmd.Flags().StringVar(&baseHex, "base", "0", "base address to label the first word with (hex, no 0x needed)")

	return cmd
}

func decodeWords(words []string, base uint32) error {
	pc := base
	for _, w := range words {
		v, err := strconv.ParseUint(strings.TrimPrefix(w, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("rv32run: invalid word %q: %w", w, err)
		}
		word := uint32(v)
		width := uint32(4)
		if word&0b11 != 0b11 {
			width = 2
		}
		fmt.Print(asm.Disassemble(wordBytes(word, width), pc))
		pc += width
	}
	return nil
}

func wordBytes(word, width uint32) []byte {
	buf := make([]byte, width)
	for i := uint32(0); i < width; i++ {
		buf[i] = byte(word >> (8 * i))
	}
	return buf
}
