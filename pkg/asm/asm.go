// Package asm is the disassembler side of the RV32 toolchain: it turns a
// stream of 16/32-bit code words back into the same isa.Instruction the
// hart decodes, formatted the way a human (or cmd/rv32run's "decode"
// subcommand) wants to read it.
//
// The teacher's pkg/asm assembled RiSC-16-derived source text for a custom
// 11-opcode toy ISA via a hand-written lexer/parser pipeline; none of that
// grammar or opcode table applies to RV32 (see DESIGN.md), so this package
// keeps only the channel-based streaming shape of StartAssembler and feeds
// it from isa.Decode instead.
package asm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rv32emu/rv32emu/pkg/isa"
)

// Line is one disassembled instruction, or the error that stopped decoding.
type Line struct {
	PC          uint32
	Word        uint32
	Width       int // 2 or 4 bytes
	Instruction isa.Instruction
	Err         error
}

// Format renders a Line the way `rv32run decode` prints it: address, raw
// bytes, and the mnemonic with its resolved operands.
func (l Line) Format() string {
	if l.Err != nil {
		return fmt.Sprintf("%08x:\t%-8s\t<%s>\n", l.PC, l.rawBytes(), l.Err)
	}
	return fmt.Sprintf("%08x:\t%-8s\t%s\n", l.PC, l.rawBytes(), FormatInstruction(l.Instruction))
}

func (l Line) rawBytes() string {
	if l.Width == 2 {
		return fmt.Sprintf("%04x", uint16(l.Word))
	}
	return fmt.Sprintf("%08x", l.Word)
}

// storeMnemonics and branchMnemonics group the few operand shapes that
// don't follow the "rd, rs1, imm"-ish default, since Instruction carries a
// Mnemonic rather than a reusable Format tag.
var storeMnemonics = map[isa.Mnemonic]bool{
	isa.MnemonicSB: true, isa.MnemonicSH: true, isa.MnemonicSW: true,
	isa.MnemonicCSW: true, isa.MnemonicCSWSP: true,
}

var loadMnemonics = map[isa.Mnemonic]bool{
	isa.MnemonicLB: true, isa.MnemonicLH: true, isa.MnemonicLW: true,
	isa.MnemonicLBU: true, isa.MnemonicLHU: true,
	isa.MnemonicCLW: true, isa.MnemonicCLWSP: true,
}

var branchMnemonics = map[isa.Mnemonic]bool{
	isa.MnemonicBEQ: true, isa.MnemonicBNE: true, isa.MnemonicBLT: true,
	isa.MnemonicBGE: true, isa.MnemonicBLTU: true, isa.MnemonicBGEU: true,
	isa.MnemonicCBEQZ: true, isa.MnemonicCBNEZ: true,
}

var upperImmMnemonics = map[isa.Mnemonic]bool{
	isa.MnemonicLUI: true, isa.MnemonicAUIPC: true, isa.MnemonicCLUI: true,
}

var noOperandMnemonics = map[isa.Mnemonic]bool{
	isa.MnemonicFENCE: true, isa.MnemonicFENCEI: true,
	isa.MnemonicECALL: true, isa.MnemonicEBREAK: true, isa.MnemonicUNIMP: true,
	isa.MnemonicCEBREAK: true, isa.MnemonicCNOP: true, isa.MnemonicCUNIMP: true,
	isa.MnemonicWFI: true, isa.MnemonicMRET: true, isa.MnemonicURET: true,
	isa.MnemonicSRET: true, isa.MnemonicHRET: true, isa.MnemonicDRET: true,
}

// registerMnemonics takes "rd, rs1, rs2" with no immediate: ALU
// register-register ops, M-extension ops, and AMO read-modify-writes (whose
// rs2 carries the value operand; the address sits in rs1).
var registerMnemonics = map[isa.Mnemonic]bool{
	isa.MnemonicADD: true, isa.MnemonicSUB: true, isa.MnemonicSLL: true,
	isa.MnemonicSLT: true, isa.MnemonicSLTU: true, isa.MnemonicXOR: true,
	isa.MnemonicSRL: true, isa.MnemonicSRA: true, isa.MnemonicOR: true, isa.MnemonicAND: true,
	isa.MnemonicMUL: true, isa.MnemonicMULH: true, isa.MnemonicMULHSU: true, isa.MnemonicMULHU: true,
	isa.MnemonicDIV: true, isa.MnemonicDIVU: true, isa.MnemonicREM: true, isa.MnemonicREMU: true,
	isa.MnemonicAMOSWAPW: true, isa.MnemonicAMOADDW: true, isa.MnemonicAMOXORW: true,
	isa.MnemonicAMOORW: true, isa.MnemonicAMOANDW: true, isa.MnemonicAMOMINW: true,
	isa.MnemonicAMOMAXW: true, isa.MnemonicAMOMINUW: true, isa.MnemonicAMOMAXUW: true,
	isa.MnemonicCSUB: true, isa.MnemonicCXOR: true, isa.MnemonicCOR: true, isa.MnemonicCAND: true,
	isa.MnemonicCMV: true, isa.MnemonicCADD: true,
}

// csrMnemonics take "rd, csr, rs1" (register variants); the *I variants
// (CSRRWI/CSRRSI/CSRRCI) take a zero-extended immediate in rs1's place.
var csrMnemonics = map[isa.Mnemonic]bool{
	isa.MnemonicCSRRW: true, isa.MnemonicCSRRS: true, isa.MnemonicCSRRC: true,
	isa.MnemonicCSRRWI: true, isa.MnemonicCSRRSI: true, isa.MnemonicCSRRCI: true,
}

// FormatInstruction renders an already-decoded instruction as
// "mnemonic rd, rs1, imm"-style text, omitting operands the mnemonic
// doesn't use.
func FormatInstruction(in isa.Instruction) string {
	m := in.Mnemonic
	switch {
	case noOperandMnemonics[m]:
		return m.String()
	case storeMnemonics[m]:
		return fmt.Sprintf("%s %s, %d(%s)", m, in.RS2(), in.Imm(), in.RS1())
	case loadMnemonics[m]:
		return fmt.Sprintf("%s %s, %d(%s)", m, in.RD(), in.Imm(), in.RS1())
	case branchMnemonics[m]:
		if in.RS2() == isa.RegZero && (m == isa.MnemonicCBEQZ || m == isa.MnemonicCBNEZ) {
			return fmt.Sprintf("%s %s, %d", m, in.RS1(), in.Imm())
		}
		return fmt.Sprintf("%s %s, %s, %d", m, in.RS1(), in.RS2(), in.Imm())
	case upperImmMnemonics[m]:
		return fmt.Sprintf("%s %s, %#x", m, in.RD(), uint32(in.Imm()))
	case m == isa.MnemonicJAL || m == isa.MnemonicCJAL || m == isa.MnemonicCJ:
		return fmt.Sprintf("%s %s, %d", m, in.RD(), in.Imm())
	case m == isa.MnemonicJALR || m == isa.MnemonicCJALR || m == isa.MnemonicCJR:
		return fmt.Sprintf("%s %s, %d(%s)", m, in.RD(), in.Imm(), in.RS1())
	case m == isa.MnemonicLRW:
		return fmt.Sprintf("%s %s, (%s)", m, in.RD(), in.RS1())
	case m == isa.MnemonicSCW:
		return fmt.Sprintf("%s %s, %s, (%s)", m, in.RD(), in.RS2(), in.RS1())
	case registerMnemonics[m]:
		return fmt.Sprintf("%s %s, %s, %s", m, in.RD(), in.RS1(), in.RS2())
	case csrMnemonics[m]:
		switch m {
		case isa.MnemonicCSRRWI, isa.MnemonicCSRRSI, isa.MnemonicCSRRCI:
			return fmt.Sprintf("%s %s, %#x, %d", m, in.RD(), in.CSR(), in.Zimm())
		default:
			return fmt.Sprintf("%s %s, %#x, %s", m, in.RD(), in.CSR(), in.RS1())
		}
	case m == isa.MnemonicCLI || m == isa.MnemonicCADDI16SP:
		return fmt.Sprintf("%s %s, %d", m, in.RD(), in.Imm())
	default:
		// ADDI, SLTI*, C-variants of the same: rd, rs1, imm.
		return fmt.Sprintf("%s %s, %s, %d", m, in.RD(), in.RS1(), in.Imm())
	}
}

// StartDisassembler starts disassembling code starting at baseAddr in a
// background goroutine and returns a channel of Line, one per instruction,
// the teacher's StartAssembler shape applied to a binary code stream
// instead of assembly source text.
func StartDisassembler(r io.Reader, baseAddr uint32) <-chan Line {
	out := make(chan Line)
	go disassembleAsync(r, baseAddr, out)
	return out
}

func disassembleAsync(r io.Reader, baseAddr uint32, out chan<- Line) {
	defer close(out)

	data, err := io.ReadAll(r)
	if err != nil {
		out <- Line{PC: baseAddr, Err: fmt.Errorf("asm: reading code stream: %w", err)}
		return
	}

	pc := baseAddr
	for pc-baseAddr < uint32(len(data)) {
		offset := pc - baseAddr
		if len(data)-int(offset) < 2 {
			out <- Line{PC: pc, Err: io.ErrUnexpectedEOF}
			return
		}
		lo := binary.LittleEndian.Uint16(data[offset:])
		width := 2
		word := uint32(lo)
		if lo&0b11 == 0b11 {
			width = 4
			if len(data)-int(offset) < 4 {
				out <- Line{PC: pc, Err: io.ErrUnexpectedEOF}
				return
			}
			word = binary.LittleEndian.Uint32(data[offset:])
		}

		in := isa.Decode(word)
		out <- Line{PC: pc, Word: word, Width: width, Instruction: in}
		pc += uint32(width)
	}
}

// Disassemble decodes every instruction in code (a raw little-endian code
// image) starting at baseAddr and renders the full listing.
func Disassemble(code []byte, baseAddr uint32) string {
	var buf bytes.Buffer
	for line := range StartDisassembler(bytes.NewReader(code), baseAddr) {
		buf.WriteString(line.Format())
	}
	return buf.String()
}
