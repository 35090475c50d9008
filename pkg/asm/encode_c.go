package asm

import (
	"fmt"

	"github.com/rv32emu/rv32emu/pkg/isa"
)

// setBits ORs v (masked to hi-lo+1 bits) into word at bit position lo,
// mirroring isa/decode16.go's c() extractor in reverse.
func setBits(word *uint16, hi, lo uint, v uint16) {
	mask := uint16(1)<<(hi-lo+1) - 1
	*word |= (v & mask) << lo
}

// cRegIdx recovers the 3-bit compressed register field (x8..x15 only) from
// a Reg, the inverse of isa/decode16.go's cReg.
func cRegIdx(r isa.Reg) uint16 { return uint16(r) - 8 }

// encodeCJImm scatters an 11-bit (even) jump-target immediate across the
// bit positions C.JAL and C.J share, the inverse of isa/decode16.go's cjImm.
func encodeCJImm(imm int32) uint16 {
	v := uint16(imm) & 0xfff
	var w uint16
	setBits(&w, 12, 12, v>>11&1)
	setBits(&w, 8, 8, v>>10&1)
	setBits(&w, 10, 9, v>>8&0x3)
	setBits(&w, 6, 6, v>>7&1)
	setBits(&w, 7, 7, v>>6&1)
	setBits(&w, 2, 2, v>>5&1)
	setBits(&w, 11, 11, v>>4&1)
	setBits(&w, 5, 3, v>>1&0x7)
	return w
}

// encodeCBImm scatters an 8-bit (even) branch-target immediate across the
// bit positions C.BEQZ and C.BNEZ share, the inverse of isa/decode16.go's
// cbImm.
func encodeCBImm(imm int32) uint16 {
	v := uint16(imm) & 0x1ff
	var w uint16
	setBits(&w, 12, 12, v>>8&1)
	setBits(&w, 6, 5, v>>6&0x3)
	setBits(&w, 2, 2, v>>5&1)
	setBits(&w, 11, 10, v>>3&0x3)
	setBits(&w, 4, 3, v>>1&0x3)
	return w
}

func encode16(in isa.Instruction) (uint16, error) {
	m := in.Mnemonic
	var w uint16

	switch m {
	case isa.MnemonicCADDI4SPN:
		imm := uint16(in.Imm())
		setBits(&w, 12, 11, imm>>4&0x3)
		setBits(&w, 10, 7, imm>>6&0xf)
		setBits(&w, 6, 6, imm>>2&0x1)
		setBits(&w, 5, 5, imm>>3&0x1)
		setBits(&w, 4, 2, cRegIdx(in.RD()))
		return w | 0b000<<13 | 0b00, nil
	case isa.MnemonicCUNIMP:
		return 0x0000, nil
	case isa.MnemonicCLW:
		imm := uint16(in.Imm())
		setBits(&w, 12, 10, imm>>3&0x7)
		setBits(&w, 9, 7, cRegIdx(in.RS1()))
		setBits(&w, 6, 6, imm>>2&0x1)
		setBits(&w, 5, 5, imm>>6&0x1)
		setBits(&w, 4, 2, cRegIdx(in.RD()))
		return w | 0b010<<13 | 0b00, nil
	case isa.MnemonicCSW:
		imm := uint16(in.Imm())
		setBits(&w, 12, 10, imm>>3&0x7)
		setBits(&w, 9, 7, cRegIdx(in.RS1()))
		setBits(&w, 6, 6, imm>>2&0x1)
		setBits(&w, 5, 5, imm>>6&0x1)
		setBits(&w, 4, 2, cRegIdx(in.RS2()))
		return w | 0b110<<13 | 0b00, nil
	case isa.MnemonicCNOP:
		return 0b000<<13 | 0b01, nil
	case isa.MnemonicCADDI:
		raw := uint16(in.Imm()) & 0x3f
		setBits(&w, 11, 7, uint16(in.RD()))
		setBits(&w, 12, 12, raw>>5&1)
		setBits(&w, 6, 2, raw&0x1f)
		return w | 0b000<<13 | 0b01, nil
	case isa.MnemonicCJAL:
		return encodeCJImm(in.Imm()) | 0b001<<13 | 0b01, nil
	case isa.MnemonicCLI:
		raw := uint16(in.Imm()) & 0x3f
		setBits(&w, 11, 7, uint16(in.RD()))
		setBits(&w, 12, 12, raw>>5&1)
		setBits(&w, 6, 2, raw&0x1f)
		return w | 0b010<<13 | 0b01, nil
	case isa.MnemonicCADDI16SP:
		v := uint16(in.Imm()) & 0x3ff
		setBits(&w, 11, 7, uint16(in.RD()))
		setBits(&w, 12, 12, v>>9&1)
		setBits(&w, 6, 6, v>>4&1)
		setBits(&w, 5, 5, v>>6&1)
		setBits(&w, 4, 3, v>>7&0x3)
		setBits(&w, 2, 2, v>>5&1)
		return w | 0b011<<13 | 0b01, nil
	case isa.MnemonicCLUI:
		field := uint32(in.Imm()) >> 12 & 0x3f
		setBits(&w, 11, 7, uint16(in.RD()))
		setBits(&w, 12, 12, uint16(field>>5&1))
		setBits(&w, 6, 2, uint16(field&0x1f))
		return w | 0b011<<13 | 0b01, nil
	case isa.MnemonicCSRLI, isa.MnemonicCSRAI:
		shamt := uint16(in.Shamt()) & 0x3f
		setBits(&w, 9, 7, cRegIdx(in.RD()))
		setBits(&w, 12, 12, shamt>>5&1)
		setBits(&w, 6, 2, shamt&0x1f)
		sel := uint16(0b00)
		if m == isa.MnemonicCSRAI {
			sel = 0b01
		}
		return w | 0b100<<13 | sel<<10 | 0b01, nil
	case isa.MnemonicCANDI:
		raw := uint16(in.Imm()) & 0x3f
		setBits(&w, 9, 7, cRegIdx(in.RD()))
		setBits(&w, 12, 12, raw>>5&1)
		setBits(&w, 6, 2, raw&0x1f)
		return w | 0b100<<13 | 0b10<<10 | 0b01, nil
	case isa.MnemonicCSUB, isa.MnemonicCXOR, isa.MnemonicCOR, isa.MnemonicCAND:
		setBits(&w, 9, 7, cRegIdx(in.RD()))
		setBits(&w, 4, 2, cRegIdx(in.RS2()))
		sel := map[isa.Mnemonic]uint16{
			isa.MnemonicCSUB: 0b00, isa.MnemonicCXOR: 0b01, isa.MnemonicCOR: 0b10, isa.MnemonicCAND: 0b11,
		}[m]
		setBits(&w, 6, 5, sel)
		return w | 0b100<<13 | 0b11<<10 | 0b01, nil
	case isa.MnemonicCJ:
		return encodeCJImm(in.Imm()) | 0b101<<13 | 0b01, nil
	case isa.MnemonicCBEQZ, isa.MnemonicCBNEZ:
		w = encodeCBImm(in.Imm())
		setBits(&w, 9, 7, cRegIdx(in.RS1()))
		sel := uint16(0b110)
		if m == isa.MnemonicCBNEZ {
			sel = 0b111
		}
		return w | sel<<13 | 0b01, nil
	case isa.MnemonicCSLLI:
		shamt := uint16(in.Shamt()) & 0x3f
		setBits(&w, 11, 7, uint16(in.RD()))
		setBits(&w, 12, 12, shamt>>5&1)
		setBits(&w, 6, 2, shamt&0x1f)
		return w | 0b000<<13 | 0b10, nil
	case isa.MnemonicCLWSP:
		v := uint16(in.Imm())
		setBits(&w, 11, 7, uint16(in.RD()))
		setBits(&w, 12, 12, v>>5&1)
		setBits(&w, 6, 4, v>>2&0x7)
		setBits(&w, 3, 2, v>>6&0x3)
		return w | 0b010<<13 | 0b10, nil
	case isa.MnemonicCJR:
		setBits(&w, 11, 7, uint16(in.RS1()))
		return w | 0b100<<13 | 0b10, nil
	case isa.MnemonicCMV:
		setBits(&w, 11, 7, uint16(in.RD()))
		setBits(&w, 6, 2, uint16(in.RS2()))
		return w | 0b100<<13 | 0b10, nil
	case isa.MnemonicCEBREAK:
		return 0b100<<13 | 1<<12 | 0b10, nil
	case isa.MnemonicCJALR:
		setBits(&w, 11, 7, uint16(in.RS1()))
		return w | 0b100<<13 | 1<<12 | 0b10, nil
	case isa.MnemonicCADD:
		setBits(&w, 11, 7, uint16(in.RD()))
		setBits(&w, 6, 2, uint16(in.RS2()))
		return w | 0b100<<13 | 1<<12 | 0b10, nil
	case isa.MnemonicCSWSP:
		v := uint16(in.Imm())
		setBits(&w, 12, 9, v>>2&0xf)
		setBits(&w, 8, 7, v>>6&0x3)
		setBits(&w, 6, 2, uint16(in.RS2()))
		return w | 0b110<<13 | 0b10, nil
	default:
		return 0, fmt.Errorf("asm: Encode: no compressed encoding for %s", m)
	}
}
