package asm

import (
	"fmt"

	"github.com/rv32emu/rv32emu/pkg/isa"
)

// Encode is the authoritative RV32IMAC assembler: the exact inverse of
// isa.Decode. It is built entirely from Instruction's exported field
// accessors, which is why it lives here rather than in pkg/isa — the
// decoder's private fields already carry everything an encoder needs, so
// there's no reason to give it package-internal access.
//
// Encode returns the raw code word and its width in bytes (2 or 4). A
// compressed result is returned in the low 16 bits of the word, matching
// the convention isa.Decode itself uses for its input.
func Encode(in isa.Instruction) (word uint32, width int, err error) {
	if in.Subset == isa.SubsetC {
		w, err := encode16(in)
		return uint32(w), 2, err
	}
	w, err := encode32(in)
	return w, 4, err
}

// Base opcode field, bits [6:2] of a 32-bit instruction shifted into the
// full 7-bit opcode (bits [1:0] are always 0b11). Mirrors isa/decode32.go's
// unexported op* constants one-for-one.
const (
	opLoad    = 0x00<<2 | 0b11
	opMiscMem = 0x03<<2 | 0b11
	opOpImm   = 0x04<<2 | 0b11
	opAuipc   = 0x05<<2 | 0b11
	opStore   = 0x08<<2 | 0b11
	opAmo     = 0x0b<<2 | 0b11
	opOp      = 0x0c<<2 | 0b11
	opLui     = 0x0d<<2 | 0b11
	opBranch  = 0x18<<2 | 0b11
	opJalr    = 0x19<<2 | 0b11
	opJal     = 0x1b<<2 | 0b11
	opSystem  = 0x1c<<2 | 0b11
)

func rType(opcode, funct3, funct7 uint32, rd, rs1, rs2 isa.Reg) uint32 {
	return funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode
}

func iType(opcode, funct3 uint32, rd, rs1 isa.Reg, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode
}

func sType(opcode, funct3 uint32, rs1, rs2 isa.Reg, imm int32) uint32 {
	u := uint32(imm) & 0xfff
	return (u>>5)<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | (u&0x1f)<<7 | opcode
}

func bType(opcode, funct3 uint32, rs1, rs2 isa.Reg, imm int32) uint32 {
	u := uint32(imm) & 0x1fff
	return (u>>12&1)<<31 | (u>>5&0x3f)<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 |
		(u>>1&0xf)<<8 | (u>>11&1)<<7 | opcode
}

func uType(opcode uint32, rd isa.Reg, imm int32) uint32 {
	return uint32(imm)&0xfffff000 | uint32(rd)<<7 | opcode
}

func jType(opcode uint32, rd isa.Reg, imm int32) uint32 {
	u := uint32(imm) & 0x1fffff
	return (u>>20&1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&1)<<20 | (u>>12&0xff)<<12 | uint32(rd)<<7 | opcode
}

var branchFunct3 = map[isa.Mnemonic]uint32{
	isa.MnemonicBEQ: 0b000, isa.MnemonicBNE: 0b001,
	isa.MnemonicBLT: 0b100, isa.MnemonicBGE: 0b101,
	isa.MnemonicBLTU: 0b110, isa.MnemonicBGEU: 0b111,
}

var loadFunct3 = map[isa.Mnemonic]uint32{
	isa.MnemonicLB: 0b000, isa.MnemonicLH: 0b001, isa.MnemonicLW: 0b010,
	isa.MnemonicLBU: 0b100, isa.MnemonicLHU: 0b101,
}

var storeFunct3 = map[isa.Mnemonic]uint32{
	isa.MnemonicSB: 0b000, isa.MnemonicSH: 0b001, isa.MnemonicSW: 0b010,
}

var opImmFunct3 = map[isa.Mnemonic]uint32{
	isa.MnemonicADDI: 0b000, isa.MnemonicSLTI: 0b010, isa.MnemonicSLTIU: 0b011,
	isa.MnemonicXORI: 0b100, isa.MnemonicORI: 0b110, isa.MnemonicANDI: 0b111,
}

var opFunct3 = map[isa.Mnemonic]uint32{
	isa.MnemonicADD: 0b000, isa.MnemonicSLL: 0b001, isa.MnemonicSLT: 0b010,
	isa.MnemonicSLTU: 0b011, isa.MnemonicXOR: 0b100, isa.MnemonicSRL: 0b101,
	isa.MnemonicOR: 0b110, isa.MnemonicAND: 0b111,
	isa.MnemonicSUB: 0b000, isa.MnemonicSRA: 0b101,
	isa.MnemonicMUL: 0b000, isa.MnemonicMULH: 0b001, isa.MnemonicMULHSU: 0b010, isa.MnemonicMULHU: 0b011,
	isa.MnemonicDIV: 0b100, isa.MnemonicDIVU: 0b101, isa.MnemonicREM: 0b110, isa.MnemonicREMU: 0b111,
}

var opFunct7 = map[isa.Mnemonic]uint32{
	isa.MnemonicADD: 0, isa.MnemonicSLL: 0, isa.MnemonicSLT: 0, isa.MnemonicSLTU: 0,
	isa.MnemonicXOR: 0, isa.MnemonicSRL: 0, isa.MnemonicOR: 0, isa.MnemonicAND: 0,
	isa.MnemonicSUB: 0b0100000, isa.MnemonicSRA: 0b0100000,
	isa.MnemonicMUL: 0b0000001, isa.MnemonicMULH: 0b0000001, isa.MnemonicMULHSU: 0b0000001, isa.MnemonicMULHU: 0b0000001,
	isa.MnemonicDIV: 0b0000001, isa.MnemonicDIVU: 0b0000001, isa.MnemonicREM: 0b0000001, isa.MnemonicREMU: 0b0000001,
}

var csrFunct3 = map[isa.Mnemonic]uint32{
	isa.MnemonicCSRRW: 0b001, isa.MnemonicCSRRS: 0b010, isa.MnemonicCSRRC: 0b011,
	isa.MnemonicCSRRWI: 0b101, isa.MnemonicCSRRSI: 0b110, isa.MnemonicCSRRCI: 0b111,
}

var csrImmVariant = map[isa.Mnemonic]bool{
	isa.MnemonicCSRRWI: true, isa.MnemonicCSRRSI: true, isa.MnemonicCSRRCI: true,
}

// privilegedCSR is the fixed bits[31:20] value decode32.go matches for each
// privileged no-operand mnemonic.
var privilegedCSR = map[isa.Mnemonic]uint32{
	isa.MnemonicURET: 0x000, isa.MnemonicSRET: 0x102, isa.MnemonicHRET: 0x202,
	isa.MnemonicMRET: 0x302, isa.MnemonicDRET: 0x7b2, isa.MnemonicWFI: 0x105,
}

// amoGroup is funct7>>2 for each AMO mnemonic, as decodeAmo switches on it.
var amoGroup = map[isa.Mnemonic]uint32{
	isa.MnemonicLRW: 0b00010, isa.MnemonicSCW: 0b00011, isa.MnemonicAMOSWAPW: 0b00001,
	isa.MnemonicAMOADDW: 0b00000, isa.MnemonicAMOXORW: 0b00100, isa.MnemonicAMOANDW: 0b01100,
	isa.MnemonicAMOORW: 0b01000, isa.MnemonicAMOMINW: 0b10000, isa.MnemonicAMOMAXW: 0b10100,
	isa.MnemonicAMOMINUW: 0b11000, isa.MnemonicAMOMAXUW: 0b11100,
}

func encode32(in isa.Instruction) (uint32, error) {
	m := in.Mnemonic
	switch {
	case m == isa.MnemonicLUI:
		return uType(opLui, in.RD(), in.Imm()), nil
	case m == isa.MnemonicAUIPC:
		return uType(opAuipc, in.RD(), in.Imm()), nil
	case m == isa.MnemonicJAL:
		return jType(opJal, in.RD(), in.Imm()), nil
	case m == isa.MnemonicJALR:
		return iType(opJalr, 0b000, in.RD(), in.RS1(), in.Imm()), nil
	case isBranch[m]:
		return bType(opBranch, branchFunct3[m], in.RS1(), in.RS2(), in.Imm()), nil
	case isLoad[m]:
		return iType(opLoad, loadFunct3[m], in.RD(), in.RS1(), in.Imm()), nil
	case isStore[m]:
		return sType(opStore, storeFunct3[m], in.RS1(), in.RS2(), in.Imm()), nil
	case m == isa.MnemonicSLLI:
		return rType(opOpImm, 0b001, 0b0000000, in.RD(), in.RS1(), isa.Reg(in.Shamt())), nil
	case m == isa.MnemonicSRLI:
		return rType(opOpImm, 0b101, 0b0000000, in.RD(), in.RS1(), isa.Reg(in.Shamt())), nil
	case m == isa.MnemonicSRAI:
		return rType(opOpImm, 0b101, 0b0100000, in.RD(), in.RS1(), isa.Reg(in.Shamt())), nil
	case isOpImm[m]:
		return iType(opOpImm, opImmFunct3[m], in.RD(), in.RS1(), in.Imm()), nil
	case isOp[m]:
		return rType(opOp, opFunct3[m], opFunct7[m], in.RD(), in.RS1(), in.RS2()), nil
	case m == isa.MnemonicFENCE:
		return uint32(in.FencePred())<<24 | uint32(in.FenceSucc())<<20 |
			uint32(in.RS1())<<15 | uint32(in.RD())<<7 | opMiscMem, nil
	case m == isa.MnemonicFENCEI:
		return iType(opMiscMem, 0b001, in.RD(), in.RS1(), 0), nil
	case m == isa.MnemonicECALL:
		return 0x00000073, nil
	case m == isa.MnemonicEBREAK:
		return 0x00100073, nil
	case m == isa.MnemonicSFENCEVM:
		return rType(opSystem, 0, 0b0000000, 0, in.RS1(), in.RS2()), nil
	case m == isa.MnemonicSFENCEVMA:
		return rType(opSystem, 0, 0b0001001, 0, in.RS1(), in.RS2()), nil
	case isPrivileged[m]:
		return privilegedCSR[m]<<20 | opSystem, nil
	case isCSR[m]:
		if csrImmVariant[m] {
			return in.CSR()<<20 | in.Zimm()<<15 | csrFunct3[m]<<12 | uint32(in.RD())<<7 | opSystem, nil
		}
		return in.CSR()<<20 | uint32(in.RS1())<<15 | csrFunct3[m]<<12 | uint32(in.RD())<<7 | opSystem, nil
	case isAmo[m]:
		return rType(opAmo, 0b010, amoGroup[m]<<2, in.RD(), in.RS1(), in.RS2()), nil
	default:
		return 0, fmt.Errorf("asm: Encode: no 32-bit encoding for %s", m)
	}
}

func boolSet(keys ...isa.Mnemonic) map[isa.Mnemonic]bool {
	s := make(map[isa.Mnemonic]bool, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

var isBranch = boolSet(isa.MnemonicBEQ, isa.MnemonicBNE, isa.MnemonicBLT,
	isa.MnemonicBGE, isa.MnemonicBLTU, isa.MnemonicBGEU)

var isLoad = boolSet(isa.MnemonicLB, isa.MnemonicLH, isa.MnemonicLW, isa.MnemonicLBU, isa.MnemonicLHU)

var isStore = boolSet(isa.MnemonicSB, isa.MnemonicSH, isa.MnemonicSW)

var isOpImm = boolSet(isa.MnemonicADDI, isa.MnemonicSLTI, isa.MnemonicSLTIU,
	isa.MnemonicXORI, isa.MnemonicORI, isa.MnemonicANDI)

var isOp = boolSet(isa.MnemonicADD, isa.MnemonicSUB, isa.MnemonicSLL, isa.MnemonicSLT,
	isa.MnemonicSLTU, isa.MnemonicXOR, isa.MnemonicSRL, isa.MnemonicSRA, isa.MnemonicOR, isa.MnemonicAND,
	isa.MnemonicMUL, isa.MnemonicMULH, isa.MnemonicMULHSU, isa.MnemonicMULHU,
	isa.MnemonicDIV, isa.MnemonicDIVU, isa.MnemonicREM, isa.MnemonicREMU)

var isPrivileged = boolSet(isa.MnemonicURET, isa.MnemonicSRET, isa.MnemonicHRET,
	isa.MnemonicMRET, isa.MnemonicDRET, isa.MnemonicWFI)

var isCSR = boolSet(isa.MnemonicCSRRW, isa.MnemonicCSRRS, isa.MnemonicCSRRC,
	isa.MnemonicCSRRWI, isa.MnemonicCSRRSI, isa.MnemonicCSRRCI)

var isAmo = boolSet(isa.MnemonicLRW, isa.MnemonicSCW, isa.MnemonicAMOSWAPW, isa.MnemonicAMOADDW,
	isa.MnemonicAMOXORW, isa.MnemonicAMOANDW, isa.MnemonicAMOORW, isa.MnemonicAMOMINW,
	isa.MnemonicAMOMAXW, isa.MnemonicAMOMINUW, isa.MnemonicAMOMAXUW)
