package isa

// Base opcode field, bits [6:2] of a 32-bit instruction (bits [1:0] are
// always 0b11 and already consumed by Decode).
const (
	opLoad    = 0x00
	opMiscMem = 0x03
	opOpImm   = 0x04
	opAuipc   = 0x05
	opStore   = 0x08
	opAmo     = 0x0b
	opOp      = 0x0c
	opLui     = 0x0d
	opBranch  = 0x18
	opJalr    = 0x19
	opJal     = 0x1b
	opSystem  = 0x1c
)

func decode32(word uint32) Instruction {
	opcode := bits(word, 6, 2)
	funct3 := bits(word, 14, 12)
	funct7 := bits(word, 31, 25)

	in := Instruction{Raw: word, Size: 4}
	in.rd = Reg(bits(word, 11, 7))
	in.rs1 = Reg(bits(word, 19, 15))
	in.rs2 = Reg(bits(word, 24, 20))
	in.shamt = bits(word, 24, 20) & 0x1f
	in.csr = bits(word, 31, 20)
	in.zimm = bits(word, 19, 15)
	in.fencePred = uint8(bits(word, 27, 24))
	in.fenceSucc = uint8(bits(word, 23, 20))

	switch opcode {
	case opLui:
		in.Subset, in.Mnemonic = SubsetI, MnemonicLUI
		in.imm = int32(word & 0xfffff000)
		return in
	case opAuipc:
		in.Subset, in.Mnemonic = SubsetI, MnemonicAUIPC
		in.imm = int32(word & 0xfffff000)
		return in
	case opJal:
		in.Subset, in.Mnemonic = SubsetI, MnemonicJAL
		raw := bits(word, 31, 31)<<20 | bits(word, 19, 12)<<12 |
			bits(word, 20, 20)<<11 | bits(word, 30, 21)<<1
		in.imm = signExtend(raw, 21)
		return in
	case opJalr:
		in.Subset, in.Mnemonic = SubsetI, MnemonicJALR
		in.imm = signExtend(bits(word, 31, 20), 12)
		return in
	case opBranch:
		in.Subset = SubsetI
		raw := bits(word, 31, 31)<<12 | bits(word, 7, 7)<<11 |
			bits(word, 30, 25)<<5 | bits(word, 11, 8)<<1
		in.imm = signExtend(raw, 13)
		switch funct3 {
		case 0b000:
			in.Mnemonic = MnemonicBEQ
		case 0b001:
			in.Mnemonic = MnemonicBNE
		case 0b100:
			in.Mnemonic = MnemonicBLT
		case 0b101:
			in.Mnemonic = MnemonicBGE
		case 0b110:
			in.Mnemonic = MnemonicBLTU
		case 0b111:
			in.Mnemonic = MnemonicBGEU
		default:
			return unknown(word)
		}
		return in
	case opLoad:
		in.Subset = SubsetI
		in.imm = signExtend(bits(word, 31, 20), 12)
		switch funct3 {
		case 0b000:
			in.Mnemonic = MnemonicLB
		case 0b001:
			in.Mnemonic = MnemonicLH
		case 0b010:
			in.Mnemonic = MnemonicLW
		case 0b100:
			in.Mnemonic = MnemonicLBU
		case 0b101:
			in.Mnemonic = MnemonicLHU
		default:
			return unknown(word)
		}
		return in
	case opStore:
		in.Subset = SubsetI
		raw := bits(word, 31, 25)<<5 | bits(word, 11, 7)
		in.imm = signExtend(raw, 12)
		switch funct3 {
		case 0b000:
			in.Mnemonic = MnemonicSB
		case 0b001:
			in.Mnemonic = MnemonicSH
		case 0b010:
			in.Mnemonic = MnemonicSW
		default:
			return unknown(word)
		}
		return in
	case opOpImm:
		in.Subset = SubsetI
		in.imm = signExtend(bits(word, 31, 20), 12)
		switch funct3 {
		case 0b000:
			in.Mnemonic = MnemonicADDI
		case 0b010:
			in.Mnemonic = MnemonicSLTI
		case 0b011:
			in.Mnemonic = MnemonicSLTIU
		case 0b100:
			in.Mnemonic = MnemonicXORI
		case 0b110:
			in.Mnemonic = MnemonicORI
		case 0b111:
			in.Mnemonic = MnemonicANDI
		case 0b001:
			if funct7 != 0 {
				return unknown(word)
			}
			in.Mnemonic = MnemonicSLLI
		case 0b101:
			switch funct7 {
			case 0b0000000:
				in.Mnemonic = MnemonicSRLI
			case 0b0100000:
				in.Mnemonic = MnemonicSRAI
			default:
				return unknown(word)
			}
		default:
			return unknown(word)
		}
		return in
	case opOp:
		return decodeOp(word, in, funct3, funct7)
	case opMiscMem:
		in.Subset = SubsetI
		switch funct3 {
		case 0b000:
			in.Mnemonic = MnemonicFENCE
		case 0b001:
			in.Mnemonic = MnemonicFENCEI
		default:
			return unknown(word)
		}
		return in
	case opSystem:
		return decodeSystem(word, in, funct3, funct7)
	case opAmo:
		return decodeAmo(word, in, funct3, funct7)
	default:
		return unknown(word)
	}
}

func decodeOp(word uint32, in Instruction, funct3, funct7 uint32) Instruction {
	switch funct7 {
	case 0b0000000:
		in.Subset = SubsetI
		switch funct3 {
		case 0b000:
			in.Mnemonic = MnemonicADD
		case 0b001:
			in.Mnemonic = MnemonicSLL
		case 0b010:
			in.Mnemonic = MnemonicSLT
		case 0b011:
			in.Mnemonic = MnemonicSLTU
		case 0b100:
			in.Mnemonic = MnemonicXOR
		case 0b101:
			in.Mnemonic = MnemonicSRL
		case 0b110:
			in.Mnemonic = MnemonicOR
		case 0b111:
			in.Mnemonic = MnemonicAND
		default:
			return unknown(word)
		}
		return in
	case 0b0100000:
		in.Subset = SubsetI
		switch funct3 {
		case 0b000:
			in.Mnemonic = MnemonicSUB
		case 0b101:
			in.Mnemonic = MnemonicSRA
		default:
			return unknown(word)
		}
		return in
	case 0b0000001:
		in.Subset = SubsetM
		switch funct3 {
		case 0b000:
			in.Mnemonic = MnemonicMUL
		case 0b001:
			in.Mnemonic = MnemonicMULH
		case 0b010:
			in.Mnemonic = MnemonicMULHSU
		case 0b011:
			in.Mnemonic = MnemonicMULHU
		case 0b100:
			in.Mnemonic = MnemonicDIV
		case 0b101:
			in.Mnemonic = MnemonicDIVU
		case 0b110:
			in.Mnemonic = MnemonicREM
		case 0b111:
			in.Mnemonic = MnemonicREMU
		default:
			return unknown(word)
		}
		return in
	default:
		return unknown(word)
	}
}

func decodeSystem(word uint32, in Instruction, funct3, funct7 uint32) Instruction {
	if funct3 == 0 {
		in.Subset = SubsetI
		switch {
		case word == 0x00000073:
			in.Mnemonic = MnemonicECALL
			return in
		case word == 0x00100073:
			in.Mnemonic = MnemonicEBREAK
			return in
		}
		in.Subset = SubsetS
		switch bits(word, 31, 20) {
		case 0x000:
			in.Mnemonic = MnemonicURET
		case 0x102:
			in.Mnemonic = MnemonicSRET
		case 0x202:
			in.Mnemonic = MnemonicHRET
		case 0x302:
			in.Mnemonic = MnemonicMRET
		case 0x7b2:
			in.Mnemonic = MnemonicDRET
		case 0x105:
			in.Mnemonic = MnemonicWFI
		default:
			switch funct7 {
			case 0b0000000:
				in.Mnemonic = MnemonicSFENCEVM
			case 0b0001001:
				in.Mnemonic = MnemonicSFENCEVMA
			default:
				return unknown(word)
			}
		}
		return in
	}
	in.Subset = SubsetS
	switch funct3 {
	case 0b001:
		in.Mnemonic = MnemonicCSRRW
	case 0b010:
		in.Mnemonic = MnemonicCSRRS
	case 0b011:
		in.Mnemonic = MnemonicCSRRC
	case 0b101:
		in.Mnemonic = MnemonicCSRRWI
	case 0b110:
		in.Mnemonic = MnemonicCSRRSI
	case 0b111:
		in.Mnemonic = MnemonicCSRRCI
	default:
		return unknown(word)
	}
	return in
}

func decodeAmo(word uint32, in Instruction, funct3, funct7 uint32) Instruction {
	if funct3 != 0b010 { // only the .W width is supported
		return unknown(word)
	}
	in.Subset = SubsetA
	switch funct7 >> 2 {
	case 0b00010:
		in.Mnemonic = MnemonicLRW
	case 0b00011:
		in.Mnemonic = MnemonicSCW
	case 0b00001:
		in.Mnemonic = MnemonicAMOSWAPW
	case 0b00000:
		in.Mnemonic = MnemonicAMOADDW
	case 0b00100:
		in.Mnemonic = MnemonicAMOXORW
	case 0b01100:
		in.Mnemonic = MnemonicAMOANDW
	case 0b01000:
		in.Mnemonic = MnemonicAMOORW
	case 0b10000:
		in.Mnemonic = MnemonicAMOMINW
	case 0b10100:
		in.Mnemonic = MnemonicAMOMAXW
	case 0b11000:
		in.Mnemonic = MnemonicAMOMINUW
	case 0b11100:
		in.Mnemonic = MnemonicAMOMAXUW
	default:
		return unknown(word)
	}
	return in
}

func unknown(word uint32) Instruction {
	return Instruction{Subset: SubsetUnknown, Mnemonic: MnemonicInvalid, Raw: word, Size: 4}
}
