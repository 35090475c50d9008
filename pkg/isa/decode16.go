package isa

// Compressed register fields are 3 bits wide and name x8..x15 only.
func cReg(bits3 uint16) Reg { return Reg(8 + bits3) }

func c(word uint16, hi, lo uint) uint16 {
	mask := uint16(1)<<(hi-lo+1) - 1
	return (word >> lo) & mask
}

func decode16(word uint16) Instruction {
	quadrant := word & 0b11
	funct3 := c(word, 15, 13)

	in := Instruction{Raw: uint32(word), Size: 2, Subset: SubsetC}

	switch quadrant {
	case 0b00:
		return decodeC0(word, in, funct3)
	case 0b01:
		return decodeC1(word, in, funct3)
	case 0b10:
		return decodeC2(word, in, funct3)
	default:
		return unknown16(word)
	}
}

func decodeC0(word uint16, in Instruction, funct3 uint16) Instruction {
	switch funct3 {
	case 0b000: // C.ADDI4SPN
		imm := c(word, 12, 11)<<4 | c(word, 10, 7)<<6 | c(word, 6, 6)<<2 | c(word, 5, 5)<<3
		if imm == 0 {
			in.Mnemonic = MnemonicCUNIMP
			return in
		}
		in.Mnemonic = MnemonicCADDI4SPN
		in.rd = cReg(c(word, 4, 2))
		in.imm = int32(imm)
		return in
	case 0b010: // C.LW
		imm := c(word, 6, 6)<<2 | c(word, 12, 10)<<3 | c(word, 5, 5)<<6
		in.Mnemonic = MnemonicCLW
		in.rs1 = cReg(c(word, 9, 7))
		in.rd = cReg(c(word, 4, 2))
		in.imm = int32(imm)
		return in
	case 0b110: // C.SW
		imm := c(word, 6, 6)<<2 | c(word, 12, 10)<<3 | c(word, 5, 5)<<6
		in.Mnemonic = MnemonicCSW
		in.rs1 = cReg(c(word, 9, 7))
		in.rs2 = cReg(c(word, 4, 2))
		in.imm = int32(imm)
		return in
	default:
		return unknown16(uint16(in.Raw))
	}
}

func decodeC1(word uint16, in Instruction, funct3 uint16) Instruction {
	switch funct3 {
	case 0b000: // C.ADDI / C.NOP
		rd := Reg(c(word, 11, 7))
		raw := c(word, 12, 12)<<5 | c(word, 6, 2)
		imm := signExtend(uint32(raw), 6)
		if rd == 0 {
			in.Mnemonic = MnemonicCNOP
			return in
		}
		in.Mnemonic = MnemonicCADDI
		in.rd, in.rs1 = rd, rd
		in.imm = imm
		return in
	case 0b001: // C.JAL (RV32 only)
		in.Mnemonic = MnemonicCJAL
		in.imm = cjImm(word)
		return in
	case 0b010: // C.LI
		in.Mnemonic = MnemonicCLI
		in.rd = Reg(c(word, 11, 7))
		raw := c(word, 12, 12)<<5 | c(word, 6, 2)
		in.imm = signExtend(uint32(raw), 6)
		return in
	case 0b011: // C.LUI / C.ADDI16SP
		rd := Reg(c(word, 11, 7))
		if rd == 2 {
			raw := c(word, 12, 12)<<9 | c(word, 6, 6)<<4 | c(word, 5, 5)<<6 |
				c(word, 4, 3)<<7 | c(word, 2, 2)<<5
			in.Mnemonic = MnemonicCADDI16SP
			in.rd, in.rs1 = rd, rd
			in.imm = signExtend(uint32(raw), 10)
			return in
		}
		raw := uint32(c(word, 12, 12))<<17 | uint32(c(word, 6, 2))<<12
		in.Mnemonic = MnemonicCLUI
		in.rd = rd
		in.imm = signExtend(raw, 18)
		return in
	case 0b100:
		return decodeC1MiscALU(word, in)
	case 0b101: // C.J
		in.Mnemonic = MnemonicCJ
		in.imm = cjImm(word)
		return in
	case 0b110: // C.BEQZ
		in.Mnemonic = MnemonicCBEQZ
		in.rs1 = cReg(c(word, 9, 7))
		in.imm = cbImm(word)
		return in
	case 0b111: // C.BNEZ
		in.Mnemonic = MnemonicCBNEZ
		in.rs1 = cReg(c(word, 9, 7))
		in.imm = cbImm(word)
		return in
	default:
		return unknown16(uint16(in.Raw))
	}
}

func decodeC1MiscALU(word uint16, in Instruction) Instruction {
	rd := cReg(c(word, 9, 7))
	switch c(word, 11, 10) {
	case 0b00: // C.SRLI
		shamt := c(word, 12, 12)<<5 | c(word, 6, 2)
		in.Mnemonic = MnemonicCSRLI
		in.rd, in.rs1 = rd, rd
		in.shamt = uint32(shamt)
		return in
	case 0b01: // C.SRAI
		shamt := c(word, 12, 12)<<5 | c(word, 6, 2)
		in.Mnemonic = MnemonicCSRAI
		in.rd, in.rs1 = rd, rd
		in.shamt = uint32(shamt)
		return in
	case 0b10: // C.ANDI
		raw := c(word, 12, 12)<<5 | c(word, 6, 2)
		in.Mnemonic = MnemonicCANDI
		in.rd, in.rs1 = rd, rd
		in.imm = signExtend(uint32(raw), 6)
		return in
	case 0b11: // CA-format: SUB/XOR/OR/AND (RV32: bit 12 is always 0)
		rs2 := cReg(c(word, 4, 2))
		in.rd, in.rs1, in.rs2 = rd, rd, rs2
		switch c(word, 6, 5) {
		case 0b00:
			in.Mnemonic = MnemonicCSUB
		case 0b01:
			in.Mnemonic = MnemonicCXOR
		case 0b10:
			in.Mnemonic = MnemonicCOR
		case 0b11:
			in.Mnemonic = MnemonicCAND
		}
		return in
	}
	return unknown16(uint16(in.Raw))
}

func decodeC2(word uint16, in Instruction, funct3 uint16) Instruction {
	switch funct3 {
	case 0b000: // C.SLLI
		rd := Reg(c(word, 11, 7))
		shamt := c(word, 12, 12)<<5 | c(word, 6, 2)
		in.Mnemonic = MnemonicCSLLI
		in.rd, in.rs1 = rd, rd
		in.shamt = uint32(shamt)
		return in
	case 0b010: // C.LWSP
		rd := Reg(c(word, 11, 7))
		if rd == 0 {
			return unknown16(uint16(in.Raw))
		}
		raw := c(word, 12, 12)<<5 | c(word, 6, 4)<<2 | c(word, 3, 2)<<6
		in.Mnemonic = MnemonicCLWSP
		in.rd = rd
		in.rs1 = RegSP
		in.imm = int32(raw)
		return in
	case 0b100:
		return decodeC2JumpsAndMoves(word, in)
	case 0b110: // C.SWSP
		raw := c(word, 12, 9)<<2 | c(word, 8, 7)<<6
		in.Mnemonic = MnemonicCSWSP
		in.rs1 = RegSP
		in.rs2 = Reg(c(word, 6, 2))
		in.imm = int32(raw)
		return in
	default:
		return unknown16(uint16(in.Raw))
	}
}

func decodeC2JumpsAndMoves(word uint16, in Instruction) Instruction {
	rd := Reg(c(word, 11, 7))
	rs2 := Reg(c(word, 6, 2))
	switch {
	case c(word, 12, 12) == 0 && rs2 == 0:
		if rd == 0 {
			return unknown16(uint16(in.Raw))
		}
		in.Mnemonic = MnemonicCJR
		in.rs1 = rd
		return in
	case c(word, 12, 12) == 0:
		in.Mnemonic = MnemonicCMV
		in.rd = rd
		in.rs2 = rs2
		return in
	case rd == 0 && rs2 == 0:
		in.Mnemonic = MnemonicCEBREAK
		return in
	case rs2 == 0:
		in.Mnemonic = MnemonicCJALR
		in.rs1 = rd
		return in
	default:
		in.Mnemonic = MnemonicCADD
		in.rd, in.rs1, in.rs2 = rd, rd, rs2
		return in
	}
}

// cjImm decodes the 11-bit jump-target immediate shared by C.JAL and C.J.
func cjImm(word uint16) int32 {
	raw := c(word, 12, 12)<<11 | c(word, 8, 8)<<10 | c(word, 10, 9)<<8 |
		c(word, 6, 6)<<7 | c(word, 7, 7)<<6 | c(word, 2, 2)<<5 |
		c(word, 11, 11)<<4 | c(word, 5, 3)<<1
	return signExtend(uint32(raw), 12)
}

// cbImm decodes the 8-bit branch-target immediate shared by C.BEQZ/C.BNEZ.
func cbImm(word uint16) int32 {
	raw := c(word, 12, 12)<<8 | c(word, 6, 5)<<6 | c(word, 2, 2)<<5 |
		c(word, 11, 10)<<3 | c(word, 4, 3)<<1
	return signExtend(uint32(raw), 9)
}

func unknown16(word uint16) Instruction {
	return Instruction{Subset: SubsetUnknown, Mnemonic: MnemonicInvalid, Raw: uint32(word), Size: 2}
}
