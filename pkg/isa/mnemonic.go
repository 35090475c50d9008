package isa

// The mnemonic constants are grouped by subset in the same order spec.md
// enumerates them, so the numeric value of a Mnemonic is not meaningful
// outside this package — only Subset+Mnemonic together identify an
// operation.
const (
	MnemonicInvalid Mnemonic = iota

	// Base integer instruction set (SubsetI).
	MnemonicLUI
	MnemonicAUIPC
	MnemonicJAL
	MnemonicJALR
	MnemonicBEQ
	MnemonicBNE
	MnemonicBLT
	MnemonicBGE
	MnemonicBLTU
	MnemonicBGEU
	MnemonicLB
	MnemonicLH
	MnemonicLW
	MnemonicLBU
	MnemonicLHU
	MnemonicSB
	MnemonicSH
	MnemonicSW
	MnemonicADDI
	MnemonicSLTI
	MnemonicSLTIU
	MnemonicXORI
	MnemonicORI
	MnemonicANDI
	MnemonicSLLI
	MnemonicSRLI
	MnemonicSRAI
	MnemonicADD
	MnemonicSUB
	MnemonicSLL
	MnemonicSLT
	MnemonicSLTU
	MnemonicXOR
	MnemonicSRL
	MnemonicSRA
	MnemonicOR
	MnemonicAND
	MnemonicFENCE
	MnemonicFENCEI
	MnemonicECALL
	MnemonicEBREAK
	MnemonicUNIMP // illegal-instruction sentinel

	// Integer multiply/divide extension (SubsetM).
	MnemonicMUL
	MnemonicMULH
	MnemonicMULHSU
	MnemonicMULHU
	MnemonicDIV
	MnemonicDIVU
	MnemonicREM
	MnemonicREMU

	// Atomics extension (SubsetA).
	MnemonicLRW
	MnemonicSCW
	MnemonicAMOSWAPW
	MnemonicAMOADDW
	MnemonicAMOXORW
	MnemonicAMOORW
	MnemonicAMOANDW
	MnemonicAMOMINW
	MnemonicAMOMAXW
	MnemonicAMOMINUW
	MnemonicAMOMAXUW

	// System/privileged family (SubsetS).
	MnemonicCSRRW
	MnemonicCSRRS
	MnemonicCSRRC
	MnemonicCSRRWI
	MnemonicCSRRSI
	MnemonicCSRRCI
	MnemonicURET
	MnemonicSRET
	MnemonicHRET
	MnemonicMRET
	MnemonicDRET
	MnemonicSFENCEVM
	MnemonicSFENCEVMA
	MnemonicWFI

	// 16-bit compressed encodings (SubsetC).
	MnemonicCADDI4SPN
	MnemonicCLW
	MnemonicCSW
	MnemonicCADDI
	MnemonicCADDI16SP
	MnemonicCLWSP
	MnemonicCSWSP
	MnemonicCNOP
	MnemonicCJAL
	MnemonicCLI
	MnemonicCLUI
	MnemonicCSRLI
	MnemonicCSRAI
	MnemonicCANDI
	MnemonicCSUB
	MnemonicCXOR
	MnemonicCOR
	MnemonicCAND
	MnemonicCJ
	MnemonicCBEQZ
	MnemonicCBNEZ
	MnemonicCSLLI
	MnemonicCJR
	MnemonicCMV
	MnemonicCEBREAK
	MnemonicCJALR
	MnemonicCADD
	MnemonicCUNIMP
)

var mnemonicNames = map[Mnemonic]string{
	MnemonicInvalid: "<invalid>",

	MnemonicLUI: "lui", MnemonicAUIPC: "auipc", MnemonicJAL: "jal", MnemonicJALR: "jalr",
	MnemonicBEQ: "beq", MnemonicBNE: "bne", MnemonicBLT: "blt", MnemonicBGE: "bge",
	MnemonicBLTU: "bltu", MnemonicBGEU: "bgeu",
	MnemonicLB: "lb", MnemonicLH: "lh", MnemonicLW: "lw", MnemonicLBU: "lbu", MnemonicLHU: "lhu",
	MnemonicSB: "sb", MnemonicSH: "sh", MnemonicSW: "sw",
	MnemonicADDI: "addi", MnemonicSLTI: "slti", MnemonicSLTIU: "sltiu",
	MnemonicXORI: "xori", MnemonicORI: "ori", MnemonicANDI: "andi",
	MnemonicSLLI: "slli", MnemonicSRLI: "srli", MnemonicSRAI: "srai",
	MnemonicADD: "add", MnemonicSUB: "sub", MnemonicSLL: "sll", MnemonicSLT: "slt",
	MnemonicSLTU: "sltu", MnemonicXOR: "xor", MnemonicSRL: "srl", MnemonicSRA: "sra",
	MnemonicOR: "or", MnemonicAND: "and",
	MnemonicFENCE: "fence", MnemonicFENCEI: "fence.i",
	MnemonicECALL: "ecall", MnemonicEBREAK: "ebreak", MnemonicUNIMP: "unimp",

	MnemonicMUL: "mul", MnemonicMULH: "mulh", MnemonicMULHSU: "mulhsu", MnemonicMULHU: "mulhu",
	MnemonicDIV: "div", MnemonicDIVU: "divu", MnemonicREM: "rem", MnemonicREMU: "remu",

	MnemonicLRW: "lr.w", MnemonicSCW: "sc.w",
	MnemonicAMOSWAPW: "amoswap.w", MnemonicAMOADDW: "amoadd.w", MnemonicAMOXORW: "amoxor.w",
	MnemonicAMOORW: "amoor.w", MnemonicAMOANDW: "amoand.w",
	MnemonicAMOMINW: "amomin.w", MnemonicAMOMAXW: "amomax.w",
	MnemonicAMOMINUW: "amominu.w", MnemonicAMOMAXUW: "amomaxu.w",

	MnemonicCSRRW: "csrrw", MnemonicCSRRS: "csrrs", MnemonicCSRRC: "csrrc",
	MnemonicCSRRWI: "csrrwi", MnemonicCSRRSI: "csrrsi", MnemonicCSRRCI: "csrrci",
	MnemonicURET: "uret", MnemonicSRET: "sret", MnemonicHRET: "hret",
	MnemonicMRET: "mret", MnemonicDRET: "dret",
	MnemonicSFENCEVM: "sfence.vm", MnemonicSFENCEVMA: "sfence.vma", MnemonicWFI: "wfi",

	MnemonicCADDI4SPN: "c.addi4spn", MnemonicCLW: "c.lw", MnemonicCSW: "c.sw",
	MnemonicCADDI: "c.addi", MnemonicCADDI16SP: "c.addi16sp",
	MnemonicCLWSP: "c.lwsp", MnemonicCSWSP: "c.swsp", MnemonicCNOP: "c.nop",
	MnemonicCJAL: "c.jal", MnemonicCLI: "c.li", MnemonicCLUI: "c.lui",
	MnemonicCSRLI: "c.srli", MnemonicCSRAI: "c.srai", MnemonicCANDI: "c.andi",
	MnemonicCSUB: "c.sub", MnemonicCXOR: "c.xor", MnemonicCOR: "c.or", MnemonicCAND: "c.and",
	MnemonicCJ: "c.j", MnemonicCBEQZ: "c.beqz", MnemonicCBNEZ: "c.bnez",
	MnemonicCSLLI: "c.slli", MnemonicCJR: "c.jr", MnemonicCMV: "c.mv",
	MnemonicCEBREAK: "c.ebreak", MnemonicCJALR: "c.jalr", MnemonicCADD: "c.add",
	MnemonicCUNIMP: "c.unimp",
}

// String renders the assembly mnemonic, e.g. "addi" or "c.jalr".
func (m Mnemonic) String() string {
	if name, ok := mnemonicNames[m]; ok {
		return name
	}
	return "<unknown>"
}
