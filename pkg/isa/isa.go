// Package isa contains the RV32IMAC instruction decoder.
//
// Decode is a pure function from a 16- or 32-bit little-endian code word to
// a tagged Instruction value. The low two bits of the word select the
// encoding width: 0b11 selects a 32-bit instruction, anything else selects
// a 16-bit compressed instruction drawn from the low 16 bits of the word
// (the upper 16 bits are ignored in that case).
//
// Decode never mutates hart or memory state; all of the bit-twiddling
// required to pull registers, immediates, shift amounts, CSR indices and
// fence predecessor/successor masks out of a raw word lives here so that
// pkg/hart can stay a pure dispatch-and-execute loop.
package isa

// Subset tags which RISC-V extension family an Instruction belongs to.
type Subset int

const (
	// SubsetUnknown marks a word the decoder could not classify.
	SubsetUnknown Subset = iota
	// SubsetI is the base integer instruction set.
	SubsetI
	// SubsetM is the integer multiply/divide extension.
	SubsetM
	// SubsetA is the atomics extension.
	SubsetA
	// SubsetC is the 16-bit compressed encoding.
	SubsetC
	// SubsetS is the system/privileged instruction family (CSR access,
	// xRET, WFI, SFENCE.*).
	SubsetS
)

// String renders a Subset as its ISA letter.
func (s Subset) String() string {
	switch s {
	case SubsetI:
		return "I"
	case SubsetM:
		return "M"
	case SubsetA:
		return "A"
	case SubsetC:
		return "C"
	case SubsetS:
		return "S"
	default:
		return "?"
	}
}

// Reg is a 5-bit general purpose register identifier in [0, 31].
type Reg uint8

// Well-known register aliases.
const (
	RegZero Reg = 0
	RegRA   Reg = 1
	RegSP   Reg = 2
	RegA0   Reg = 10
	RegA1   Reg = 11
	RegA2   Reg = 12
	RegA3   Reg = 13
	RegA4   Reg = 14
	RegA5   Reg = 15
	RegA6   Reg = 16
	RegA7   Reg = 17
)

var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// String renders the ABI name of a register, e.g. "a0" for x10.
func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return "?"
}

// FReg is a 5-bit floating-point register identifier. The decoder tags
// F/D/Q-subset opcodes only insofar as they decode to SubsetUnknown; the
// core never executes floating-point instructions (see package docs of
// pkg/hart), so FReg exists purely so field accessors on a decoded
// instruction that happens to name an FP register have a type to return.
type FReg uint8

// Mnemonic identifies the exact operation a decoded Instruction performs.
type Mnemonic int

// Instruction is the decoder's tagged output: which ISA subset a code word
// belongs to, which exact mnemonic it names, and every field the hart's
// executor will need, extracted and sign-extended once at decode time.
type Instruction struct {
	Subset   Subset
	Mnemonic Mnemonic
	Raw      uint32 // the 32-bit word, or the low 16 bits for compressed
	Size     int    // 2 for compressed, 4 otherwise

	rd        Reg
	rs1       Reg
	rs2       Reg
	imm       int32
	shamt     uint32
	csr       uint32
	zimm      uint32
	fencePred uint8
	fenceSucc uint8
}

// RD returns the decoded destination register field.
func (i Instruction) RD() Reg { return i.rd }

// RS1 returns the decoded first source register field.
func (i Instruction) RS1() Reg { return i.rs1 }

// RS2 returns the decoded second source register field.
func (i Instruction) RS2() Reg { return i.rs2 }

// Imm returns the decoded, sign-extended immediate as a signed 32-bit value.
// Callers that need the raw bit pattern (e.g. LUI's already-shifted upper
// immediate) can cast to uint32 themselves; Imm always carries the correct
// sign for wrapping arithmetic.
func (i Instruction) Imm() int32 { return i.imm }

// Shamt returns the 5-bit shift amount used by *LI shift instructions.
func (i Instruction) Shamt() uint32 { return i.shamt }

// CSR returns the 12-bit control-status register index.
func (i Instruction) CSR() uint32 { return i.csr }

// Zimm returns the zero-extended 5-bit immediate used by the CSR*I family.
func (i Instruction) Zimm() uint32 { return i.zimm }

// FencePred returns the 4-bit FENCE predecessor mask.
func (i Instruction) FencePred() uint8 { return i.fencePred }

// FenceSucc returns the 4-bit FENCE successor mask.
func (i Instruction) FenceSucc() uint8 { return i.fenceSucc }

// IsCompressed reports whether this instruction was decoded from a 16-bit
// compressed word.
func (i Instruction) IsCompressed() bool { return i.Size == 2 }

// Decode classifies a 32-bit code word and extracts its fields. Fetching
// the word from guest memory is the hart's job; Decode never touches
// memory. An Unknown-subset Instruction is returned, with no error, when
// the low bits identify a width but the remaining bits name nothing this
// decoder recognises — callers distinguish "decoded to an explicit illegal
// sentinel" from "decoder gave up" by inspecting Mnemonic, per the error
// taxonomy in pkg/hart.
func Decode(word uint32) Instruction {
	if word&0b11 == 0b11 {
		return decode32(word)
	}
	return decode16(uint16(word))
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

func bits(v uint32, hi, lo uint) uint32 {
	mask := uint32(1)<<(hi-lo+1) - 1
	return (v >> lo) & mask
}
