package hart

import "github.com/rv32emu/rv32emu/pkg/isa"

// execCSR implements the CSRRW/S/C(/I) family per spec.md §4.2: read the
// old value into rd, then apply the write according to the exact mnemonic.
// This bank does not gate privilege or read-only CSRs (spec.md §9 notes
// this as a known simplification).
func (h *Hart) execCSR(in isa.Instruction) {
	old := h.CSR(in.CSR())
	var operand uint32
	switch in.Mnemonic {
	case isa.MnemonicCSRRWI, isa.MnemonicCSRRSI, isa.MnemonicCSRRCI:
		operand = in.Zimm()
	default:
		operand = h.get(in.RS1())
	}

	switch in.Mnemonic {
	case isa.MnemonicCSRRW, isa.MnemonicCSRRWI:
		h.SetCSR(in.CSR(), operand)
	case isa.MnemonicCSRRS, isa.MnemonicCSRRSI:
		h.SetCSR(in.CSR(), old|operand)
	case isa.MnemonicCSRRC, isa.MnemonicCSRRCI:
		h.SetCSR(in.CSR(), old&^operand)
	}

	h.set(in.RD(), old)
}
