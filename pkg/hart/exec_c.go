package hart

import (
	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

// executeCompressed implements the C-extension per spec.md §4.2: "each
// compressed form decodes to the semantics of its expanded full form".
// pkg/isa's decode16 has already resolved every field (rd/rs1/rs2/imm/shamt)
// to the register numbers and immediate values the expanded form would use,
// so most cases here are the same one-liners as their 32-bit counterparts.
func (h *Hart) executeCompressed(mem memory.Memory, kernel Kernel, in isa.Instruction, pc, nextPC uint32) (StepResult, uint32, error) {
	switch in.Mnemonic {
	case isa.MnemonicCADDI4SPN:
		h.set(in.RD(), h.get(isa.RegSP)+uint32(in.Imm()))
	case isa.MnemonicCLW:
		v, err := memory.LoadSigned[uint32](mem, h.get(in.RS1())+uint32(in.Imm()))
		if err != nil {
			return StepResult{}, nextPC, err
		}
		h.set(in.RD(), uint32(v))
	case isa.MnemonicCSW:
		if err := memory.StoreTruncated[uint32](mem, h.get(in.RS1())+uint32(in.Imm()), h.get(in.RS2())); err != nil {
			return StepResult{}, nextPC, err
		}
	case isa.MnemonicCADDI:
		h.set(in.RD(), h.get(in.RS1())+uint32(in.Imm()))
	case isa.MnemonicCNOP:
		// no-op
	case isa.MnemonicCJAL:
		h.set(isa.RegRA, nextPC)
		nextPC = pc + uint32(in.Imm())
	case isa.MnemonicCLI:
		h.set(in.RD(), uint32(in.Imm()))
	case isa.MnemonicCADDI16SP:
		h.set(in.RD(), h.get(in.RS1())+uint32(in.Imm()))
	case isa.MnemonicCLUI:
		h.set(in.RD(), uint32(in.Imm()))
	case isa.MnemonicCSRLI:
		h.set(in.RD(), h.get(in.RS1())>>in.Shamt())
	case isa.MnemonicCSRAI:
		h.set(in.RD(), uint32(int32(h.get(in.RS1()))>>in.Shamt()))
	case isa.MnemonicCANDI:
		h.set(in.RD(), h.get(in.RS1())&uint32(in.Imm()))
	case isa.MnemonicCSUB:
		h.set(in.RD(), h.get(in.RS1())-h.get(in.RS2()))
	case isa.MnemonicCXOR:
		h.set(in.RD(), h.get(in.RS1())^h.get(in.RS2()))
	case isa.MnemonicCOR:
		h.set(in.RD(), h.get(in.RS1())|h.get(in.RS2()))
	case isa.MnemonicCAND:
		h.set(in.RD(), h.get(in.RS1())&h.get(in.RS2()))
	case isa.MnemonicCJ:
		nextPC = pc + uint32(in.Imm())
	case isa.MnemonicCBEQZ:
		if h.get(in.RS1()) == 0 {
			nextPC = pc + uint32(in.Imm())
		}
	case isa.MnemonicCBNEZ:
		if h.get(in.RS1()) != 0 {
			nextPC = pc + uint32(in.Imm())
		}
	case isa.MnemonicCSLLI:
		h.set(in.RD(), h.get(in.RS1())<<in.Shamt())
	case isa.MnemonicCLWSP:
		v, err := memory.LoadSigned[uint32](mem, h.get(in.RS1())+uint32(in.Imm()))
		if err != nil {
			return StepResult{}, nextPC, err
		}
		h.set(in.RD(), uint32(v))
	case isa.MnemonicCSWSP:
		if err := memory.StoreTruncated[uint32](mem, h.get(in.RS1())+uint32(in.Imm()), h.get(in.RS2())); err != nil {
			return StepResult{}, nextPC, err
		}
	case isa.MnemonicCJR:
		nextPC = h.get(in.RS1())
	case isa.MnemonicCMV:
		h.set(in.RD(), h.get(in.RS2()))
	case isa.MnemonicCEBREAK:
		res, err := kernel.Ebreak(h, mem)
		if err != nil {
			return StepResult{}, nextPC, &KernelError{PC: pc, Err: err}
		}
		return res, nextPC, nil
	case isa.MnemonicCJALR:
		target := h.get(in.RS1())
		h.set(isa.RegRA, nextPC)
		nextPC = target
	case isa.MnemonicCADD:
		h.set(in.RD(), h.get(in.RS1())+h.get(in.RS2()))
	case isa.MnemonicCUNIMP:
		return StepResult{}, nextPC, &IllegalInstructionError{PC: pc, Mnemonic: in.Mnemonic}
	default:
		return StepResult{}, nextPC, &InvalidInstructionError{PC: pc, Word: in.Raw}
	}
	return Ok, nextPC, nil
}
