package hart

import (
	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

// execute dispatches a decoded instruction to its semantics and returns the
// StepResult to report, the next PC to install, and any failure. Step is
// responsible for turning a non-nil error into a terminal outcome and for
// only committing nextPC/InstCount when err is nil and the result is Ok.
func (h *Hart) execute(mem memory.Memory, kernel Kernel, in isa.Instruction, pc, nextPC uint32) (StepResult, uint32, error) {
	switch in.Mnemonic {

	// --- SubsetI: upper immediates and control transfer ---
	case isa.MnemonicLUI:
		h.set(in.RD(), uint32(in.Imm()))
	case isa.MnemonicAUIPC:
		h.set(in.RD(), pc+uint32(in.Imm()))
	case isa.MnemonicJAL:
		h.set(in.RD(), nextPC)
		nextPC = pc + uint32(in.Imm())
	case isa.MnemonicJALR:
		target := (h.get(in.RS1()) + uint32(in.Imm())) &^ 1
		h.set(in.RD(), nextPC)
		nextPC = target

	// --- SubsetI: branches ---
	case isa.MnemonicBEQ:
		if h.get(in.RS1()) == h.get(in.RS2()) {
			nextPC = pc + uint32(in.Imm())
		}
	case isa.MnemonicBNE:
		if h.get(in.RS1()) != h.get(in.RS2()) {
			nextPC = pc + uint32(in.Imm())
		}
	case isa.MnemonicBLT:
		if int32(h.get(in.RS1())) < int32(h.get(in.RS2())) {
			nextPC = pc + uint32(in.Imm())
		}
	case isa.MnemonicBGE:
		if int32(h.get(in.RS1())) >= int32(h.get(in.RS2())) {
			nextPC = pc + uint32(in.Imm())
		}
	case isa.MnemonicBLTU:
		if h.get(in.RS1()) < h.get(in.RS2()) {
			nextPC = pc + uint32(in.Imm())
		}
	case isa.MnemonicBGEU:
		if h.get(in.RS1()) >= h.get(in.RS2()) {
			nextPC = pc + uint32(in.Imm())
		}

	// --- SubsetI: loads/stores ---
	case isa.MnemonicLB, isa.MnemonicLH, isa.MnemonicLW, isa.MnemonicLBU, isa.MnemonicLHU:
		v, err := loadByMnemonic(mem, in.Mnemonic, h.get(in.RS1())+uint32(in.Imm()))
		if err != nil {
			return StepResult{}, nextPC, err
		}
		h.set(in.RD(), v)
	case isa.MnemonicSB, isa.MnemonicSH, isa.MnemonicSW:
		if err := storeByMnemonic(mem, in.Mnemonic, h.get(in.RS1())+uint32(in.Imm()), h.get(in.RS2())); err != nil {
			return StepResult{}, nextPC, err
		}

	// --- SubsetI: ALU-immediate ---
	case isa.MnemonicADDI:
		h.set(in.RD(), h.get(in.RS1())+uint32(in.Imm()))
	case isa.MnemonicSLTI:
		h.set(in.RD(), boolU32(int32(h.get(in.RS1())) < in.Imm()))
	case isa.MnemonicSLTIU:
		h.set(in.RD(), boolU32(h.get(in.RS1()) < uint32(in.Imm())))
	case isa.MnemonicXORI:
		h.set(in.RD(), h.get(in.RS1())^uint32(in.Imm()))
	case isa.MnemonicORI:
		h.set(in.RD(), h.get(in.RS1())|uint32(in.Imm()))
	case isa.MnemonicANDI:
		h.set(in.RD(), h.get(in.RS1())&uint32(in.Imm()))
	case isa.MnemonicSLLI:
		h.set(in.RD(), h.get(in.RS1())<<in.Shamt())
	case isa.MnemonicSRLI:
		h.set(in.RD(), h.get(in.RS1())>>in.Shamt())
	case isa.MnemonicSRAI:
		h.set(in.RD(), uint32(int32(h.get(in.RS1()))>>in.Shamt()))

	// --- SubsetI: ALU register-register ---
	case isa.MnemonicADD:
		h.set(in.RD(), h.get(in.RS1())+h.get(in.RS2()))
	case isa.MnemonicSUB:
		h.set(in.RD(), h.get(in.RS1())-h.get(in.RS2()))
	case isa.MnemonicSLL:
		h.set(in.RD(), h.get(in.RS1())<<(h.get(in.RS2())&0x1f))
	case isa.MnemonicSLT:
		h.set(in.RD(), boolU32(int32(h.get(in.RS1())) < int32(h.get(in.RS2()))))
	case isa.MnemonicSLTU:
		h.set(in.RD(), boolU32(h.get(in.RS1()) < h.get(in.RS2())))
	case isa.MnemonicXOR:
		h.set(in.RD(), h.get(in.RS1())^h.get(in.RS2()))
	case isa.MnemonicSRL:
		h.set(in.RD(), h.get(in.RS1())>>(h.get(in.RS2())&0x1f))
	case isa.MnemonicSRA:
		h.set(in.RD(), uint32(int32(h.get(in.RS1()))>>(h.get(in.RS2())&0x1f)))
	case isa.MnemonicOR:
		h.set(in.RD(), h.get(in.RS1())|h.get(in.RS2()))
	case isa.MnemonicAND:
		h.set(in.RD(), h.get(in.RS1())&h.get(in.RS2()))

	// --- SubsetI: fences and traps ---
	case isa.MnemonicFENCE, isa.MnemonicFENCEI:
		// Architectural no-ops: there is no second observer (spec.md §5).
	case isa.MnemonicECALL:
		res, err := kernel.Syscall(h, mem)
		if err != nil {
			return StepResult{}, nextPC, &KernelError{PC: pc, Err: err}
		}
		return res, nextPC, nil
	case isa.MnemonicEBREAK:
		res, err := kernel.Ebreak(h, mem)
		if err != nil {
			return StepResult{}, nextPC, &KernelError{PC: pc, Err: err}
		}
		return res, nextPC, nil
	case isa.MnemonicUNIMP:
		return StepResult{}, nextPC, &IllegalInstructionError{PC: pc, Mnemonic: in.Mnemonic}

	// --- SubsetM ---
	case isa.MnemonicMUL, isa.MnemonicMULH, isa.MnemonicMULHSU, isa.MnemonicMULHU,
		isa.MnemonicDIV, isa.MnemonicDIVU, isa.MnemonicREM, isa.MnemonicREMU:
		h.set(in.RD(), execM(in.Mnemonic, h.get(in.RS1()), h.get(in.RS2())))

	// --- SubsetA ---
	case isa.MnemonicLRW, isa.MnemonicSCW, isa.MnemonicAMOSWAPW, isa.MnemonicAMOADDW,
		isa.MnemonicAMOXORW, isa.MnemonicAMOORW, isa.MnemonicAMOANDW,
		isa.MnemonicAMOMINW, isa.MnemonicAMOMAXW, isa.MnemonicAMOMINUW, isa.MnemonicAMOMAXUW:
		if err := h.execAmo(mem, in, pc); err != nil {
			return StepResult{}, nextPC, err
		}

	// --- SubsetS: CSR access ---
	case isa.MnemonicCSRRW, isa.MnemonicCSRRS, isa.MnemonicCSRRC,
		isa.MnemonicCSRRWI, isa.MnemonicCSRRSI, isa.MnemonicCSRRCI:
		h.execCSR(in)

	case isa.MnemonicMRET:
		// Accepted as a no-op pending full privilege modelling (spec.md §4.2).
	case isa.MnemonicURET, isa.MnemonicSRET, isa.MnemonicHRET, isa.MnemonicDRET,
		isa.MnemonicWFI, isa.MnemonicSFENCEVM, isa.MnemonicSFENCEVMA:
		return StepResult{}, nextPC, &UnimplementedInstructionError{PC: pc, Mnemonic: in.Mnemonic}

	// --- SubsetC: compressed forms, expanded to their full-form semantics ---
	default:
		if in.Subset == isa.SubsetC {
			return h.executeCompressed(mem, kernel, in, pc, nextPC)
		}
		return StepResult{}, nextPC, &InvalidInstructionError{PC: pc, Word: in.Raw}
	}

	return Ok, nextPC, nil
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func loadByMnemonic(mem memory.Memory, m isa.Mnemonic, addr uint32) (uint32, error) {
	switch m {
	case isa.MnemonicLB:
		v, err := memory.LoadSigned[int8](mem, addr)
		return uint32(v), err
	case isa.MnemonicLBU:
		v, err := memory.LoadSigned[uint8](mem, addr)
		return uint32(v), err
	case isa.MnemonicLH:
		v, err := memory.LoadSigned[int16](mem, addr)
		return uint32(v), err
	case isa.MnemonicLHU:
		v, err := memory.LoadSigned[uint16](mem, addr)
		return uint32(v), err
	default: // MnemonicLW
		v, err := memory.LoadSigned[uint32](mem, addr)
		return uint32(v), err
	}
}

func storeByMnemonic(mem memory.Memory, m isa.Mnemonic, addr uint32, v uint32) error {
	switch m {
	case isa.MnemonicSB:
		return memory.StoreTruncated[uint8](mem, addr, v)
	case isa.MnemonicSH:
		return memory.StoreTruncated[uint16](mem, addr, v)
	default: // MnemonicSW
		return memory.StoreTruncated[uint32](mem, addr, v)
	}
}

// execM implements the M-extension per spec.md §4.2, following
// riscv-vm/src/hart.rs's division/overflow/MULH conventions (see
// SPEC_FULL.md §4 for why the older vm/src/cpu.rs variants are not
// followed).
func execM(m isa.Mnemonic, a, b uint32) uint32 {
	sa, sb := int32(a), int32(b)
	switch m {
	case isa.MnemonicMUL:
		return a * b
	case isa.MnemonicMULH:
		return uint32((int64(sa) * int64(sb)) >> 32)
	case isa.MnemonicMULHSU:
		return uint32((int64(sa) * int64(b)) >> 32)
	case isa.MnemonicMULHU:
		return uint32((uint64(a) * uint64(b)) >> 32)
	case isa.MnemonicDIV:
		if sb == 0 {
			return 0xFFFFFFFF
		}
		if sa == -2147483648 && sb == -1 {
			return a
		}
		return uint32(sa / sb)
	case isa.MnemonicDIVU:
		if b == 0 {
			return 0xFFFFFFFF
		}
		return a / b
	case isa.MnemonicREM:
		if sb == 0 {
			return a
		}
		if sa == -2147483648 && sb == -1 {
			return 0
		}
		return uint32(sa % sb)
	default: // MnemonicREMU
		if b == 0 {
			return a
		}
		return a % b
	}
}
