package hart

import (
	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

// execAmo implements the A-extension per spec.md §4.2: every .W atomic
// requires a 4-byte-aligned address and fails UnalignedMemoryAccessError
// otherwise.
func (h *Hart) execAmo(mem memory.Memory, in isa.Instruction, pc uint32) error {
	addr := h.get(in.RS1())
	if addr%4 != 0 {
		kind := AccessSwap
		if in.Mnemonic == isa.MnemonicLRW {
			kind = AccessLoad
		} else if in.Mnemonic == isa.MnemonicSCW {
			kind = AccessStore
		}
		return &UnalignedMemoryAccessError{PC: pc, Kind: kind, Addr: addr, Required: 4}
	}

	if in.Mnemonic == isa.MnemonicLRW {
		old, err := mem.LoadU32(addr)
		if err != nil {
			return err
		}
		a := addr
		h.AmoRsv = &a
		h.set(in.RD(), old)
		return nil
	}

	if in.Mnemonic == isa.MnemonicSCW {
		if h.AmoRsv != nil && *h.AmoRsv == addr {
			if err := mem.StoreU32(addr, h.get(in.RS2())); err != nil {
				return err
			}
			h.AmoRsv = nil
			h.set(in.RD(), 0)
			return nil
		}
		h.AmoRsv = nil
		h.set(in.RD(), 1)
		return nil
	}

	old, err := mem.LoadU32(addr)
	if err != nil {
		return err
	}
	rs2 := h.get(in.RS2())
	var next uint32
	switch in.Mnemonic {
	case isa.MnemonicAMOSWAPW:
		next = rs2
	case isa.MnemonicAMOADDW:
		next = old + rs2
	case isa.MnemonicAMOXORW:
		next = old ^ rs2
	case isa.MnemonicAMOORW:
		next = old | rs2
	case isa.MnemonicAMOANDW:
		next = old & rs2
	case isa.MnemonicAMOMINW:
		if int32(old) < int32(rs2) {
			next = old
		} else {
			next = rs2
		}
	case isa.MnemonicAMOMAXW:
		if int32(old) > int32(rs2) {
			next = old
		} else {
			next = rs2
		}
	case isa.MnemonicAMOMINUW:
		if old < rs2 {
			next = old
		} else {
			next = rs2
		}
	case isa.MnemonicAMOMAXUW:
		if old > rs2 {
			next = old
		} else {
			next = rs2
		}
	}
	if err := mem.StoreU32(addr, next); err != nil {
		return err
	}
	// Any memory write may spuriously clear the reservation (spec.md §5).
	h.AmoRsv = nil
	h.set(in.RD(), old)
	return nil
}
