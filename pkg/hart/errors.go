package hart

import (
	"fmt"

	"github.com/rv32emu/rv32emu/pkg/isa"
)

// InvalidInstructionError reports a code word the decoder could not
// classify into any known subset.
type InvalidInstructionError struct {
	PC   uint32
	Word uint32
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid instruction: pc=0x%08x word=0x%08x", e.PC, e.Word)
}

// IllegalInstructionError reports a decoded explicit illegal sentinel
// (UNIMP, CUNIMP).
type IllegalInstructionError struct {
	PC       uint32
	Mnemonic isa.Mnemonic
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction: pc=0x%08x mnemonic=%s", e.PC, e.Mnemonic)
}

// UnimplementedInstructionError reports a recognised mnemonic this hart does
// not model (URET, SRET, HRET, DRET, WFI, SFENCE.*).
type UnimplementedInstructionError struct {
	PC       uint32
	Mnemonic isa.Mnemonic
}

func (e *UnimplementedInstructionError) Error() string {
	return fmt.Sprintf("unimplemented instruction: pc=0x%08x mnemonic=%s", e.PC, e.Mnemonic)
}

// AccessKind distinguishes the three kinds of memory access that can fail
// UnalignedMemoryAccessError.
type AccessKind int

const (
	AccessLoad AccessKind = iota
	AccessStore
	AccessSwap
)

func (k AccessKind) String() string {
	switch k {
	case AccessLoad:
		return "load"
	case AccessStore:
		return "store"
	case AccessSwap:
		return "swap"
	default:
		return "?"
	}
}

// UnalignedMemoryAccessError reports an atomic (or otherwise
// required-aligned) access whose address fails the alignment the
// instruction demands.
type UnalignedMemoryAccessError struct {
	PC       uint32
	Kind     AccessKind
	Addr     uint32
	Required uint32
}

func (e *UnalignedMemoryAccessError) Error() string {
	return fmt.Sprintf("unaligned memory access: pc=0x%08x kind=%s addr=0x%08x required=%d",
		e.PC, e.Kind, e.Addr, e.Required)
}

// KernelError wraps an opaque error returned by the Kernel collaborator.
type KernelError struct {
	PC  uint32
	Err error
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("kernel error: pc=0x%08x: %s", e.PC, e.Err)
}

func (e *KernelError) Unwrap() error { return e.Err }
