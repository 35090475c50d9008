// Package hart implements the RV32IMAC interpreter hart: the executing
// state machine that owns the register file, CSR bank, program counter,
// instruction counter and atomic reservation, and advances that state one
// decoded instruction at a time.
//
// pkg/hart never executes floating-point instructions: isa.Decode tags F/D/Q
// opcodes (where it recognises them at all) as SubsetUnknown, and this
// package has no FRegister-typed execution path, per spec.md §1.
package hart

import (
	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

// Hart is a single RV32IMAC hardware thread's architectural state.
type Hart struct {
	regs      [32]uint32
	csrs      [4096]uint32
	PC        uint32
	InstCount uint64
	AmoRsv    *uint32
}

// New returns a zero-initialised Hart. Callers (typically the loader) set
// PC, sp and argv registers before handing it to a Machine.
func New() *Hart {
	return &Hart{}
}

// Reg reads a general-purpose register; x0 always reads as zero.
func (h *Hart) Reg(r isa.Reg) uint32 { return h.get(r) }

// SetReg writes a general-purpose register; writes to x0 are discarded.
func (h *Hart) SetReg(r isa.Reg, v uint32) { h.set(r, v) }

// CSR reads the flat control-status register bank at idx.
func (h *Hart) CSR(idx uint32) uint32 { return h.csrs[idx&0xfff] }

// SetCSR writes the flat control-status register bank at idx.
func (h *Hart) SetCSR(idx uint32, v uint32) { h.csrs[idx&0xfff] = v }

// get is the only path the executor uses to read a general register: x0 is
// architecturally pinned to zero.
func (h *Hart) get(r isa.Reg) uint32 {
	if r == 0 {
		return 0
	}
	return h.regs[r]
}

// set is the only path the executor uses to write a general register:
// writes to x0 are silently discarded.
func (h *Hart) set(r isa.Reg, v uint32) {
	if r == 0 {
		return
	}
	h.regs[r] = v
}

// fetch reads the code word at pc. It reads 16 bits first to discover the
// encoding width without risking an out-of-range 32-bit read when a
// compressed instruction sits in the last two bytes of memory.
func fetch(mem memory.Memory, pc uint32) (uint32, error) {
	lo, err := mem.LoadU16(pc)
	if err != nil {
		return 0, err
	}
	if lo&0b11 != 0b11 {
		return uint32(lo), nil
	}
	hi, err := mem.LoadU16(pc + 2)
	if err != nil {
		return 0, err
	}
	return uint32(lo) | uint32(hi)<<16, nil
}

// Step fetches, decodes and executes exactly one instruction, per spec.md
// §4.2. On success it advances InstCount and PC and returns a StepResult;
// on failure it returns an error from the closed taxonomy in errors.go and
// leaves PC/InstCount untouched.
func (h *Hart) Step(mem memory.Memory, kernel Kernel) (StepResult, error) {
	pc := h.PC
	word, err := fetch(mem, pc)
	if err != nil {
		return StepResult{}, &InvalidInstructionError{PC: pc, Word: word}
	}

	in := isa.Decode(word)
	if in.Subset == isa.SubsetUnknown {
		return StepResult{}, &InvalidInstructionError{PC: pc, Word: in.Raw}
	}

	nextPC := pc + uint32(in.Size)
	result, nextPC, err := h.execute(mem, kernel, in, pc, nextPC)
	if err != nil {
		return StepResult{}, err
	}
	if result.Kind != ResultOk {
		// The kernel signalled termination: short-circuit without
		// advancing inst_count or pc (spec.md §4.2 step 6).
		return result, nil
	}

	h.InstCount++
	h.PC = nextPC
	return Ok, nil
}
