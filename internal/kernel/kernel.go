// Package kernel is the Kernel collaborator spec.md §6 describes: it
// services ECALL/EBREAK by transforming guest registers per a
// Linux-compatible ABI (syscall number in a7, up to six arguments in a0..a5, return
// value in a0), dispatching on a7 the way vm/src/cpu.rs's syscall table in
// original_source/ does (see SPEC_FULL.md §4), adapted to Go's
// stdlib-first idiom for the pieces it genuinely needs (crypto/rand as the
// default getrandom source, overridable per Kernel.Rand for reproducible
// runs).
package kernel

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/rv32emu/rv32emu/pkg/hart"
	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

// mmap flags and PROT_* constants, Linux values per spec.md §6.
const (
	MapShared    = 0x01
	MapPrivate   = 0x02
	MapFixed     = 0x10
	MapAnonymous = 0x20

	ProtRead  = 1
	ProtWrite = 2
	ProtExec  = 4
)

// A small subset of Linux errno values the stub handlers report in a0.
const (
	errEBADF  = 9
	errEFAULT = 14
	errEINVAL = 22
	errENOSYS = 38
)

// Kernel implements hart.Kernel for a single guest process: console I/O,
// brk/mmap bookkeeping and a syscall table covering spec.md §6's list.
type Kernel struct {
	Stdout io.Writer
	Stderr io.Writer
	Trace  bool

	// Rand backs getrandom. It defaults to crypto/rand.Reader; set it to a
	// seeded math/rand.Rand (see cmd/rv32run's config.Kernel.RandomSeedFile
	// wiring) for a guest run that must reproduce the same "random" bytes
	// across invocations.
	Rand io.Reader

	pid     int32
	brk     uint32
	mmapTop uint32
}

// New constructs a Kernel. breakAt is the first address past the loaded
// image (internal/loader.Image.BreakAt); mmapTop seeds the anonymous-mmap
// bump allocator well above it.
func New(breakAt uint32, stdout, stderr io.Writer) *Kernel {
	return &Kernel{
		Stdout:  stdout,
		Stderr:  stderr,
		Rand:    rand.Reader,
		pid:     1000,
		brk:     breakAt,
		mmapTop: breakAt + (64 << 20),
	}
}

// fetchArgs reads the up-to-six Linux syscall arguments out of a0..a5, the
// Go equivalent of the Rust syscall! macro's register-fetch convention
// (SPEC_FULL.md §4).
func fetchArgs(h *hart.Hart) [6]uint32 {
	return [6]uint32{
		h.Reg(isa.RegA0), h.Reg(isa.RegA1), h.Reg(isa.RegA2),
		h.Reg(isa.RegA3), h.Reg(isa.RegA4), h.Reg(isa.RegA5),
	}
}

// Syscall implements the ECALL hook: dispatch on a7, write the result (or
// negative errno) to a0, or report a terminal StepResult for exit/exit_group.
func (k *Kernel) Syscall(h *hart.Hart, mem memory.Memory) (hart.StepResult, error) {
	num := h.Reg(isa.RegA7)
	args := fetchArgs(h)

	if k.Trace {
		fmt.Fprintf(k.Stderr, "syscall a7=%d a0=%#x a1=%#x a2=%#x\n", num, args[0], args[1], args[2])
	}

	result, exitCode, err := k.dispatch(num, args, mem)
	if err != nil {
		return hart.StepResult{}, err
	}
	if exitCode != nil {
		return hart.Exit(*exitCode), nil
	}

	h.SetReg(isa.RegA0, result)
	return hart.Ok, nil
}

// Ebreak implements the EBREAK hook. With no attached debugger, a trap is
// logged (when tracing is on) and execution continues, per spec.md §4.2's
// "same contract as ECALL" note applied to a no-op debug trap.
func (k *Kernel) Ebreak(h *hart.Hart, mem memory.Memory) (hart.StepResult, error) {
	if k.Trace {
		fmt.Fprintf(k.Stderr, "ebreak at pc=0x%08x\n", h.PC)
	}
	return hart.Ok, nil
}

func errno(n int32) uint32 { return uint32(-n) }
