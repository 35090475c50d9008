package hart

import "github.com/rv32emu/rv32emu/pkg/memory"

// ResultKind distinguishes a StepResult that lets Machine.Run keep looping
// from one that terminates it.
type ResultKind int

const (
	// ResultOk means the step retired normally; the driver should continue.
	ResultOk ResultKind = iota
	// ResultExit means the guest asked to terminate, carrying an exit code.
	ResultExit
)

// StepResult is what Step (and, transitively, the Kernel collaborator)
// reports back to the driver after each instruction.
type StepResult struct {
	Kind     ResultKind
	ExitCode int32
}

// Ok is the StepResult a normal, non-terminating step returns.
var Ok = StepResult{Kind: ResultOk}

// Exit builds the terminal StepResult a kernel shim returns in response to
// exit/exit_group.
func Exit(code int32) StepResult {
	return StepResult{Kind: ResultExit, ExitCode: code}
}

// Kernel services the guest's ECALL/EBREAK traps. Both hooks receive
// exclusive mutable access to the hart and memory for the duration of the
// call, exactly as spec.md §6 and §5 require: the syscall number lives in
// a7, up to six arguments in a0..a5, the return value goes back into a0.
type Kernel interface {
	Syscall(h *Hart, mem memory.Memory) (StepResult, error)
	Ebreak(h *Hart, mem memory.Memory) (StepResult, error)
}
