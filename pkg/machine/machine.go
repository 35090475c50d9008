// Package machine implements the thin orchestrator that binds one hart, one
// memory and one kernel shim together and drives the fetch-decode-execute
// loop until the kernel signals termination (spec.md §4.3).
package machine

import (
	"github.com/rv32emu/rv32emu/pkg/hart"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

// Machine binds exactly one Hart, one Memory and one Kernel. It holds no
// state of its own beyond those three references.
type Machine struct {
	Hart   *hart.Hart
	Memory memory.Memory
	Kernel hart.Kernel
}

// New constructs a Machine from its three collaborators.
func New(h *hart.Hart, mem memory.Memory, kernel hart.Kernel) *Machine {
	return &Machine{Hart: h, Memory: mem, Kernel: kernel}
}

// Run repeatedly calls Hart.Step until a non-Ok StepResult or a failure is
// reported. It returns the terminal StepResult on a clean exit, or an error
// if step itself failed (spec.md §4.3: "on failure from step, run propagates
// the error").
func (m *Machine) Run() (hart.StepResult, error) {
	for {
		result, err := m.Hart.Step(m.Memory, m.Kernel)
		if err != nil {
			return hart.StepResult{}, err
		}
		if result.Kind != hart.ResultOk {
			return result, nil
		}
	}
}

// RunInstructions drives at most max steps (0 means unbounded), stopping
// early on a terminal StepResult or a failure. This is the bound a CLI
// driver uses to cap execution by instruction count instead of wall-clock,
// per spec.md §5 ("the driver outside the core is free to bound execution
// by wall-clock or instruction count").
func (m *Machine) RunInstructions(max uint64) (hart.StepResult, error) {
	for max == 0 || m.Hart.InstCount < max {
		result, err := m.Hart.Step(m.Memory, m.Kernel)
		if err != nil {
			return hart.StepResult{}, err
		}
		if result.Kind != hart.ResultOk {
			return result, nil
		}
	}
	return hart.Ok, nil
}
