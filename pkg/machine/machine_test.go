package machine

import (
	"testing"

	"github.com/rv32emu/rv32emu/pkg/hart"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

type exitAfterNKernel struct{ calls int }

func (k *exitAfterNKernel) Syscall(h *hart.Hart, mem memory.Memory) (hart.StepResult, error) {
	k.calls++
	return hart.Exit(0), nil
}

func (k *exitAfterNKernel) Ebreak(h *hart.Hart, mem memory.Memory) (hart.StepResult, error) {
	return hart.Exit(1), nil
}

func TestRunStopsOnExit(t *testing.T) {
	mem := memory.NewFlat(1 << 12)
	// addi x5, x5, 1 ; ecall  -- loop body, but ecall exits immediately.
	_ = mem.StoreU32(0x0, 0x00128293)
	_ = mem.StoreU32(0x4, 0x00000073)

	h := hart.New()
	k := &exitAfterNKernel{}
	m := New(h, mem, k)

	result, err := m.Run()
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != hart.ResultExit || result.ExitCode != 0 {
		t.Fatalf("got %+v", result)
	}
	if h.Reg(5) != 1 {
		t.Fatalf("expected the addi before ecall to have retired, regs[5]=%d", h.Reg(5))
	}
}

func TestRunInstructionsBudget(t *testing.T) {
	mem := memory.NewFlat(1 << 12)
	// An infinite loop: addi x5, x5, 1 ; jal x0, -4
	_ = mem.StoreU32(0x0, 0x00128293)
	_ = mem.StoreU32(0x4, 0xffdff06f)

	h := hart.New()
	m := New(h, mem, &exitAfterNKernel{})

	result, err := m.RunInstructions(10)
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != hart.ResultOk {
		t.Fatalf("got %+v", result)
	}
	if h.InstCount != 10 {
		t.Fatalf("inst_count=%d, want 10", h.InstCount)
	}
}
