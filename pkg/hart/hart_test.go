package hart

import (
	"errors"
	"testing"

	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

type noopKernel struct{}

func (noopKernel) Syscall(h *Hart, mem memory.Memory) (StepResult, error) { return Ok, nil }
func (noopKernel) Ebreak(h *Hart, mem memory.Memory) (StepResult, error)  { return Ok, nil }

func newTestHart(pc uint32) (*Hart, *memory.Flat) {
	h := New()
	h.PC = pc
	return h, memory.NewFlat(1 << 16)
}

func TestStepADDI(t *testing.T) {
	h, mem := newTestHart(0x1000)
	mustStoreU32(t, mem, 0x1000, 0x00700293) // addi x5, x0, 7

	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if h.Reg(5) != 7 || h.PC != 0x1004 || h.InstCount != 1 {
		t.Fatalf("regs[5]=%d pc=%#x inst_count=%d", h.Reg(5), h.PC, h.InstCount)
	}
}

func TestStepSRAIOverflow(t *testing.T) {
	h, mem := newTestHart(0x1000)
	h.SetReg(2, 0x80000000)
	mustStoreU32(t, mem, 0x1000, 0x41f15093) // srai x1, x2, 31

	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if h.Reg(1) != 0xFFFFFFFF {
		t.Fatalf("regs[1]=%#x", h.Reg(1))
	}
}

func TestStepBranchTaken(t *testing.T) {
	h, mem := newTestHart(0x2000)
	h.SetReg(1, 42)
	mustStoreU32(t, mem, 0x2000, 0x00108463) // beq x1, x1, +8

	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if h.PC != 0x2008 {
		t.Fatalf("pc=%#x", h.PC)
	}
}

func TestStepCompressedAddi(t *testing.T) {
	h, mem := newTestHart(0x3000)
	// c.addi x5, 1: funct3=000 bit12=0 rd=00101 imm[4:0]=00001
	word := uint16(0b000_0_00101_00001_01)
	mustStoreU16(t, mem, 0x3000, word)

	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if h.Reg(5) != 1 || h.PC != 0x3002 {
		t.Fatalf("regs[5]=%d pc=%#x", h.Reg(5), h.PC)
	}
}

func TestLRSCSuccess(t *testing.T) {
	h, mem := newTestHart(0x4000)
	mustStoreU32(t, mem, 0x2000, 0)
	h.SetReg(11, 0x2000) // rs1 for both LR.W and SC.W
	h.SetReg(12, 0x1234)
	mustStoreU32(t, mem, 0x4000, 0x1005a2af)  // lr.w x5, (x11)
	mustStoreU32(t, mem, 0x4004, 0x18c5a2af) // sc.w x5, x12, (x11)

	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	v, err := mem.LoadU32(0x2000)
	if err != nil || v != 0x1234 {
		t.Fatalf("mem[0x2000]=%#x err=%v", v, err)
	}
	if h.Reg(5) != 0 {
		t.Fatalf("sc.w rd=%d, want 0", h.Reg(5))
	}
	if h.AmoRsv != nil {
		t.Fatal("reservation should be cleared")
	}
}

func TestLRSCMismatch(t *testing.T) {
	h, mem := newTestHart(0x4000)
	h.SetReg(11, 0x2000)
	h.SetReg(13, 0x2004)
	mustStoreU32(t, mem, 0x4000, 0x1005a2af)       // lr.w x5, (x11)
	mustStoreU32(t, mem, 0x4004, 0x18d6a2af) // sc.w x5, x13, (x13) at a different address

	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if h.Reg(5) != 1 {
		t.Fatalf("sc.w rd=%d, want 1", h.Reg(5))
	}
}

func TestDivByZero(t *testing.T) {
	h, mem := newTestHart(0x1000)
	h.SetReg(2, 5)
	h.SetReg(3, 0)
	mustStoreU32(t, mem, 0x1000, 0x023140b3) // div x1, x2, x3

	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if h.Reg(1) != 0xFFFFFFFF {
		t.Fatalf("regs[1]=%#x", h.Reg(1))
	}
}

func TestX0WriteDiscipline(t *testing.T) {
	h, mem := newTestHart(0x1000)
	mustStoreU32(t, mem, 0x1000, 0x02a00013) // addi x0, x0, 42

	if _, err := h.Step(mem, noopKernel{}); err != nil {
		t.Fatal(err)
	}
	if h.Reg(0) != 0 {
		t.Fatalf("regs[0]=%d, want 0", h.Reg(0))
	}
}

func TestInvalidInstruction(t *testing.T) {
	h, mem := newTestHart(0x1000)
	mustStoreU32(t, mem, 0x1000, 0x0000007f) // unassigned opcode

	_, err := h.Step(mem, noopKernel{})
	var invalid *InvalidInstructionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInstructionError, got %v", err)
	}
	if h.PC != 0x1000 || h.InstCount != 0 {
		t.Fatalf("failed step must not advance pc/inst_count: pc=%#x inst_count=%d", h.PC, h.InstCount)
	}
}

func TestUnalignedAmoAccess(t *testing.T) {
	h, mem := newTestHart(0x1000)
	h.SetReg(11, 0x2001) // misaligned
	mustStoreU32(t, mem, 0x1000, 0x1005a2af) // lr.w x5, (x11)

	_, err := h.Step(mem, noopKernel{})
	var unaligned *UnalignedMemoryAccessError
	if !errors.As(err, &unaligned) {
		t.Fatalf("expected UnalignedMemoryAccessError, got %v", err)
	}
}

func TestEcallExitTerminates(t *testing.T) {
	h, mem := newTestHart(0x1000)
	mustStoreU32(t, mem, 0x1000, 0x00000073) // ecall

	res, err := h.Step(mem, exitKernel{code: 7})
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != ResultExit || res.ExitCode != 7 {
		t.Fatalf("got %+v", res)
	}
	if h.PC != 0x1000 || h.InstCount != 0 {
		t.Fatalf("exit must not advance pc/inst_count: pc=%#x inst_count=%d", h.PC, h.InstCount)
	}
}

type exitKernel struct{ code int32 }

func (k exitKernel) Syscall(h *Hart, mem memory.Memory) (StepResult, error) { return Exit(k.code), nil }
func (k exitKernel) Ebreak(h *Hart, mem memory.Memory) (StepResult, error)  { return Exit(k.code), nil }

func mustStoreU32(t *testing.T, mem *memory.Flat, addr uint32, v uint32) {
	t.Helper()
	if err := mem.StoreU32(addr, v); err != nil {
		t.Fatal(err)
	}
}

func mustStoreU16(t *testing.T, mem *memory.Flat, addr uint32, v uint16) {
	t.Helper()
	if err := mem.StoreU16(addr, v); err != nil {
		t.Fatal(err)
	}
}

var _ = isa.RegSP
