package kernel

import (
	"bytes"
	mathrand "math/rand"
	"testing"

	"github.com/rv32emu/rv32emu/pkg/hart"
	"github.com/rv32emu/rv32emu/pkg/isa"
	"github.com/rv32emu/rv32emu/pkg/memory"
)

func newTestHart() *hart.Hart {
	return hart.New()
}

func TestSyscallWrite(t *testing.T) {
	mem := memory.NewFlat(4096)
	msg := []byte("hi\n")
	for i, b := range msg {
		if err := mem.StoreU8(uint32(i), b); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	k := New(0x1000, &out, &bytes.Buffer{})
	h := newTestHart()
	h.SetReg(isa.RegA7, sysWrite)
	h.SetReg(isa.RegA0, 1)
	h.SetReg(isa.RegA1, 0)
	h.SetReg(isa.RegA2, uint32(len(msg)))

	res, err := k.Syscall(h, mem)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != hart.ResultOk {
		t.Fatalf("expected ResultOk, got %v", res.Kind)
	}
	if out.String() != "hi\n" {
		t.Fatalf("stdout = %q", out.String())
	}
	if got := h.Reg(isa.RegA0); got != uint32(len(msg)) {
		t.Fatalf("a0 = %d, want %d", got, len(msg))
	}
}

func TestSyscallWriteBadFD(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x1000, &bytes.Buffer{}, &bytes.Buffer{})
	h := newTestHart()
	h.SetReg(isa.RegA7, sysWrite)
	h.SetReg(isa.RegA0, 99)
	h.SetReg(isa.RegA2, 0)

	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}
	if got := h.Reg(isa.RegA0); int32(got) != -errEBADF {
		t.Fatalf("a0 = %#x, want -EBADF", got)
	}
}

func TestSyscallExit(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x1000, &bytes.Buffer{}, &bytes.Buffer{})
	h := newTestHart()
	h.SetReg(isa.RegA7, sysExit)
	h.SetReg(isa.RegA0, 7)

	res, err := k.Syscall(h, mem)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != hart.ResultExit || res.ExitCode != 7 {
		t.Fatalf("got %+v", res)
	}
}

func TestSyscallBrk(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x2000, &bytes.Buffer{}, &bytes.Buffer{})
	h := newTestHart()

	h.SetReg(isa.RegA7, sysBrk)
	h.SetReg(isa.RegA0, 0)
	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}
	if got := h.Reg(isa.RegA0); got != 0x2000 {
		t.Fatalf("initial brk query = %#x, want 0x2000", got)
	}

	h.SetReg(isa.RegA7, sysBrk)
	h.SetReg(isa.RegA0, 0x3000)
	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}
	if got := h.Reg(isa.RegA0); got != 0x3000 {
		t.Fatalf("brk bump = %#x, want 0x3000", got)
	}
}

func TestSyscallMmapAnonymous(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x2000, &bytes.Buffer{}, &bytes.Buffer{})
	h := newTestHart()

	h.SetReg(isa.RegA7, sysMmap)
	h.SetReg(isa.RegA0, 0)
	h.SetReg(isa.RegA1, 4096)
	h.SetReg(isa.RegA2, uint32(ProtRead|ProtWrite))
	h.SetReg(isa.RegA3, uint32(MapPrivate|MapAnonymous))
	h.SetReg(isa.RegA4, 0xFFFFFFFF) // fd = -1
	h.SetReg(isa.RegA5, 0)

	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}
	first := h.Reg(isa.RegA0)
	if first == 0 {
		t.Fatal("expected a non-zero mapping base")
	}

	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}
	if second := h.Reg(isa.RegA0); second != first+4096 {
		t.Fatalf("second mapping = %#x, want %#x", second, first+4096)
	}
}

func TestSyscallMmapFileBackedRejected(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x2000, &bytes.Buffer{}, &bytes.Buffer{})
	h := newTestHart()

	h.SetReg(isa.RegA7, sysMmap)
	h.SetReg(isa.RegA3, uint32(MapShared))
	h.SetReg(isa.RegA4, 3) // fd=3, not -1

	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}
	if got := h.Reg(isa.RegA0); int32(got) != -errEINVAL {
		t.Fatalf("a0 = %#x, want -EINVAL", got)
	}
}

func TestSyscallGetrandomFillsBuffer(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x2000, &bytes.Buffer{}, &bytes.Buffer{})
	h := newTestHart()

	h.SetReg(isa.RegA7, sysGetrandom)
	h.SetReg(isa.RegA0, 0x100)
	h.SetReg(isa.RegA1, 16)

	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}
	if got := h.Reg(isa.RegA0); got != 16 {
		t.Fatalf("a0 = %d, want 16", got)
	}
	var nonZero bool
	for i := uint32(0); i < 16; i++ {
		b, err := mem.LoadU8(0x100 + i)
		if err != nil {
			t.Fatal(err)
		}
		if b != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Fatal("expected getrandom to write some non-zero bytes")
	}
}

func TestSyscallGetrandomUsesSeededRand(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x2000, &bytes.Buffer{}, &bytes.Buffer{})
	k.Rand = mathrand.New(mathrand.NewSource(42))
	h := newTestHart()

	h.SetReg(isa.RegA7, sysGetrandom)
	h.SetReg(isa.RegA0, 0x100)
	h.SetReg(isa.RegA1, 16)

	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}

	want := mathrand.New(mathrand.NewSource(42))
	for i := uint32(0); i < 16; i++ {
		got, err := mem.LoadU8(0x100 + i)
		if err != nil {
			t.Fatal(err)
		}
		wantByte := make([]byte, 1)
		want.Read(wantByte)
		if got != wantByte[0] {
			t.Fatalf("byte %d = %#x, want %#x (seeded source did not reproduce)", i, got, wantByte[0])
		}
	}
}

func TestSyscallUnknownReturnsENOSYS(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x2000, &bytes.Buffer{}, &bytes.Buffer{})
	h := newTestHart()

	h.SetReg(isa.RegA7, 0xdead)
	if _, err := k.Syscall(h, mem); err != nil {
		t.Fatal(err)
	}
	if got := h.Reg(isa.RegA0); int32(got) != -errENOSYS {
		t.Fatalf("a0 = %#x, want -ENOSYS", got)
	}
}

func TestEbreakDoesNotTerminate(t *testing.T) {
	mem := memory.NewFlat(4096)
	k := New(0x2000, &bytes.Buffer{}, &bytes.Buffer{})
	h := newTestHart()

	res, err := k.Ebreak(h, mem)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != hart.ResultOk {
		t.Fatalf("expected ResultOk, got %v", res.Kind)
	}
}
