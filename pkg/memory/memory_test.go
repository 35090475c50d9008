package memory

import (
	"errors"
	"testing"
)

func TestFlatLoadStoreRoundTrip(t *testing.T) {
	m := NewFlat(64)
	if err := m.StoreU32(4, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	v, err := m.LoadU32(4)
	if err != nil || v != 0xdeadbeef {
		t.Fatalf("got %#x, err=%v", v, err)
	}
}

func TestFlatUnalignedToleration(t *testing.T) {
	m := NewFlat(64)
	if err := m.StoreU16(1, 0xbeef); err != nil {
		t.Fatal(err)
	}
	v, err := m.LoadU16(1)
	if err != nil || v != 0xbeef {
		t.Fatalf("got %#x, err=%v", v, err)
	}
}

func TestFlatOutOfRange(t *testing.T) {
	m := NewFlat(4)
	if _, err := m.LoadU32(2); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestLoadSignedExtension(t *testing.T) {
	m := NewFlat(16)
	_ = m.StoreU8(0, 0xff) // -1 as int8, 255 as uint8

	signed, err := LoadSigned[int8](m, 0)
	if err != nil || signed != -1 {
		t.Fatalf("signed byte: got %d, err=%v", signed, err)
	}
	unsigned, err := LoadSigned[uint8](m, 0)
	if err != nil || unsigned != 255 {
		t.Fatalf("unsigned byte: got %d, err=%v", unsigned, err)
	}
}

func TestStoreTruncated(t *testing.T) {
	m := NewFlat(16)
	if err := StoreTruncated[uint8](m, 0, 0x1234abcd); err != nil {
		t.Fatal(err)
	}
	v, _ := m.LoadU8(0)
	if v != 0xcd {
		t.Fatalf("expected truncation to 0xcd, got %#x", v)
	}
}
