package loader

import "testing"

func TestAlignUp(t *testing.T) {
	cases := []struct{ v, align, want uint32 }{
		{0, 4096, 0},
		{1, 4096, 4096},
		{4096, 4096, 4096},
		{4097, 4096, 8192},
	}
	for _, c := range cases {
		if got := alignUp(c.v, c.align); got != c.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", c.v, c.align, got, c.want)
		}
	}
}

func TestSymbolAt(t *testing.T) {
	symbols := []Symbol{
		{Name: "_start", Value: 0x1000, Size: 0x10},
		{Name: "main", Value: 0x1010, Size: 0x100},
	}

	if got := SymbolAt(symbols, 0x1005); got != "_start" {
		t.Fatalf("got %q", got)
	}
	if got := SymbolAt(symbols, 0x1050); got != "main" {
		t.Fatalf("got %q", got)
	}
	if got := SymbolAt(symbols, 0x2000); got != "" {
		t.Fatalf("expected no match past the last symbol, got %q", got)
	}
	if got := SymbolAt(symbols, 0x500); got != "" {
		t.Fatalf("expected no match before the first symbol, got %q", got)
	}
}
