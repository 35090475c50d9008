// Package loader fills the initial guest Memory and reports the entry point
// of a statically-linked RV32 ELF image; setting up the argument registers
// and stack is left to the caller. ELF parsing
// sits entirely outside the core's decoder/hart/machine (spec.md §1 lists
// "ELF loading, argument-vector construction" as an out-of-scope external
// collaborator); this package is that collaborator, the way
// robertodauria/ebpf-vm uses github.com/yalue/elf_reader to turn an ELF
// image into loadable segments for its own little VM.
package loader

import (
	"fmt"
	"sort"

	"github.com/yalue/elf_reader"

	"github.com/rv32emu/rv32emu/pkg/memory"
)

// ErrNotExecutable describes an image that is not an ET_EXEC (or ET_DYN)
// ELF file. Load does not check the ELF file type and never returns it.
var ErrNotExecutable = fmt.Errorf("loader: not a statically-linked executable ELF image")

// Symbol is one entry from the ELF symbol table, retained so a tracing
// front end can print "entered <function>" each time pc crosses into it
// (SPEC_FULL.md §4's symbol-aware tracing).
type Symbol struct {
	Name  string
	Value uint32
	Size  uint32
}

// Image describes a loaded guest whose segments Load has copied into the
// caller's memory: the entry point, the break-segment boundary mmap/brk
// need, and the retained symbol table for tracing.
type Image struct {
	Entry   uint32
	BreakAt uint32
	Symbols []Symbol
}

// Load parses the ELF image in data, copies every PT_LOAD segment into mem
// at its p_vaddr, and returns the entry point, the break boundary and the
// symbol table.
func Load(data []byte, mem *memory.Flat) (*Image, error) {
	file, err := elf_reader.ParseELFFile(data)
	if err != nil {
		return nil, fmt.Errorf("loader: parsing ELF: %w", err)
	}

	entry := uint32(file.GetEntryPoint())
	var breakAt uint32

	segments := int(file.GetProgramHeaderCount())
	for i := 0; i < segments; i++ {
		header, err := file.GetProgramHeaderInfo(uint16(i))
		if err != nil {
			return nil, fmt.Errorf("loader: reading program header %d: %w", i, err)
		}
		if header.Type != elf_reader.ProgramHeaderTypeLoad {
			continue
		}
		content, err := file.GetProgramHeaderContent(uint16(i))
		if err != nil {
			return nil, fmt.Errorf("loader: reading segment %d content: %w", i, err)
		}
		vaddr := uint32(header.VirtualAddress)
		if err := copyInto(mem, vaddr, content); err != nil {
			return nil, fmt.Errorf("loader: placing segment %d at 0x%x: %w", i, vaddr, err)
		}
		if top := vaddr + uint32(header.MemorySize); top > breakAt {
			breakAt = top
		}
	}

	symbols := readSymbols(file)

	return &Image{Entry: entry, BreakAt: alignUp(breakAt, 4096), Symbols: symbols}, nil
}

func copyInto(mem *memory.Flat, vaddr uint32, content []byte) error {
	dst := mem.Bytes()
	if uint64(vaddr)+uint64(len(content)) > uint64(len(dst)) {
		return fmt.Errorf("segment extends beyond guest memory (size=0x%x)", len(dst))
	}
	copy(dst[vaddr:], content)
	return nil
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}

// readSymbols walks every symbol-table section and keeps every symbol with a
// non-empty name and a non-zero value, whatever its symbol type, sorted by
// address so SymbolAt can binary search.
func readSymbols(file elf_reader.ELFFile) []Symbol {
	var symbols []Symbol
	sections := int(file.GetSectionCount())
	for i := 0; i < sections; i++ {
		kind, err := file.GetSectionType(uint16(i))
		if err != nil || (kind != elf_reader.SectionTypeSymtab && kind != elf_reader.SectionTypeDynsym) {
			continue
		}
		table, err := file.GetSymbols(uint16(i))
		if err != nil {
			continue
		}
		for _, sym := range table {
			if sym.Name == "" || sym.Value == 0 {
				continue
			}
			symbols = append(symbols, Symbol{Name: sym.Name, Value: uint32(sym.Value), Size: uint32(sym.Size)})
		}
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Value < symbols[j].Value })
	return symbols
}

// SymbolAt returns the name of the symbol whose [Value, Value+Size) range
// contains pc, or "" if none matches. A symbol with Size 0 matches every pc
// from its Value up to the next symbol.
func SymbolAt(symbols []Symbol, pc uint32) string {
	i := sort.Search(len(symbols), func(i int) bool { return symbols[i].Value > pc })
	if i == 0 {
		return ""
	}
	candidate := symbols[i-1]
	if candidate.Size == 0 || pc < candidate.Value+candidate.Size {
		return candidate.Name
	}
	return ""
}
