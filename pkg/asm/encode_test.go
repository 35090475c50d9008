package asm

import (
	"testing"

	"github.com/rv32emu/rv32emu/pkg/isa"
)

// TestEncodeRoundTrip is the decoder round-trip property: for every code
// word below, decode(encode(decode(word))) must reproduce both the word
// itself and the Instruction decode first produced. Instruction has no
// public constructor, so each case starts from a hand-verified word rather
// than a hand-built Instruction value — decoding it is how an Instruction
// is built at all, matching how a real assembler's output would be fed
// back through the decoder in a true "assemble, then decode" harness.
func TestEncodeRoundTrip(t *testing.T) {
	words := []uint32{
		0x00700293, // addi x5, x0, 7
		0x41f15093, // srai x1, x2, 31
		0x00511093, // slli x1, x2, 5
		0x00515093, // srli x1, x2, 5
		0x00208463, // beq x1, x2, 8
		0x00432283, // lw x5, 4(x6)
		0x00322423, // sw x3, 8(x4)
		0xfffff0ef, // jal x1, -2
		0x004100e7, // jalr x1, 4(x2)
		0x002081b3, // add x3, x1, x2
		0x402081b3, // sub x3, x1, x2
		0x0ff0000f, // fence iorw, iorw
		0x0000100f, // fence.i
		0x00000073, // ecall
		0x00100073, // ebreak
		0x022091b3, // mulh x3, x1, x2
		0x022081b3, // mul x3, x1, x2
		0x0220c1b3, // div x3, x1, x2
		0x1005a2af, // lr.w x5, (x11)
		0x18c5a2af, // sc.w x5, x12, (x11)
		0x0063a2af, // amoadd.w x5, x6, (x7)
		0x300312f3, // csrrw x5, 0x300, x6
		0x3003d2f3, // csrrwi x5, 0x300, 7
		0x30200073, // mret
		0x10500073, // wfi
		0x12638073, // sfence.vma x7, x6

		0x0080, // c.addi4spn x8, 64
		0x40c0, // c.lw x8, 4(x9)
		0xc0c0, // c.sw x8, 4(x9)
		uint32(uint16(0b000_0_00001_00101_01)), // c.addi x1, 5
		uint32(uint16(0b000_0_00000_00000_01)), // c.nop
		0x3ff5, // c.jal -4
		0x52f5, // c.li x5, -3
		0x6141, // c.addi16sp 16
		0x6285, // c.lui x5, 0x1000
		0x8095, // c.srli x9, 5
		0x8495, // c.srai x9, 5
		0x98fd, // c.andi x9, -1
		0x8c89, // c.sub x9, x10
		0x8cad, // c.xor x9, x11
		0x8ccd, // c.or x9, x11
		0x8ced, // c.and x9, x11
		0xbff5, // c.j -4
		0xc091, // c.beqz x9, 4
		0xe091, // c.bnez x9, 4
		0x02aa, // c.slli x5, 10
		0x42d2, // c.lwsp x5, 20
		0xca16, // c.swsp x5, 20
		uint32(uint16(0b100_0_00001_00000_10)), // c.jr x1
		0x9282, // c.jalr x5
		uint32(uint16(0b100_0_00001_00010_10)), // c.mv x1, x2
		uint32(uint16(0b100_1_00001_00010_10)), // c.add x1, x2
		uint32(uint16(0b100_1_00000_00000_10)), // c.ebreak
		0x00000000,                             // c.unimp
	}

	for _, word := range words {
		original := isa.Decode(word)
		if original.Subset == isa.SubsetUnknown {
			t.Fatalf("test vector 0x%x does not decode to a known instruction", word)
		}

		encoded, width, err := Encode(original)
		if err != nil {
			t.Fatalf("Encode(%s from 0x%x): %v", original.Mnemonic, word, err)
		}
		if width != original.Size {
			t.Fatalf("Encode(%s): width=%d, want %d", original.Mnemonic, width, original.Size)
		}

		wantWord := word
		if original.IsCompressed() {
			wantWord = word & 0xffff
		}
		if encoded != wantWord {
			t.Fatalf("Encode(%s): got word 0x%x, want 0x%x", original.Mnemonic, encoded, wantWord)
		}

		roundTripped := isa.Decode(encoded)
		if roundTripped != original {
			t.Fatalf("decode(encode(decode(0x%x))) = %+v, want %+v", word, roundTripped, original)
		}
	}
}

// TestEncodeRejectsUnknown confirms Encode refuses a decoder-gave-up
// sentinel rather than silently emitting a bogus word.
func TestEncodeRejectsUnknown(t *testing.T) {
	in := isa.Decode(0x0000007f) // unassigned 32-bit opcode
	if _, _, err := Encode(in); err == nil {
		t.Fatal("expected an error encoding an unknown instruction")
	}
}
