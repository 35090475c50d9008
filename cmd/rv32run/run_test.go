package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSeededRandIsDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.bin")
	if err := os.WriteFile(path, []byte("a fixed seed"), 0o600); err != nil {
		t.Fatal(err)
	}

	a, err := seededRand(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := seededRand(path)
	if err != nil {
		t.Fatal(err)
	}

	bufA := make([]byte, 32)
	bufB := make([]byte, 32)
	if _, err := a.Read(bufA); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Read(bufB); err != nil {
		t.Fatal(err)
	}

	if string(bufA) != string(bufB) {
		t.Fatal("two readers seeded from the same file should produce identical bytes")
	}
}

func TestSeededRandDiffersPerSeedFile(t *testing.T) {
	pathA := filepath.Join(t.TempDir(), "seed-a.bin")
	pathB := filepath.Join(t.TempDir(), "seed-b.bin")
	if err := os.WriteFile(pathA, []byte("seed one"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("seed two"), 0o600); err != nil {
		t.Fatal(err)
	}

	a, err := seededRand(pathA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := seededRand(pathB)
	if err != nil {
		t.Fatal(err)
	}

	bufA := make([]byte, 32)
	bufB := make([]byte, 32)
	if _, err := a.Read(bufA); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Read(bufB); err != nil {
		t.Fatal(err)
	}

	if string(bufA) == string(bufB) {
		t.Fatal("different seed files should not produce identical byte streams")
	}
}

func TestSeededRandMissingFile(t *testing.T) {
	if _, err := seededRand(filepath.Join(t.TempDir(), "does-not-exist.bin")); err == nil {
		t.Fatal("expected an error for a missing seed file")
	}
}
