package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Execution.MemorySize == 0 {
		t.Fatal("expected a non-zero default memory size")
	}
	if cfg.Trace.EnableTrace {
		t.Fatal("tracing should default to off")
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatal("missing file should yield defaults")
	}
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rv32run.toml")
	contents := "[execution]\nmax_instructions = 42\n\n[trace]\nenable_trace = true\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Execution.MaxInstructions != 42 {
		t.Fatalf("max_instructions=%d", cfg.Execution.MaxInstructions)
	}
	if !cfg.Trace.EnableTrace {
		t.Fatal("expected enable_trace to be overridden to true")
	}
	if cfg.Execution.MemorySize != DefaultConfig().Execution.MemorySize {
		t.Fatal("unset fields should keep their defaults")
	}
}

func TestLoadFromParsesRandomSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rv32run.toml")
	contents := "[kernel]\nrandom_seed_file = \"seed.bin\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kernel.RandomSeedFile != "seed.bin" {
		t.Fatalf("random_seed_file = %q, want %q", cfg.Kernel.RandomSeedFile, "seed.bin")
	}
}
