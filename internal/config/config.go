// Package config loads rv32run's optional TOML configuration file, the way
// lookbusy1344/arm-emulator's config package loads its own: a nested struct
// tagged for BurntSushi/toml, a DefaultConfig() fallback, and a Load/LoadFrom
// pair that tolerates a missing file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds rv32run's execution limits, trace/debug toggles and guest
// memory layout.
type Config struct {
	Execution struct {
		MaxInstructions uint64 `toml:"max_instructions"`
		MemorySize      uint32 `toml:"memory_size"`
		StackSize       uint32 `toml:"stack_size"`
	} `toml:"execution"`

	Trace struct {
		EnableTrace    bool `toml:"enable_trace"`
		EnableSymbols  bool `toml:"enable_symbols"`
		SingleStep     bool `toml:"single_step"`
	} `toml:"trace"`

	Kernel struct {
		// RandomSeedFile, when set, names a file whose contents seed a
		// deterministic math/rand source for the guest's getrandom
		// syscall, so a run can be replayed byte-for-byte instead of
		// drawing from crypto/rand.Reader. Empty means "use crypto/rand",
		// the default.
		RandomSeedFile string `toml:"random_seed_file"`
	} `toml:"kernel"`
}

// DefaultConfig returns the configuration rv32run runs with when no
// rv32run.toml is present.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxInstructions = 0 // unbounded
	cfg.Execution.MemorySize = 256 << 20
	cfg.Execution.StackSize = 8 << 20

	cfg.Trace.EnableTrace = false
	cfg.Trace.EnableSymbols = false
	cfg.Trace.SingleStep = false

	cfg.Kernel.RandomSeedFile = ""

	return cfg
}

// Load reads "rv32run.toml" from the current directory, falling back to
// DefaultConfig() when it does not exist.
func Load() (*Config, error) {
	return LoadFrom("rv32run.toml")
}

// LoadFrom reads the named TOML file over top of DefaultConfig(); a missing
// file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return cfg, nil
}
