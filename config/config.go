// Package config holds the backend's external configuration surface: which
// floating-point coprocessor family to target, the load address a program
// assumes, and an optional post-processing hook for the final byte stream.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FloatModel selects which floating-point coprocessor family the encoder
// and disassembler target. A word that would decode under the other family
// is rejected as BadInstruction: the two are never decoded interchangeably.
type FloatModel int

const (
	FloatFPA FloatModel = iota
	FloatVFP
)

func (m FloatModel) String() string {
	if m == FloatVFP {
		return "vfp"
	}
	return "fpa"
}

// Config is the compiler backend's external configuration surface.
type Config struct {
	FloatModel        FloatModel `toml:"-"`
	FloatModelName    string     `toml:"float_model"`
	ReverseFPADoubles bool       `toml:"reverse_fpa_doubles"`
	BaseAddress       uint32     `toml:"base_address"`
	MaxSectionsHint   int        `toml:"max_sections_hint"`

	// Plat post-processes the final assembled byte stream (e.g. to wrap it
	// in a platform-specific container). nil means no post-processing.
	Plat func([]byte) []byte `toml:"-"`
}

// DefaultConfig returns the backend's default configuration: FPA, natural
// double word order, RISC OS-style base address, no hint, no Plat hook.
func DefaultConfig() *Config {
	return &Config{
		FloatModel:        FloatFPA,
		FloatModelName:    "fpa",
		ReverseFPADoubles: false,
		BaseAddress:       0x8000,
		MaxSectionsHint:   0,
	}
}

// Load reads configuration from path via TOML, starting from DefaultConfig
// and overwriting only the fields the file sets. A missing file is not an
// error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	switch cfg.FloatModelName {
	case "", "fpa":
		cfg.FloatModel = FloatFPA
	case "vfp":
		cfg.FloatModel = FloatVFP
	default:
		return nil, fmt.Errorf("config: unrecognised float_model %q", cfg.FloatModelName)
	}

	return cfg, nil
}
