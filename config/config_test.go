package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FloatModel != FloatFPA {
		t.Errorf("expected default FloatModel=FloatFPA, got %v", cfg.FloatModel)
	}
	if cfg.BaseAddress != 0x8000 {
		t.Errorf("expected default BaseAddress=0x8000, got 0x%X", cfg.BaseAddress)
	}
	if cfg.ReverseFPADoubles {
		t.Error("expected ReverseFPADoubles=false by default")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("Load on a missing path should not error, got %v", err)
	}
	if cfg.FloatModel != FloatFPA {
		t.Errorf("expected FloatModel=FloatFPA for a missing config, got %v", cfg.FloatModel)
	}
}

func TestFloatModelString(t *testing.T) {
	if FloatFPA.String() != "fpa" {
		t.Errorf("FloatFPA.String() = %q, want fpa", FloatFPA.String())
	}
	if FloatVFP.String() != "vfp" {
		t.Errorf("FloatVFP.String() = %q, want vfp", FloatVFP.String())
	}
}
