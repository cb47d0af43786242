package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Volume.Source != SourcePhantom {
		t.Errorf("Expected phantom source, got %q", cfg.Volume.Source)
	}
	if cfg.WindowLevel.Window != 1370 || cfg.WindowLevel.Level != 1268 {
		t.Errorf("Expected window/level 1370/1268, got %v/%v", cfg.WindowLevel.Window, cfg.WindowLevel.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}
	if cfg.Volume.Depth != 93 {
		t.Errorf("Expected default depth 93, got %d", cfg.Volume.Depth)
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "orthoslice.yaml")

	cfg := DefaultConfig()
	cfg.WindowLevel.Window = 400
	cfg.WindowLevel.Level = 40
	cfg.Display.Magnify = 3
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.WindowLevel.Window != 400 || loaded.WindowLevel.Level != 40 {
		t.Errorf("Expected window/level 400/40, got %v/%v", loaded.WindowLevel.Window, loaded.WindowLevel.Level)
	}
	if loaded.Display.Magnify != 3 {
		t.Errorf("Expected magnify 3, got %d", loaded.Display.Magnify)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orthoslice.toml")
	data := `
[volume]
source = "fits"
path = "head.fits"

[windowLevel]
window = 2000
level = 1000
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Volume.Source != SourceFITS || cfg.Volume.Path != "head.fits" {
		t.Errorf("Expected fits source with path head.fits, got %q %q", cfg.Volume.Source, cfg.Volume.Path)
	}
	if cfg.WindowLevel.Window != 2000 {
		t.Errorf("Expected window 2000, got %v", cfg.WindowLevel.Window)
	}
	// Sections absent from the file keep their defaults
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default addr, got %q", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowLevel.Window = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero window, got nil")
	}

	cfg = DefaultConfig()
	cfg.Volume.Source = SourceSlices
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for slice source without path, got nil")
	}

	cfg = DefaultConfig()
	cfg.WindowLevel.Window = math.Inf(1)
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for infinite window, got nil")
	}

	cfg = DefaultConfig()
	cfg.WindowLevel.Level = math.NaN()
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for NaN level, got nil")
	}

	cfg = DefaultConfig()
	cfg.Display.Format = "gif"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown format, got nil")
	}
}
