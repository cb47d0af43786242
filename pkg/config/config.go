// Package config provides configuration loading and management for orthoslice.
// It handles loading configuration from YAML or TOML files and provides default values.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"orthoslice/internal/models"
)

// Volume sources understood by the loader
const (
	SourcePhantom = "phantom"
	SourceSlices  = "slices"
	SourceFITS    = "fits"
)

// Config represents the application configuration loaded from YAML or TOML
type Config struct {
	// Volume selects where the scalar volume comes from
	Volume struct {
		// Source is one of "phantom", "slices" or "fits"
		Source string `yaml:"source" toml:"source"`

		// Path is the slice directory or FITS file; unused for the phantom
		Path string `yaml:"path" toml:"path"`

		// Width, Height and Depth size the phantom volume
		Width  int `yaml:"width" toml:"width"`
		Height int `yaml:"height" toml:"height"`
		Depth  int `yaml:"depth" toml:"depth"`

		// SliceGap is the physical distance between consecutive slices in mm
		SliceGap float64 `yaml:"sliceGap" toml:"sliceGap"`
	} `yaml:"volume" toml:"volume"`

	// WindowLevel is the initial contrast setting
	WindowLevel models.WindowLevel `yaml:"windowLevel" toml:"windowLevel"`

	// Display parameters
	Display struct {
		// Magnify is the integer zoom applied to exported slices
		Magnify int `yaml:"magnify" toml:"magnify"`

		// Interpolation is "nearest", "bilinear" or "catmullrom"
		Interpolation string `yaml:"interpolation" toml:"interpolation"`

		// Format is "png" or "jpeg"
		Format string `yaml:"format" toml:"format"`

		// JPEGQuality is used when Format is "jpeg"
		JPEGQuality int `yaml:"jpegQuality" toml:"jpegQuality"`
	} `yaml:"display" toml:"display"`

	// Server parameters
	Server struct {
		// Addr is the HTTP listen address
		Addr string `yaml:"addr" toml:"addr"`
	} `yaml:"server" toml:"server"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many goroutines the intensity remap may use
		NumCores int `yaml:"numCores" toml:"numCores"`
	} `yaml:"processing" toml:"processing"`

	// Output parameters
	Output struct {
		// Dir is where rendered and exported slices are written
		Dir string `yaml:"dir" toml:"dir"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose" toml:"verbose"`
	} `yaml:"output" toml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// The phantom matches the quarter-resolution head sample: 64x64x93 voxels
	cfg.Volume.Source = SourcePhantom
	cfg.Volume.Width = 64
	cfg.Volume.Height = 64
	cfg.Volume.Depth = 93
	cfg.Volume.SliceGap = 1.0

	cfg.WindowLevel = models.WindowLevel{Window: 1370, Level: 1268}

	cfg.Display.Magnify = 1
	cfg.Display.Interpolation = "nearest"
	cfg.Display.Format = "png"
	cfg.Display.JPEGQuality = 90

	cfg.Server.Addr = ":8080"

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Output.Dir = "slices"
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML or TOML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if isTOML(configPath) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration, choosing TOML or YAML from the file extension
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isTOML(configPath) {
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Validate rejects settings the viewer cannot run with.
// A non-positive window would divide by zero in the shift/scale stage.
func (c *Config) Validate() error {
	switch c.Volume.Source {
	case SourcePhantom:
		if c.Volume.Width <= 0 || c.Volume.Height <= 0 || c.Volume.Depth <= 0 {
			return fmt.Errorf("phantom dimensions must be positive, got %dx%dx%d",
				c.Volume.Width, c.Volume.Height, c.Volume.Depth)
		}
	case SourceSlices, SourceFITS:
		if c.Volume.Path == "" {
			return fmt.Errorf("volume source %q requires a path", c.Volume.Source)
		}
	default:
		return fmt.Errorf("unknown volume source %q", c.Volume.Source)
	}

	if !(c.WindowLevel.Window > 0) || math.IsInf(c.WindowLevel.Window, 1) {
		return fmt.Errorf("window must be positive and finite, got %g", c.WindowLevel.Window)
	}
	if math.IsNaN(c.WindowLevel.Level) || math.IsInf(c.WindowLevel.Level, 0) {
		return fmt.Errorf("level must be finite, got %g", c.WindowLevel.Level)
	}

	if c.Display.Magnify < 1 {
		return fmt.Errorf("magnify must be at least 1, got %d", c.Display.Magnify)
	}

	switch c.Display.Format {
	case "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("unknown display format %q", c.Display.Format)
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
