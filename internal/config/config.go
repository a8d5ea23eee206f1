// Package config holds the viewer configuration read from the data
// directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rentmap/rentmap/internal/listing"
)

// MapDefaults is the initial camera when the URL fragment carries none.
type MapDefaults struct {
	Zoom int     `yaml:"zoom"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

// Config is the viewer configuration file (config.yaml in the data dir).
type Config struct {
	// Reference is the point distances and isochrones are anchored on.
	Reference listing.ReferencePoint `yaml:"reference"`

	Map MapDefaults `yaml:"map"`

	// DebounceMs is the quiet window for coalescing view writes.
	DebounceMs int `yaml:"debounce_ms"`

	// PreloadConcurrency is the requested photo-warming worker count.
	PreloadConcurrency int `yaml:"preload_concurrency"`
}

// Default returns the configuration used when no config.yaml exists:
// centered on Yerevan with the pipeline's reference point.
func Default() Config {
	return Config{
		Reference:          listing.ReferencePoint{Lat: 40.1862324, Lng: 44.5047339},
		Map:                MapDefaults{Zoom: 13, Lat: 40.1872, Lng: 44.5152},
		DebounceMs:         150,
		PreloadConcurrency: 4,
	}
}

// Load reads config.yaml from dataDir, falling back to defaults when the
// file is absent. Unset fields keep their default values.
func Load(dataDir string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		return fmt.Errorf("map zoom %d out of range", c.Map.Zoom)
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative")
	}
	if c.PreloadConcurrency < 1 {
		return fmt.Errorf("preload_concurrency must be at least 1")
	}
	return nil
}

// Debounce returns the configured quiet window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
