// Package config loads the optional partview.toml viewer configuration.
// Fields not set in the file keep their compiled defaults; a missing
// file is not an error.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/partview/pkg/mesh"
	"github.com/chazu/partview/pkg/scene"
)

// Config holds viewer defaults configurable by the operator.
type Config struct {
	// Prefs are the initial rendering preferences; the frontend can
	// still change them at runtime.
	Prefs scene.Prefs `toml:"prefs"`
	// Palette overrides the deterministic part palette when non-empty.
	// Entries are "#RRGGBB".
	Palette []string `toml:"palette"`
	// WatchFiles enables reload-on-change for local model files.
	WatchFiles bool `toml:"watch_files"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{Prefs: scene.DefaultPrefs()}
}

// Load reads path and overlays it on the defaults. A missing file
// yields the defaults with no error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if _, err := cfg.PaletteColors(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// PaletteColors parses the configured palette, or returns nil when the
// default palette should be used.
func (c Config) PaletteColors() ([]mesh.RGB, error) {
	if len(c.Palette) == 0 {
		return nil, nil
	}
	out := make([]mesh.RGB, len(c.Palette))
	for i, s := range c.Palette {
		rgb, err := scene.ParseHexColor(s)
		if err != nil {
			return nil, err
		}
		out[i] = rgb
	}
	return out, nil
}
