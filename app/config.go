package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config for the shell run.
type Config struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`  // logical points
	Height    int    `toml:"height"` // logical points
	VSync     bool   `toml:"vsync"`
	MaxPasses int    `toml:"max_passes"` // UI passes per physical frame
}

// DefaultConfig carries the compiled-in constants.
func DefaultConfig() Config {
	return Config{
		Title:     "imshell",
		Width:     320,
		Height:    240,
		VSync:     true,
		MaxPasses: 2,
	}
}

// LoadConfig overlays a TOML file onto the defaults. A missing file is not
// an error; the defaults are returned as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return cfg, fmt.Errorf("config %s: window size must be positive", path)
	}
	return cfg, nil
}
