// Package config loads the txn-robust-check CLI's optional TOML config
// file, the way a deployment's defaults file overrides built-in constants;
// CLI flags always take precedence over values loaded here.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds CLI defaults. Every field is optional in the file; Default
// supplies the built-in values for anything a config file doesn't set.
type Config struct {
	Workers  int    `toml:"workers"`
	LogLevel string `toml:"log_level"`
	Color    bool   `toml:"color"`
}

// Default returns the built-in defaults used when no config file is given.
func Default() Config {
	return Config{Workers: 1, LogLevel: "info", Color: true}
}

// Load reads and merges a TOML config file onto Default. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	return cfg, nil
}
