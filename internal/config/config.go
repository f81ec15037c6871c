// Package config loads the engine-level configuration file. These are
// knobs a user would not want clobbered by the settings UI; the per-library folder settings and grouping
// threshold remain in the `settings` SQL table, untouched by this file.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/wallybrain/flpvault/internal/apperrors"
)

// FileName is the engine config's filename inside the app-data directory.
const FileName = "flpvault.toml"

// Config holds engine-level knobs layered on top of the user-facing
// settings stored in SQL.
type Config struct {
	// DatabasePath moves the database out of {app-data-dir}: the directory
	// part of the path is used, and the file inside it is always named
	// flp-vault.db. Empty means "use the default".
	DatabasePath string `toml:"database_path"`

	// WatchDebounceMs is parsed from the file but not passed to the
	// scanner; watch mode always coalesces events over a fixed 300 ms.
	WatchDebounceMs int `toml:"watch_debounce_ms"`

	// LogVerbose is parsed from the file; no code reads it, so it does not
	// change internal/debug output.
	LogVerbose bool `toml:"log_verbose"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		WatchDebounceMs: 300,
	}
}

// Load reads path as TOML. A missing file is not an error — Default() is
// returned instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeConfig, "load", err).WithPath(path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeConfig, "parse", err).WithPath(path)
	}
	return cfg, nil
}
