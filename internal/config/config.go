// Package config resolves the client's settings from defaults, TOML files,
// environment variables and command-line flags, in that order.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

const (
	DefaultAPIURL            = "https://mate.academy/students-api"
	DefaultTheme             = "classic"
	DefaultLogLevel          = "warn"
	DefaultDeleteConcurrency = 1
	DefaultUpdateConcurrency = 0
)

// Config is the effective configuration.
type Config struct {
	// APIURL is the root of the remote collection.
	APIURL string `toml:"api_url"`

	// UserID is the owner identity. Zero leaves the client unconfigured.
	UserID int `toml:"user_id"`

	// Theme is one of classic, neon, mono.
	Theme string `toml:"theme"`

	// LogFile receives logs. Empty means stderr for subcommands and
	// nowhere for the interactive UI.
	LogFile string `toml:"log_file"`

	LogLevel string `toml:"log_level"`

	// DeleteConcurrency bounds clear-completed (1 = one at a time).
	DeleteConcurrency int `toml:"delete_concurrency"`

	// UpdateConcurrency bounds toggle-all (0 = no limit).
	UpdateConcurrency int `toml:"update_concurrency"`

	// Files lists the config files that were read, lowest priority first.
	Files []string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.DeleteConcurrency = DefaultDeleteConcurrency
	cfg.UpdateConcurrency = DefaultUpdateConcurrency
}

// Level parses LogLevel.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is empty")
	}
	if c.UserID < 0 {
		return fmt.Errorf("user_id must not be negative (got %d)", c.UserID)
	}
	switch c.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic|neon|mono)", c.Theme)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.DeleteConcurrency < 1 {
		return fmt.Errorf("delete_concurrency must be at least 1 (got %d)", c.DeleteConcurrency)
	}
	if c.UpdateConcurrency < 0 {
		return fmt.Errorf("update_concurrency must not be negative (got %d)", c.UpdateConcurrency)
	}
	return nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
