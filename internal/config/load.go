package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	userConfigName    = "config.toml"
	projectConfigName = ".todo.toml"
)

// Overrides carries command-line values. Nil fields were not set.
type Overrides struct {
	APIURL   *string
	UserID   *int
	Theme    *string
	LogFile  *string
	LogLevel *string
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/todo/config.toml or ~/.config/todo/config.toml)
// 3. Project config file (.todo.toml in the current directory)
// 4. Environment variables (TODO_*)
// 5. Command-line overrides
func Load(ov Overrides) (*Config, error) {
	return LoadFrom(UserConfigPath(), projectConfigName, ov)
}

// LoadFrom is Load with explicit file locations. Missing files are skipped.
func LoadFrom(userFile, projectFile string, ov Overrides) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	for _, p := range []string{userFile, projectFile} {
		if p == "" {
			continue
		}
		ok, err := loadConfigFile(cfg, p)
		if err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", p, err)
		}
		if ok {
			cfg.Files = append(cfg.Files, p)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	applyOverrides(cfg, ov)

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.LogFile = expandPath(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// UserConfigPath is the per-user config file location.
func UserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "todo", userConfigName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "todo", userConfigName)
}

// loadConfigFile decodes path over cfg. It reports false when the file does
// not exist.
func loadConfigFile(cfg *Config, path string) (bool, error) {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return true, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return true, nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TODO_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TODO_USER_ID"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TODO_USER_ID: not a number: %q", v)
		}
		cfg.UserID = n
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func applyOverrides(cfg *Config, ov Overrides) {
	if ov.APIURL != nil {
		cfg.APIURL = *ov.APIURL
	}
	if ov.UserID != nil {
		cfg.UserID = *ov.UserID
	}
	if ov.Theme != nil {
		cfg.Theme = *ov.Theme
	}
	if ov.LogFile != nil {
		cfg.LogFile = *ov.LogFile
	}
	if ov.LogLevel != nil {
		cfg.LogLevel = *ov.LogLevel
	}
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
