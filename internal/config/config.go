// Package config handles persistent user configuration for panelctl.
//
// Configuration is stored as JSON at ~/.config/panelctl/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Environment
// variables override the file for the current process only.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDir   = "panelctl"
	fileName = "config.json"
)

// Environment variables consulted by ApplyEnv, in precedence order per
// setting.
const (
	EnvAPIBaseURL       = "PANELCTL_API_BASE_URL"
	EnvPublicAPIBaseURL = "NEXT_PUBLIC_API_BASE_URL"
	EnvSignOutURL       = "PANELCTL_SIGNOUT_URL"
	EnvLogLevel         = "PANELCTL_LOG_LEVEL"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	APIBaseURL string `json:"api_base_url,omitempty"`
	SignOutURL string `json:"signout_url,omitempty"`
	LogLevel   string `json:"log_level,omitempty"`
	LogFormat  string `json:"log_format,omitempty"`
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Dir returns the directory that holds the config file and the other
// per-user state (cookie jar, audit database, log file). With a path
// override it is the override's directory.
func Dir() (string, error) {
	if pathOverride != "" {
		return filepath.Dir(pathOverride), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyEnv overlays environment overrides onto c. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := firstEnv(getenv, EnvAPIBaseURL, EnvPublicAPIBaseURL); v != "" {
		c.APIBaseURL = v
	}
	if v := firstEnv(getenv, EnvSignOutURL); v != "" {
		c.SignOutURL = v
	}
	if v := firstEnv(getenv, EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

func firstEnv(getenv func(string) string, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
