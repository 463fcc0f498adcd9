package config

import (
	"fmt"
	"net/url"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "api-base-url").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates value and applies it to the given Config (in memory
	// only; the caller is responsible for calling Save). An empty value
	// unsets the key.
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "api-base-url",
		Description: "Root URL of the dashboard API (overridden by " + EnvAPIBaseURL + ")",
		Get:         func(cfg *Config) string { return cfg.APIBaseURL },
		Set: func(cfg *Config, v string) error {
			if err := validateURL(v); err != nil {
				return err
			}
			cfg.APIBaseURL = strings.TrimRight(v, "/")
			return nil
		},
	},
	{
		Name:        "signout-url",
		Description: "Identity provider endpoint that revokes the token on logout",
		Get:         func(cfg *Config) string { return cfg.SignOutURL },
		Set: func(cfg *Config, v string) error {
			if err := validateURL(v); err != nil {
				return err
			}
			cfg.SignOutURL = v
			return nil
		},
	},
	{
		Name:        "log-level",
		Description: "Minimum level written to the log file: debug, info, warn, error",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set: func(cfg *Config, v string) error {
			v = strings.ToLower(v)
			if err := oneOf(v, "debug", "info", "warn", "error"); err != nil {
				return err
			}
			cfg.LogLevel = v
			return nil
		},
	},
	{
		Name:        "log-format",
		Description: "Log file format: text or json",
		Get:         func(cfg *Config) string { return cfg.LogFormat },
		Set: func(cfg *Config, v string) error {
			v = strings.ToLower(v)
			if err := oneOf(v, "text", "json"); err != nil {
				return err
			}
			cfg.LogFormat = v
			return nil
		},
	},
}

func validateURL(v string) error {
	if v == "" {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", v)
	}
	return nil
}

func oneOf(v string, allowed ...string) error {
	if v == "" {
		return nil
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%q must be one of: %s", v, strings.Join(allowed, ", "))
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
