package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DSCAT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DSCAT_BASE_URL -> base_url, and
	// DSCAT_SERVE_PORT -> serve.port for the nested serve section.
	if err := k.Load(env.Provider("DSCAT_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "DSCAT_"))
		if rest, ok := strings.CutPrefix(key, "serve_"); ok {
			return "serve." + rest
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validHomogenizations is the set of recognized homogenization modes.
var validHomogenizations = map[Homogenization]bool{
	HomogenizationCustom: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DBDir == "" {
		return fmt.Errorf("db_dir is required")
	}

	if c.Destination == "" {
		return fmt.Errorf("destination is required")
	}

	if c.Homogenization != "" && !validHomogenizations[c.Homogenization] {
		return fmt.Errorf("invalid homogenization %q: only custom is supported", c.Homogenization)
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL)
		}
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d is out of range", c.Serve.Port)
	}

	return nil
}
