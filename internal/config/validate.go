package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateLookup(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}

func (c *Config) validateLookup() error {
	if c.Lookup.DebounceMillis < 0 {
		return errors.New("lookup.debounce_ms must not be negative")
	}
	return nil
}

func (c *Config) validateProviders() error {
	seen := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			return errors.New("providers entries require a name")
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("provider %q configured more than once", p.Name)
		}
		seen[key] = struct{}{}
		if !p.Enabled {
			continue
		}
		if p.BaseURL == "" {
			return fmt.Errorf("provider %s: base_url is required when enabled", p.Name)
		}
		if p.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/stockbin/config.toml"
			}
			return fmt.Errorf("provider %s: api_key is required when enabled. Set %s or edit %s (create with 'stockbin config init')",
				p.Name, envKeyForProvider(p.Name), defaultPath)
		}
	}
	return nil
}
