package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Lookup contains tunables for the lookup coordinator.
type Lookup struct {
	DebounceMillis int  `toml:"debounce_ms"`
	ExistenceCheck bool `toml:"existence_check"`
}

// Provider configures one supplier metadata endpoint.
type Provider struct {
	Name           string `toml:"name"`
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Scanner contains the optional barcode scanner hotplug monitor settings.
type Scanner struct {
	MonitorEnabled bool `toml:"monitor_enabled"`
}

// Preferences contains the seed values for a fresh set of view preferences.
type Preferences struct {
	DefaultPartTypeID    int   `toml:"default_part_type_id"`
	DefaultQuantity      int64 `toml:"default_quantity"`
	DefaultLowStock      int64 `toml:"default_low_stock_threshold"`
	RememberLast         bool  `toml:"remember_last"`
	DefaultMountingType  int   `toml:"default_mounting_type_id"`
	RecentPartsToDisplay int   `toml:"recent_parts_to_display"`
}

// Config is the root configuration object.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Logging     Logging     `toml:"logging"`
	Lookup      Lookup      `toml:"lookup"`
	Scanner     Scanner     `toml:"scanner"`
	Preferences Preferences `toml:"preferences"`
	Providers   []Provider  `toml:"providers"`
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "stockbin", "config.toml"), nil
}

// Load reads the config file at path (or the default location when path is
// empty), applies environment overlays, normalizes, and validates. A missing
// file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		resolved = defaultPath
	}
	expanded, err := expandPath(resolved)
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", expanded, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults apply
	default:
		return nil, fmt.Errorf("read config %s: %w", expanded, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides overlays secrets from the environment, loading a .env
// file first when one is present in the working directory.
func (c *Config) applyEnvOverrides() {
	_ = godotenv.Load()
	for i := range c.Providers {
		key := envKeyForProvider(c.Providers[i].Name)
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			c.Providers[i].APIKey = value
		}
	}
}

func envKeyForProvider(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	upper = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, upper)
	return "STOCKBIN_" + upper + "_API_KEY"
}

// EnsureDirectories creates the configured data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DebounceWindow returns the lookup quiescence window as a duration.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Lookup.DebounceMillis) * time.Millisecond
}

// EnabledProviders returns the providers with Enabled set, in config order.
func (c *Config) EnabledProviders() []Provider {
	out := make([]Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("config path: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}
