package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"stockbin/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	wantData := filepath.Join(tempHome, ".local", "share", "stockbin")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Lookup.DebounceMillis != 1000 {
		t.Fatalf("unexpected debounce default: %d", cfg.Lookup.DebounceMillis)
	}
	if cfg.DebounceWindow() != time.Second {
		t.Fatalf("unexpected debounce window: %s", cfg.DebounceWindow())
	}
	if !cfg.Lookup.ExistenceCheck {
		t.Fatal("expected existence check enabled by default")
	}
	if len(cfg.Providers) != 3 {
		t.Fatalf("expected 3 managed providers, got %d", len(cfg.Providers))
	}
	if len(cfg.EnabledProviders()) != 0 {
		t.Fatal("expected all providers disabled by default")
	}
	if cfg.Preferences.DefaultPartTypeID != 14 {
		t.Fatalf("unexpected default part type: %d", cfg.Preferences.DefaultPartTypeID)
	}
	if cfg.Preferences.DefaultQuantity != 1 || cfg.Preferences.DefaultLowStock != 10 {
		t.Fatalf("unexpected preference defaults: %+v", cfg.Preferences)
	}
}

func TestLoadReadsFileAndAppliesEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[lookup]
debounce_ms = 250

[[providers]]
name = "DigiKey"
enabled = true
base_url = "https://api.digikey.example/"
api_key = "file-key"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STOCKBIN_DIGIKEY_API_KEY", "env-key")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Lookup.DebounceMillis != 250 {
		t.Fatalf("debounce not read from file: %d", cfg.Lookup.DebounceMillis)
	}

	enabled := cfg.EnabledProviders()
	if len(enabled) != 1 || enabled[0].Name != "DigiKey" {
		t.Fatalf("unexpected enabled providers: %+v", enabled)
	}
	if enabled[0].APIKey != "env-key" {
		t.Fatalf("environment must override file key, got %q", enabled[0].APIKey)
	}
	if enabled[0].BaseURL != "https://api.digikey.example" {
		t.Fatalf("base URL not normalized: %q", enabled[0].BaseURL)
	}
}

func TestLoadRejectsEnabledProviderWithoutKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[[providers]]
name = "Mouser"
enabled = true
base_url = "https://api.mouser.example"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for enabled provider without key")
	}
	if !strings.Contains(err.Error(), "STOCKBIN_MOUSER_API_KEY") {
		t.Fatalf("error should name the env var, got: %v", err)
	}
}

func TestLoadRejectsDuplicateProviderNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[[providers]]
name = "DigiKey"

[[providers]]
name = "digikey"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for duplicate provider names")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[logging]
format = "xml"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}

	// The sample must parse back into a valid config shape.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
}
