package testsupport

import (
	"path/filepath"
	"testing"

	"stockbin/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Lookup.DebounceMillis = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDebounceMillis overrides the lookup quiescence window.
func WithDebounceMillis(ms int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Lookup.DebounceMillis = ms
	}
}

// WithProvider enables a provider pointing at the given base URL.
func WithProvider(name, baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		for i := range b.cfg.Providers {
			if b.cfg.Providers[i].Name == name {
				b.cfg.Providers[i].Enabled = true
				b.cfg.Providers[i].BaseURL = baseURL
				b.cfg.Providers[i].APIKey = apiKey
				return
			}
		}
		b.cfg.Providers = append(b.cfg.Providers, config.Provider{
			Name:    name,
			Enabled: true,
			BaseURL: baseURL,
			APIKey:  apiKey,
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
