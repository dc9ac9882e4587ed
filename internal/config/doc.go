// Package config loads and validates the stockbin configuration.
//
// Configuration is TOML on disk with environment overlays for secrets.
// Load applies defaults, expands home-relative paths, and validates the
// result; callers get a Config that is ready to use. Treat this package as
// the single source of truth for tunables such as the lookup debounce
// window and the managed provider endpoints.
package config
