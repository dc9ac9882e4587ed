package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"stockbin/internal/attachments"
	"stockbin/internal/config"
	"stockbin/internal/intake"
	"stockbin/internal/logging"
	"stockbin/internal/lookup"
	"stockbin/internal/provider"
	"stockbin/internal/session"
	"stockbin/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// app bundles the subsystems one command invocation works against.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *store.Store
	attachments *attachments.Store
	registry    *provider.Registry
	coordinator *lookup.Coordinator
	prefs       *intake.Preferences
}

// withApp locks the data directory, opens the store and lookup stack, runs fn,
// and tears everything down. The lock keeps two invocations from mutating the
// same inventory concurrently.
func (c *commandContext) withApp(ctx context.Context, fn func(*app) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "stockbin.log")},
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "stockbin.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire data directory lock: %w", err)
	}
	if !locked {
		return errors.New("another stockbin process is using the data directory")
	}
	defer func() { _ = lock.Unlock() }()

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	registry, err := provider.NewRegistryFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	var existence lookup.ExistenceChecker
	if cfg.Lookup.ExistenceCheck {
		existence = st
	}
	coordinator := lookup.NewCoordinator(registry, existence, cfg.DebounceWindow(), logger)
	defer coordinator.Close()

	return fn(&app{
		cfg:         cfg,
		logger:      logger,
		store:       st,
		attachments: attachments.NewStore(filepath.Join(cfg.Paths.DataDir, "attachments.json"), logger),
		registry:    registry,
		coordinator: coordinator,
		prefs:       intake.NewPreferences(ctx, cfg.Preferences, st, logger),
	})
}

// newSession restores the persisted bulk scan session, or starts a fresh one.
// Background enrichment is skipped when no provider is enabled.
func (a *app) newSession(ctx context.Context) *session.Session {
	var enricher session.Enricher
	if a.registry.Enabled() {
		enricher = a.coordinator
	}
	return session.New(ctx, enricher, a.store, a.store, a.logger)
}

func (a *app) newForm() *intake.Form {
	return intake.NewForm(a.store, a.prefs, a.cfg.Preferences.RecentPartsToDisplay, a.logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
