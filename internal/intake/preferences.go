package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"stockbin/internal/config"
	"stockbin/internal/logging"
	"stockbin/internal/part"
	"stockbin/internal/store"
)

// ViewPreferences are the values seeding each fresh draft. When RememberLast
// is set, the location and numeric defaults follow the last committed part.
type ViewPreferences struct {
	PartTypeID        int    `json:"partTypeId"`
	Quantity          int64  `json:"quantity"`
	LowStockThreshold int64  `json:"lowStockThreshold"`
	MountingTypeID    int    `json:"mountingTypeId"`
	Location          string `json:"location"`
	BinNumber         string `json:"binNumber"`
	BinNumber2        string `json:"binNumber2"`
	RememberLast      bool   `json:"rememberLast"`
}

// SnapshotStore is the persistence surface preferences write through to.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, key string, value []byte) error
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
}

// Preferences keeps the current view preferences in memory and writes every
// change through to the snapshot store.
type Preferences struct {
	snapshots SnapshotStore
	logger    *slog.Logger

	mu      sync.Mutex
	current ViewPreferences
}

// NewPreferences loads stored preferences, falling back to the configured
// defaults when no snapshot exists or it cannot be parsed.
func NewPreferences(ctx context.Context, cfg config.Preferences, snapshots SnapshotStore, logger *slog.Logger) *Preferences {
	p := &Preferences{
		snapshots: snapshots,
		logger:    logging.NewComponentLogger(logger, "preferences"),
		current:   defaultsFromConfig(cfg),
	}

	if snapshots == nil {
		return p
	}
	data, err := snapshots.LoadSnapshot(ctx, store.SnapshotPreferences)
	if err != nil {
		p.logger.Warn("failed to load stored preferences", logging.Error(err))
		return p
	}
	if len(data) == 0 {
		return p
	}
	var stored ViewPreferences
	if err := json.Unmarshal(data, &stored); err != nil {
		p.logger.Warn("stored preferences unreadable, using defaults", logging.Error(err))
		return p
	}
	p.current = stored
	return p
}

func defaultsFromConfig(cfg config.Preferences) ViewPreferences {
	return ViewPreferences{
		PartTypeID:        cfg.DefaultPartTypeID,
		Quantity:          cfg.DefaultQuantity,
		LowStockThreshold: cfg.DefaultLowStock,
		MountingTypeID:    cfg.DefaultMountingType,
		RememberLast:      cfg.RememberLast,
	}
}

// Current returns a copy of the active preferences.
func (p *Preferences) Current() ViewPreferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Update applies a patch to the preferences and persists the result. This is
// the single mutation entry point; callers never write fields directly.
func (p *Preferences) Update(ctx context.Context, patch func(*ViewPreferences)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	updated := p.current
	patch(&updated)
	p.current = updated
	return p.persistLocked(ctx)
}

// RememberCommitted captures the last committed part's placement and defaults
// when RememberLast is enabled. Disabled preferences ignore the commit.
func (p *Preferences) RememberCommitted(ctx context.Context, committed part.Part) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.current.RememberLast {
		return nil
	}
	p.current.PartTypeID = committed.PartTypeID
	p.current.MountingTypeID = committed.MountingTypeID
	p.current.Location = committed.Location
	p.current.BinNumber = committed.BinNumber
	p.current.BinNumber2 = committed.BinNumber2
	p.current.Quantity = committed.Quantity
	p.current.LowStockThreshold = committed.LowStockThreshold
	return p.persistLocked(ctx)
}

func (p *Preferences) persistLocked(ctx context.Context) error {
	if p.snapshots == nil {
		return nil
	}
	data, err := json.Marshal(p.current)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := p.snapshots.SaveSnapshot(ctx, store.SnapshotPreferences, data); err != nil {
		return fmt.Errorf("persist preferences: %w", err)
	}
	return nil
}
