package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Snapshot keys used by the intake form and the bulk scan session. The value
// is an opaque JSON document owned by the writer.
const (
	SnapshotBulkSession = "bulk_session"
	SnapshotPreferences = "view_preferences"
)

// SaveSnapshot writes a named snapshot, replacing any previous value.
func (s *Store) SaveSnapshot(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("snapshot key is required")
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		string(value),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// LoadSnapshot returns the stored value for key, or nil when none exists.
func (s *Store) LoadSnapshot(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ensureContext(ctx), `SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return []byte(value), nil
}

// ClearSnapshot removes a named snapshot. Clearing a missing key is a no-op.
func (s *Store) ClearSnapshot(ctx context.Context, key string) error {
	if err := s.execWithoutResultRetry(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear snapshot %s: %w", key, err)
	}
	return nil
}
