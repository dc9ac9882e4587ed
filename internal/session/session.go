package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"stockbin/internal/logging"
	"stockbin/internal/lookup"
	"stockbin/internal/part"
	"stockbin/internal/store"
)

// Enricher performs synchronous lookups for background row enrichment.
type Enricher interface {
	ResolveBarcodeNow(ctx context.Context, req lookup.Request) lookup.Result
	ResolveNow(ctx context.Context, req lookup.Request) lookup.Result
}

// Inventory is the store surface the session commits against.
type Inventory interface {
	BulkCreate(ctx context.Context, records []part.Part) (created, merged int, err error)
}

// Snapshots persists the in-progress session across restarts.
type Snapshots interface {
	SaveSnapshot(ctx context.Context, key string, value []byte) error
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
	ClearSnapshot(ctx context.Context, key string) error
}

const enrichmentTimeout = 10 * time.Second

type snapshotPayload struct {
	SessionID string             `json:"sessionId"`
	Rows      []part.ScannedItem `json:"rows"`
}

// Session accumulates scanned rows until they are committed in one batch.
type Session struct {
	id        string
	enricher  Enricher
	inventory Inventory
	snapshots Snapshots
	logger    *slog.Logger

	mu   sync.Mutex
	rows []part.ScannedItem
	wg   sync.WaitGroup
}

// New restores the persisted session if one exists, otherwise starts empty.
// The enricher may be nil when no providers are configured.
func New(ctx context.Context, enricher Enricher, inventory Inventory, snapshots Snapshots, logger *slog.Logger) *Session {
	s := &Session{
		id:        uuid.NewString(),
		enricher:  enricher,
		inventory: inventory,
		snapshots: snapshots,
		logger:    logging.NewComponentLogger(logger, "session"),
	}

	if snapshots == nil {
		return s
	}
	data, err := snapshots.LoadSnapshot(ctx, store.SnapshotBulkSession)
	if err != nil {
		s.logger.Warn("failed to load session snapshot", logging.Error(err))
		return s
	}
	if len(data) == 0 {
		return s
	}
	var payload snapshotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Warn("session snapshot unreadable, starting empty", logging.Error(err))
		return s
	}
	if payload.SessionID != "" {
		s.id = payload.SessionID
	}
	s.rows = payload.Rows
	s.logger.Info("restored bulk scan session",
		logging.String(logging.FieldSessionID, s.id),
		logging.Int("rows", len(s.rows)))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Rows returns a copy of the accumulated rows in scan order.
func (s *Session) Rows() []part.ScannedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]part.ScannedItem(nil), s.rows...)
}

// Ingest folds one decoded scan into the session. A scan whose identifier is
// already present adds the row's own scanned quantity to its total; otherwise
// a new row is appended, inheriting location and bin from the previous row.
// Both paths persist the session before returning. New rows kick off
// background enrichment.
func (s *Session) Ingest(ctx context.Context, scan part.ScanPayload) (part.ScannedItem, bool, error) {
	id := scan.Identifier()
	if id.IsEmpty() {
		return part.ScannedItem{}, false, part.Wrap(part.ErrValidation, "session", "ingest", "scan carries no identifier", nil)
	}

	quantity := scan.Fields.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	for i := range s.rows {
		if !s.rows[i].Matches(id) {
			continue
		}
		s.rows[i].Quantity += s.rows[i].ScannedQuantity
		s.rows[i].ScannedAt = time.Now().UTC()
		merged := s.rows[i]
		err := s.persistLocked(ctx)
		s.mu.Unlock()
		return merged, true, err
	}

	row := part.ScannedItem{
		ID:              uuid.NewString(),
		PartNumber:      id.String(),
		Quantity:        quantity,
		ScannedQuantity: quantity,
		OriginCountry:   part.NormalizeCountry(scan.Fields.CountryOfOrigin),
		Description:     scan.Fields.Description,
		Barcode:         scan.CorrectedText,
		ScannedAt:       time.Now().UTC(),
	}
	if last := len(s.rows) - 1; last >= 0 {
		row.Location = s.rows[last].Location
		row.BinNumber = s.rows[last].BinNumber
		row.BinNumber2 = s.rows[last].BinNumber2
	}
	s.rows = append(s.rows, row)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil && s.enricher != nil {
		s.enrich(row)
	}
	return row, false, err
}

// enrich resolves metadata for a row in the background and applies the part
// number and description once settled. The scan flow never blocks on it.
func (s *Session) enrich(row part.ScannedItem) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
		defer cancel()

		result := s.enricher.ResolveBarcodeNow(ctx, lookup.Request{Barcode: row.Barcode})
		if result.Kind != lookup.KindMerged {
			result = s.enricher.ResolveNow(ctx, lookup.Request{Identifier: part.NormalizeIdentifier(row.PartNumber)})
		}
		if result.Kind != lookup.KindMerged || !result.HasSuggestion {
			return
		}
		s.applyEnrichment(ctx, row, result.Suggested)
	}()
}

// applyEnrichment locates the row by identifier or barcode; the row may have
// been edited or merged away while the lookup ran.
func (s *Session) applyEnrichment(ctx context.Context, scanned part.ScannedItem, suggested part.SupplierPartRecord) {
	id := part.NormalizeIdentifier(scanned.PartNumber)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if !s.rows[i].Matches(id) && s.rows[i].Barcode != scanned.Barcode {
			continue
		}
		if suggested.BasePartNumber != "" {
			s.rows[i].PartNumber = suggested.BasePartNumber
		}
		if s.rows[i].Description == "" {
			s.rows[i].Description = suggested.Description
		}
		if err := s.persistLocked(ctx); err != nil {
			s.logger.Warn("failed to persist enrichment", logging.Error(err))
		}
		return
	}
}

// AddBlankRow appends an empty row for manual entry, inheriting placement
// from the previous row.
func (s *Session) AddBlankRow(ctx context.Context) (part.ScannedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := part.ScannedItem{
		ID:              uuid.NewString(),
		Quantity:        1,
		ScannedQuantity: 1,
		ScannedAt:       time.Now().UTC(),
	}
	if last := len(s.rows) - 1; last >= 0 {
		row.Location = s.rows[last].Location
		row.BinNumber = s.rows[last].BinNumber
		row.BinNumber2 = s.rows[last].BinNumber2
	}
	s.rows = append(s.rows, row)
	return row, s.persistLocked(ctx)
}

// EditRow mutates one row by ID and persists the session.
func (s *Session) EditRow(ctx context.Context, id string, apply func(*part.ScannedItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].ID != id {
			continue
		}
		apply(&s.rows[i])
		return s.persistLocked(ctx)
	}
	return part.Wrap(part.ErrNotFound, "session", "edit row", fmt.Sprintf("row %s not found", id), nil)
}

// RemoveRow deletes one row by ID and persists the session.
func (s *Session) RemoveRow(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].ID != id {
			continue
		}
		s.rows = append(s.rows[:i:i], s.rows[i+1:]...)
		return s.persistLocked(ctx)
	}
	return part.Wrap(part.ErrNotFound, "session", "remove row", fmt.Sprintf("row %s not found", id), nil)
}

// Commit waits for in-flight enrichment, writes all rows to inventory in one
// batch, and clears the session. The snapshot is cleared only after the batch
// is confirmed; a failed commit leaves rows and snapshot intact.
func (s *Session) Commit(ctx context.Context) (created, merged int, err error) {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rows) == 0 {
		return 0, 0, part.Wrap(part.ErrValidation, "session", "commit", "session has no rows", nil)
	}

	records := make([]part.Part, 0, len(s.rows))
	for _, row := range s.rows {
		records = append(records, part.Part{
			PartNumber:  row.PartNumber,
			Quantity:    row.Quantity,
			Description: row.Description,
			Location:    row.Location,
			BinNumber:   row.BinNumber,
			BinNumber2:  row.BinNumber2,
		})
	}

	created, merged, err = s.inventory.BulkCreate(ctx, records)
	if err != nil {
		return 0, 0, err
	}

	s.rows = nil
	if s.snapshots != nil {
		if clearErr := s.snapshots.ClearSnapshot(ctx, store.SnapshotBulkSession); clearErr != nil {
			s.logger.Warn("failed to clear session snapshot", logging.Error(clearErr))
		}
	}
	s.logger.Info("committed bulk scan session",
		logging.String(logging.FieldSessionID, s.id),
		logging.Int("created", created),
		logging.Int("merged", merged))
	return created, merged, nil
}

// Clear abandons all rows and removes the snapshot.
func (s *Session) Clear(ctx context.Context) error {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = nil
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.ClearSnapshot(ctx, store.SnapshotBulkSession)
}

// Wait blocks until background enrichment settles.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) persistLocked(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	data, err := json.Marshal(snapshotPayload{SessionID: s.id, Rows: s.rows})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.snapshots.SaveSnapshot(ctx, store.SnapshotBulkSession, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
