package attachments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"stockbin/internal/logging"
	"stockbin/internal/part"
)

// Store provides thread-safe access to locally stored attachment references.
type Store struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	nextID  int64
	entries map[string][]part.Attachment // keyed by uppercased identifier
}

// NewStore creates a store backed by the given JSON file. If path is empty
// the store is non-functional and all operations become no-ops. The file is
// created lazily on first Add.
func NewStore(path string, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "attachments")

	s := &Store{
		path:    path,
		logger:  logger,
		nextID:  1,
		entries: make(map[string][]part.Attachment),
	}

	if path == "" {
		return s
	}

	if err := s.load(); err != nil {
		logger.Warn("failed to load attachment index",
			logging.String(logging.FieldEventType, "attachments_load_failed"),
			logging.Error(err))
	}

	return s
}

func keyFor(id part.Identifier) string {
	return strings.ToUpper(id.String())
}

// Add records an attachment for an identifier and persists the index.
func (s *Store) Add(id part.Identifier, attachment part.Attachment) (part.Attachment, error) {
	if id.IsEmpty() {
		return part.Attachment{}, errors.New("identifier cannot be empty")
	}
	if strings.TrimSpace(attachment.URL) == "" {
		return part.Attachment{}, errors.New("attachment URL cannot be empty")
	}
	if attachment.Category == "" {
		attachment.Category = part.CategoryDatasheet
	}
	attachment.Local = true
	if s.path == "" {
		return attachment, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attachment.ID = s.nextID
	s.nextID++
	key := keyFor(id)
	s.entries[key] = append(s.entries[key], attachment)

	if err := s.save(); err != nil {
		return part.Attachment{}, fmt.Errorf("persist attachment index: %w", err)
	}

	s.logger.Debug("stored attachment",
		logging.String("identifier", id.String()),
		logging.String("category", string(attachment.Category)),
		logging.String("name", attachment.Name))

	return attachment, nil
}

// ListFor returns all attachments stored for an identifier, in insertion
// order.
func (s *Store) ListFor(id part.Identifier) []part.Attachment {
	if s.path == "" || id.IsEmpty() {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[keyFor(id)]
	if len(stored) == 0 {
		return nil
	}
	return append([]part.Attachment(nil), stored...)
}

// ListByCategory returns the identifier's attachments of one category.
func (s *Store) ListByCategory(id part.Identifier, category part.AttachmentCategory) []part.Attachment {
	var matched []part.Attachment
	for _, attachment := range s.ListFor(id) {
		if attachment.Category == category {
			matched = append(matched, attachment)
		}
	}
	return matched
}

// Remove deletes one attachment by ID and persists the change.
func (s *Store) Remove(id part.Identifier, attachmentID int64) error {
	if id.IsEmpty() {
		return errors.New("identifier cannot be empty")
	}
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyFor(id)
	stored := s.entries[key]
	for i, attachment := range stored {
		if attachment.ID != attachmentID {
			continue
		}
		s.entries[key] = append(stored[:i:i], stored[i+1:]...)
		if len(s.entries[key]) == 0 {
			delete(s.entries, key)
		}
		if err := s.save(); err != nil {
			return fmt.Errorf("persist attachment index: %w", err)
		}
		return nil
	}
	return fmt.Errorf("attachment %d not found for %q", attachmentID, id.String())
}

// Count returns the number of attachments stored for an identifier.
func (s *Store) Count(id part.Identifier) int {
	return len(s.ListFor(id))
}

type indexEntry struct {
	Identifier  string            `json:"identifier"`
	Attachments []part.Attachment `json:"attachments"`
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read attachment index: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var index []indexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("parse attachment index: %w", err)
	}

	s.entries = make(map[string][]part.Attachment, len(index))
	for _, entry := range index {
		key := strings.ToUpper(strings.TrimSpace(entry.Identifier))
		if key == "" || len(entry.Attachments) == 0 {
			continue
		}
		s.entries[key] = entry.Attachments
		for _, attachment := range entry.Attachments {
			if attachment.ID >= s.nextID {
				s.nextID = attachment.ID + 1
			}
		}
	}

	s.logger.Debug("loaded attachment index",
		logging.Int("identifier_count", len(s.entries)),
		logging.String("path", s.path))

	return nil
}

// save writes the index to disk atomically.
func (s *Store) save() error {
	index := make([]indexEntry, 0, len(s.entries))
	for key, stored := range s.entries {
		index = append(index, indexEntry{Identifier: key, Attachments: stored})
	}
	// Sort for deterministic output
	sort.Slice(index, func(i, j int) bool {
		return index[i].Identifier < index[j].Identifier
	})

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal attachment index: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create attachment directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
