package testsupport

import (
	"testing"

	"stockbin/internal/config"
	"stockbin/internal/store"
)

// MustOpenStore opens the inventory store for the given config and registers
// cleanup on test completion.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}
