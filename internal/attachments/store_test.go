package attachments_test

import (
	"path/filepath"
	"testing"

	"stockbin/internal/attachments"
	"stockbin/internal/logging"
	"stockbin/internal/part"
)

func newStore(t *testing.T) (*attachments.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attachments.json")
	return attachments.NewStore(path, logging.NewNop()), path
}

func TestAddAndListByCategory(t *testing.T) {
	store, _ := newStore(t)

	if _, err := store.Add("LM358", part.Attachment{Category: part.CategoryDatasheet, Name: "ds.pdf", URL: "/files/ds.pdf"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add("LM358", part.Attachment{Category: part.CategoryPinout, Name: "pinout.png", URL: "/files/pinout.png"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	datasheets := store.ListByCategory("lm358", part.CategoryDatasheet)
	if len(datasheets) != 1 || datasheets[0].Name != "ds.pdf" {
		t.Fatalf("unexpected datasheets %#v", datasheets)
	}
	if !datasheets[0].Local {
		t.Fatal("stored attachments must be marked local")
	}
	if datasheets[0].ID == 0 {
		t.Fatal("expected assigned attachment ID")
	}

	if count := store.Count("LM358"); count != 2 {
		t.Fatalf("expected 2 attachments, got %d", count)
	}
}

func TestAddRejectsEmptyInputs(t *testing.T) {
	store, _ := newStore(t)

	if _, err := store.Add("", part.Attachment{URL: "/files/x.pdf"}); err == nil {
		t.Fatal("expected error for empty identifier")
	}
	if _, err := store.Add("LM358", part.Attachment{Name: "x.pdf"}); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	store, path := newStore(t)

	added, err := store.Add("LM358", part.Attachment{Category: part.CategoryDatasheet, Name: "ds.pdf", URL: "/files/ds.pdf"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	reopened := attachments.NewStore(path, logging.NewNop())
	listed := reopened.ListFor("LM358")
	if len(listed) != 1 || listed[0].Name != "ds.pdf" {
		t.Fatalf("attachments did not survive reopen: %#v", listed)
	}

	// IDs keep advancing after reload.
	next, err := reopened.Add("LM358", part.Attachment{Category: part.CategoryDatasheet, Name: "rev2.pdf", URL: "/files/rev2.pdf"})
	if err != nil {
		t.Fatalf("Add after reopen failed: %v", err)
	}
	if next.ID <= added.ID {
		t.Fatalf("expected ID %d to advance past %d", next.ID, added.ID)
	}
}

func TestRemoveDeletesSingleAttachment(t *testing.T) {
	store, _ := newStore(t)

	first, err := store.Add("LM358", part.Attachment{Category: part.CategoryDatasheet, Name: "ds.pdf", URL: "/files/ds.pdf"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add("LM358", part.Attachment{Category: part.CategoryDatasheet, Name: "rev2.pdf", URL: "/files/rev2.pdf"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := store.Remove("LM358", first.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	listed := store.ListFor("LM358")
	if len(listed) != 1 || listed[0].Name != "rev2.pdf" {
		t.Fatalf("unexpected remaining attachments %#v", listed)
	}

	if err := store.Remove("LM358", 9999); err == nil {
		t.Fatal("expected error removing unknown attachment")
	}
}

func TestEmptyPathStoreIsNoOp(t *testing.T) {
	store := attachments.NewStore("", logging.NewNop())

	if _, err := store.Add("LM358", part.Attachment{Name: "ds.pdf", URL: "/files/ds.pdf"}); err != nil {
		t.Fatalf("no-op Add failed: %v", err)
	}
	if listed := store.ListFor("LM358"); listed != nil {
		t.Fatalf("no-op store must not retain entries, got %#v", listed)
	}
}
