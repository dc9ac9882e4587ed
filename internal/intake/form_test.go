package intake_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"stockbin/internal/intake"
	"stockbin/internal/logging"
	"stockbin/internal/part"
	"stockbin/internal/store"
	"stockbin/internal/testsupport"
)

func newForm(t *testing.T) (*intake.Form, *store.Store, *intake.Preferences) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	prefs := intake.NewPreferences(context.Background(), cfg.Preferences, st, logging.NewNop())
	form := intake.NewForm(st, prefs, cfg.Preferences.RecentPartsToDisplay, logging.NewNop())
	return form, st, prefs
}

func TestNewFormSeedsDraftFromPreferences(t *testing.T) {
	form, _, prefs := newForm(t)

	draft := form.Draft()
	seed := prefs.Current()
	if draft.Quantity != strconv.FormatInt(seed.Quantity, 10) {
		t.Fatalf("expected quantity %d, got %q", seed.Quantity, draft.Quantity)
	}
	if draft.LowStockThreshold != strconv.FormatInt(seed.LowStockThreshold, 10) {
		t.Fatalf("expected threshold %d, got %q", seed.LowStockThreshold, draft.LowStockThreshold)
	}
	if draft.PartTypeID != seed.PartTypeID {
		t.Fatalf("expected part type %d, got %d", seed.PartTypeID, draft.PartTypeID)
	}
	if form.State() != intake.StateDraft {
		t.Fatalf("fresh form must be in draft state, got %s", form.State())
	}
}

func TestSubmitCommitsAndStartsFreshDraft(t *testing.T) {
	form, st, _ := newForm(t)

	ctx := context.Background()
	if err := form.Edit(func(d *part.Draft) {
		d.PartNumber = "LM358"
		d.Quantity = "12"
		d.Location = "Shelf A"
		d.BinNumber = "B3"
		d.Cost = "0.42"
	}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	committed, err := form.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if committed.Quantity != 12 || committed.Cost.String() != "0.42" {
		t.Fatalf("coercion lost values: %#v", committed)
	}

	stored, err := st.GetByPartNumber(ctx, "LM358")
	if err != nil || stored == nil {
		t.Fatalf("committed part not in store: %v", err)
	}

	// The form reseeds and remembers the committed placement.
	next := form.Draft()
	if next.PartNumber != "" {
		t.Fatalf("expected fresh draft, got part number %q", next.PartNumber)
	}
	if next.Location != "Shelf A" || next.BinNumber != "B3" {
		t.Fatalf("remembered placement not applied: %q/%q", next.Location, next.BinNumber)
	}
	if form.State() != intake.StateDraft {
		t.Fatalf("expected draft state after commit, got %s", form.State())
	}

	recent := form.Recent()
	if len(recent) != 1 || recent[0].PartNumber != "LM358" {
		t.Fatalf("recent list not refreshed: %#v", recent)
	}
}

func TestSubmitCoercesInvalidNumericsToZero(t *testing.T) {
	form, _, _ := newForm(t)

	ctx := context.Background()
	if err := form.Edit(func(d *part.Draft) {
		d.PartNumber = "1N4148"
		d.Quantity = "a lot"
		d.LowStockThreshold = ""
		d.Cost = "cheap"
	}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	committed, err := form.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if committed.Quantity != 0 || committed.LowStockThreshold != 0 {
		t.Fatalf("invalid numerics must coerce to zero, got %d/%d", committed.Quantity, committed.LowStockThreshold)
	}
	if !committed.Cost.IsZero() {
		t.Fatalf("invalid cost must coerce to zero, got %s", committed.Cost)
	}
}

func TestDuplicateDetectedThenAllowedCommits(t *testing.T) {
	form, st, _ := newForm(t)

	ctx := context.Background()
	if _, err := st.Create(ctx, part.Part{PartNumber: "LM358", Quantity: 1}, false); err != nil {
		t.Fatalf("seed part failed: %v", err)
	}

	if err := form.Edit(func(d *part.Draft) { d.PartNumber = "LM358" }); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	_, err := form.Submit(ctx)
	if !errors.Is(err, part.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if form.State() != intake.StateDuplicateDetected {
		t.Fatalf("expected duplicate detected, got %s", form.State())
	}
	candidates := form.Candidates()
	if len(candidates) != 1 || candidates[0].PartNumber != "LM358" {
		t.Fatalf("unexpected candidates %#v", candidates)
	}

	if err := form.AllowDuplicate(); err != nil {
		t.Fatalf("AllowDuplicate failed: %v", err)
	}
	committed, err := form.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit after allow failed: %v", err)
	}
	if committed.PartID == 0 {
		t.Fatal("expected committed duplicate")
	}
}

func TestForceSubmitAllowsAndCommitsInOneStep(t *testing.T) {
	form, st, _ := newForm(t)

	ctx := context.Background()
	if _, err := st.Create(ctx, part.Part{PartNumber: "LM358", Quantity: 1}, false); err != nil {
		t.Fatalf("seed part failed: %v", err)
	}

	if err := form.Edit(func(d *part.Draft) { d.PartNumber = "LM358" }); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if _, err := form.Submit(ctx); !errors.Is(err, part.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	committed, err := form.ForceSubmit(ctx)
	if err != nil {
		t.Fatalf("ForceSubmit failed: %v", err)
	}
	if committed.PartID == 0 {
		t.Fatal("expected committed duplicate")
	}

	// Without a pending conflict there is nothing to force.
	if _, err := form.ForceSubmit(ctx); !errors.Is(err, part.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClearAllClearsRememberedPlacement(t *testing.T) {
	form, _, prefs := newForm(t)

	ctx := context.Background()
	if err := form.Edit(func(d *part.Draft) {
		d.PartNumber = "LM358"
		d.Location = "Shelf A"
		d.BinNumber = "B3"
	}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if _, err := form.Submit(ctx); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if prefs.Current().Location != "Shelf A" {
		t.Fatalf("placement not remembered: %q", prefs.Current().Location)
	}

	if err := form.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if prefs.Current().Location != "" || prefs.Current().BinNumber != "" {
		t.Fatalf("placement not cleared: %+v", prefs.Current())
	}
	if draft := form.Draft(); draft.Location != "" || draft.BinNumber != "" {
		t.Fatalf("fresh draft still carries placement: %+v", draft)
	}
}

func TestResubmittingConflictedDraftRejects(t *testing.T) {
	form, st, _ := newForm(t)

	ctx := context.Background()
	if _, err := st.Create(ctx, part.Part{PartNumber: "LM358", Quantity: 1}, false); err != nil {
		t.Fatalf("seed part failed: %v", err)
	}

	if err := form.Edit(func(d *part.Draft) { d.PartNumber = "LM358" }); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if _, err := form.Submit(ctx); !errors.Is(err, part.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Submit again without allowing the duplicate.
	if _, err := form.Submit(ctx); !errors.Is(err, part.ErrConflict) {
		t.Fatalf("expected conflict on resubmit, got %v", err)
	}
	if form.State() != intake.StateRejected {
		t.Fatalf("expected rejection, got %s", form.State())
	}
	if form.RejectionError() == nil {
		t.Fatal("expected rejection error to be recorded")
	}

	// Rejected drafts refuse edits until reset.
	if err := form.Edit(func(d *part.Draft) { d.PartNumber = "other" }); err == nil {
		t.Fatal("expected edit to fail in rejected state")
	}
	form.Reset()
	if form.State() != intake.StateDraft {
		t.Fatalf("expected draft state after reset, got %s", form.State())
	}
}

func TestSubmitRejectsMissingPartNumber(t *testing.T) {
	form, _, _ := newForm(t)

	_, err := form.Submit(context.Background())
	if !errors.Is(err, part.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if form.State() != intake.StateRejected {
		t.Fatalf("expected rejected state, got %s", form.State())
	}
}

func TestEditingExistingPartSkipsDuplicateDetection(t *testing.T) {
	form, st, _ := newForm(t)

	ctx := context.Background()
	existing, err := st.Create(ctx, part.Part{PartNumber: "LM358", Quantity: 3}, false)
	if err != nil {
		t.Fatalf("seed part failed: %v", err)
	}

	if err := form.Edit(func(d *part.Draft) {
		d.PartID = existing.PartID
		d.PartNumber = "LM358"
		d.Quantity = "7"
		d.Description = "Dual op-amp"
	}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	updated, err := form.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if updated.PartID != existing.PartID || updated.Quantity != 7 {
		t.Fatalf("update not applied: %#v", updated)
	}
	if updated.Description != "Dual op-amp" {
		t.Fatalf("description not persisted: %q", updated.Description)
	}
}
