package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"stockbin/internal/logging"
	"stockbin/internal/part"
	"stockbin/internal/store"
)

// State is the commit-protocol position of the working draft.
type State string

const (
	// StateDraft accepts edits and may be submitted.
	StateDraft State = "draft"
	// StateSubmitting is transient while the store call is in flight.
	StateSubmitting State = "submitting"
	// StateCommitted means the part was persisted.
	StateCommitted State = "committed"
	// StateDuplicateDetected holds the colliding candidates; the caller can
	// allow the duplicate and resubmit.
	StateDuplicateDetected State = "duplicate_detected"
	// StateRejected is terminal for the draft; only Reset leaves it.
	StateRejected State = "rejected"
)

// Inventory is the store surface the form commits against.
type Inventory interface {
	Create(ctx context.Context, record part.Part, overrideDuplicate bool) (*part.Part, error)
	Update(ctx context.Context, record *part.Part) error
	GetByID(ctx context.Context, id int64) (*part.Part, error)
	RecentlyAdded(ctx context.Context, limit int) ([]part.Part, error)
}

// Form drives one draft through the commit protocol.
type Form struct {
	inventory   Inventory
	prefs       *Preferences
	logger      *slog.Logger
	recentLimit int

	mu           sync.Mutex
	state        State
	draft        part.Draft
	candidates   []part.Part
	recent       []part.Part
	rejectionErr error
}

// NewForm builds a form seeded with a fresh draft from the current
// preferences.
func NewForm(inventory Inventory, prefs *Preferences, recentLimit int, logger *slog.Logger) *Form {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	f := &Form{
		inventory:   inventory,
		prefs:       prefs,
		logger:      logging.NewComponentLogger(logger, "intake"),
		recentLimit: recentLimit,
	}
	f.resetLocked()
	return f
}

// State returns the current protocol state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the working draft.
func (f *Form) Draft() part.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Candidates returns the duplicate candidates from the last conflicted
// submit.
func (f *Form) Candidates() []part.Part {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]part.Part(nil), f.candidates...)
}

// Recent returns the recently added parts captured after the last commit.
func (f *Form) Recent() []part.Part {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]part.Part(nil), f.recent...)
}

// RejectionError returns the error that drove the form into StateRejected.
func (f *Form) RejectionError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rejectionErr
}

// Edit mutates the working draft. Edits are only accepted while the draft is
// editable (Draft or DuplicateDetected).
func (f *Form) Edit(apply func(*part.Draft)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateDraft && f.state != StateDuplicateDetected {
		return part.Wrap(part.ErrValidation, "intake", "edit", fmt.Sprintf("draft not editable in state %s", f.state), nil)
	}
	apply(&f.draft)
	return nil
}

// AllowDuplicate marks the conflicted draft as deliberately duplicated and
// returns it to the editable state so the next submit bypasses detection.
func (f *Form) AllowDuplicate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateDuplicateDetected {
		return part.Wrap(part.ErrValidation, "intake", "allow duplicate", fmt.Sprintf("no duplicate to allow in state %s", f.state), nil)
	}
	f.draft.DuplicateOverrideAllowed = true
	f.state = StateDraft
	return nil
}

// Submit coerces the draft and commits it. New drafts run duplicate
// detection unless the duplicate was explicitly allowed; drafts editing an
// existing part update in place with no detection. The first conflict parks
// the form in StateDuplicateDetected; resubmitting the same conflicted draft
// without allowing it rejects the draft outright.
func (f *Form) Submit(ctx context.Context) (*part.Part, error) {
	f.mu.Lock()
	if f.state != StateDraft && f.state != StateDuplicateDetected {
		state := f.state
		f.mu.Unlock()
		return nil, part.Wrap(part.ErrValidation, "intake", "submit", fmt.Sprintf("cannot submit in state %s", state), nil)
	}
	resubmittedConflict := f.state == StateDuplicateDetected
	draft := f.draft
	f.state = StateSubmitting
	f.mu.Unlock()

	record := coerce(draft)

	var (
		committed *part.Part
		err       error
	)
	if draft.IsExisting() {
		committed, err = f.update(ctx, draft, record)
	} else {
		committed, err = f.inventory.Create(ctx, record, draft.DuplicateOverrideAllowed)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var dup *store.DuplicateError
	switch {
	case err == nil:
		f.state = StateCommitted
		f.candidates = nil
		f.rejectionErr = nil
		f.afterCommitLocked(ctx, committed)
		return committed, nil
	case errors.As(err, &dup):
		if resubmittedConflict {
			// Same conflicted draft submitted again without allowing it.
			f.state = StateRejected
			f.rejectionErr = err
			return nil, err
		}
		f.state = StateDuplicateDetected
		f.candidates = dup.Candidates
		f.logger.Info("duplicate detected",
			logging.String("part_number", draft.PartNumber),
			logging.Int("candidates", len(dup.Candidates)))
		return nil, err
	default:
		f.state = StateRejected
		f.rejectionErr = err
		f.logger.Warn("submit rejected", logging.Error(err))
		return nil, err
	}
}

func (f *Form) update(ctx context.Context, draft part.Draft, record part.Part) (*part.Part, error) {
	existing, err := f.inventory.GetByID(ctx, draft.PartID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, part.Wrap(part.ErrNotFound, "intake", "update", fmt.Sprintf("part %d no longer exists", draft.PartID), nil)
	}
	record.PartID = existing.PartID
	record.CreatedAt = existing.CreatedAt
	if err := f.inventory.Update(ctx, &record); err != nil {
		return nil, err
	}
	return f.inventory.GetByID(ctx, record.PartID)
}

// afterCommitLocked refreshes the recent list, captures preferences from the
// committed part, and seeds a fresh draft.
func (f *Form) afterCommitLocked(ctx context.Context, committed *part.Part) {
	if committed != nil && f.prefs != nil {
		if err := f.prefs.RememberCommitted(ctx, *committed); err != nil {
			f.logger.Warn("failed to remember preferences", logging.Error(err))
		}
	}
	if f.inventory != nil {
		recent, err := f.inventory.RecentlyAdded(ctx, f.recentLimit)
		if err != nil {
			f.logger.Warn("failed to refresh recent parts", logging.Error(err))
		} else {
			f.recent = recent
		}
	}
	f.resetLocked()
}

// ForceSubmit allows the pending duplicate and resubmits in one step.
func (f *Form) ForceSubmit(ctx context.Context) (*part.Part, error) {
	if err := f.AllowDuplicate(); err != nil {
		return nil, err
	}
	return f.Submit(ctx)
}

// ClearAll abandons the draft and, when RememberLast is active, clears the
// remembered placement so the next draft starts with blank location and bins.
func (f *Form) ClearAll(ctx context.Context) error {
	if f.prefs != nil && f.prefs.Current().RememberLast {
		if err := f.prefs.Update(ctx, func(p *ViewPreferences) {
			p.Location = ""
			p.BinNumber = ""
			p.BinNumber2 = ""
		}); err != nil {
			return err
		}
	}
	f.Reset()
	return nil
}

// Reset abandons the working draft and seeds a fresh one from preferences.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Form) resetLocked() {
	seed := ViewPreferences{}
	if f.prefs != nil {
		seed = f.prefs.Current()
	}
	f.draft = part.Draft{
		Quantity:          strconv.FormatInt(seed.Quantity, 10),
		LowStockThreshold: strconv.FormatInt(seed.LowStockThreshold, 10),
		PartTypeID:        seed.PartTypeID,
	}
	if seed.MountingTypeID > 0 {
		f.draft.MountingTypeID = strconv.Itoa(seed.MountingTypeID)
	}
	if seed.RememberLast {
		f.draft.Location = seed.Location
		f.draft.BinNumber = seed.BinNumber
		f.draft.BinNumber2 = seed.BinNumber2
	}
	f.state = StateDraft
	f.candidates = nil
	f.rejectionErr = nil
}

// coerce converts the string-backed draft into a canonical part. Unparseable
// numerics become zero.
func coerce(draft part.Draft) part.Part {
	return part.Part{
		PartID:                 draft.PartID,
		PartNumber:             strings.TrimSpace(draft.PartNumber),
		Quantity:               coerceInt64(draft.Quantity),
		LowStockThreshold:      coerceInt64(draft.LowStockThreshold),
		PartTypeID:             draft.PartTypeID,
		MountingTypeID:         int(coerceInt64(draft.MountingTypeID)),
		PackageType:            draft.PackageType,
		Keywords:               draft.Keywords,
		Description:            draft.Description,
		DatasheetURL:           draft.DatasheetURL,
		DigiKeyPartNumber:      draft.DigiKeyPartNumber,
		MouserPartNumber:       draft.MouserPartNumber,
		ArrowPartNumber:        draft.ArrowPartNumber,
		Location:               draft.Location,
		BinNumber:              draft.BinNumber,
		BinNumber2:             draft.BinNumber2,
		Cost:                   coerceDecimal(draft.Cost),
		LowestCostSupplier:     draft.LowestCostSupplier,
		LowestCostSupplierURL:  draft.LowestCostSupplierURL,
		ProductURL:             draft.ProductURL,
		Manufacturer:           draft.Manufacturer,
		ManufacturerPartNumber: draft.ManufacturerPartNumber,
		ImageURL:               draft.ImageURL,
		ProjectID:              coerceInt64(draft.ProjectID),
		Supplier:               draft.Supplier,
		SupplierPartNumber:     draft.SupplierPartNumber,
	}
}

func coerceInt64(raw string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func coerceDecimal(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return value
}
