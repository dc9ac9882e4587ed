package part

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hints carry supplier-specific identifiers already present on the working
// record so providers can resolve the exact supplier part.
type Hints struct {
	DigiKeyPartNumber string
	MouserPartNumber  string
	ArrowPartNumber   string
}

// IsZero reports whether no hint is set.
func (h Hints) IsZero() bool {
	return h.DigiKeyPartNumber == "" && h.MouserPartNumber == "" && h.ArrowPartNumber == ""
}

// Draft is the form-facing working record: the union of user-entered and
// metadata-derived fields. Numeric-looking fields stay as strings until
// submit, where they are coerced to canonical values.
type Draft struct {
	PartID                   int64
	PartNumber               string
	DuplicateOverrideAllowed bool
	Quantity                 string
	LowStockThreshold        string
	PartTypeID               int
	MountingTypeID           string
	PackageType              string
	Keywords                 string
	Description              string
	DatasheetURL             string
	DigiKeyPartNumber        string
	MouserPartNumber         string
	ArrowPartNumber          string
	Location                 string
	BinNumber                string
	BinNumber2               string
	Cost                     string
	LowestCostSupplier       string
	LowestCostSupplierURL    string
	ProductURL               string
	Manufacturer             string
	ManufacturerPartNumber   string
	ImageURL                 string
	ProjectID                string
	Supplier                 string
	SupplierPartNumber       string
}

// IsExisting reports whether the draft edits a part already in inventory.
func (d Draft) IsExisting() bool {
	return d.PartID > 0
}

// LookupHints extracts the supplier identifiers already present on the draft.
func (d Draft) LookupHints() Hints {
	return Hints{
		DigiKeyPartNumber: d.DigiKeyPartNumber,
		MouserPartNumber:  d.MouserPartNumber,
		ArrowPartNumber:   d.ArrowPartNumber,
	}
}

// Part is the canonical inventory record after numeric coercion. This is the
// shape the store persists and returns.
type Part struct {
	PartID                 int64
	PartNumber             string
	Quantity               int64
	LowStockThreshold      int64
	PartTypeID             int
	MountingTypeID         int
	PackageType            string
	Keywords               string
	Description            string
	DatasheetURL           string
	DigiKeyPartNumber      string
	MouserPartNumber       string
	ArrowPartNumber        string
	Location               string
	BinNumber              string
	BinNumber2             string
	Cost                   decimal.Decimal
	LowestCostSupplier     string
	LowestCostSupplierURL  string
	ProductURL             string
	Manufacturer           string
	ManufacturerPartNumber string
	ImageURL               string
	ProjectID              int64
	Supplier               string
	SupplierPartNumber     string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PartSupplier is a user-maintained supplier row attached to an inventory
// part, used when a part is sourced outside the managed integrations.
type PartSupplier struct {
	PartSupplierID       int64
	PartID               int64
	Name                 string
	SupplierPartNumber   string
	Cost                 decimal.Decimal
	QuantityAvailable    int64
	MinimumOrderQuantity int64
	ProductURL           string
	ImageURL             string
	CreatedAt            time.Time
}
