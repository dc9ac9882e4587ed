package part

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Managed suppliers get dedicated identifier fields on the draft and
// symmetric cross-linking during merge.
const (
	SupplierDigiKey = "DigiKey"
	SupplierMouser  = "Mouser"
	SupplierArrow   = "Arrow"
)

// ManagedSuppliers returns the ordered set of suppliers with dedicated
// cross-linking support.
func ManagedSuppliers() []string {
	return []string{SupplierDigiKey, SupplierMouser, SupplierArrow}
}

// IsManagedSupplier reports whether the supplier name identifies one of the
// managed integrations. Comparison is case-insensitive.
func IsManagedSupplier(name string) bool {
	for _, supplier := range ManagedSuppliers() {
		if strings.EqualFold(supplier, name) {
			return true
		}
	}
	return false
}

// SupplierPartRecord is one provider's view of a part. Records are immutable
// once fetched; many records may share a ManufacturerPartNumber.
type SupplierPartRecord struct {
	Supplier               string          `json:"supplier"`
	SupplierPartNumber     string          `json:"supplierPartNumber"`
	BasePartNumber         string          `json:"basePartNumber"`
	Manufacturer           string          `json:"manufacturer"`
	ManufacturerPartNumber string          `json:"manufacturerPartNumber"`
	Description            string          `json:"description"`
	PartType               string          `json:"partType"`
	PackageType            string          `json:"packageType"`
	MountingTypeID         int             `json:"mountingTypeId"`
	Cost                   decimal.Decimal `json:"cost"`
	Currency               string          `json:"currency"`
	QuantityAvailable      int64           `json:"quantityAvailable"`
	MinimumOrderQuantity   int64           `json:"minimumOrderQuantity"`
	ProductURL             string          `json:"productUrl"`
	ImageURL               string          `json:"imageUrl"`
	DatasheetURLs          []string        `json:"datasheetUrls"`
	Status                 string          `json:"status"`
	Keywords               []string        `json:"keywords"`
}

// FirstDatasheetURL returns the first datasheet URL or empty.
func (r SupplierPartRecord) FirstDatasheetURL() string {
	if len(r.DatasheetURLs) == 0 {
		return ""
	}
	return r.DatasheetURLs[0]
}

// HasPositiveCost reports whether the record carries a usable cost for
// lowest-cost selection. Zero and negative costs are never chosen.
func (r SupplierPartRecord) HasPositiveCost() bool {
	return r.Cost.IsPositive()
}
