package part

import (
	"strings"

	"golang.org/x/text/language"
)

// ScanKind distinguishes the two barcode payload shapes the decoder emits.
type ScanKind string

const (
	// ScanStructured is a multi-field 2D payload (DataMatrix style).
	ScanStructured ScanKind = "structured"
	// ScanLinear is a single-field 1D payload; the raw value is the identifier.
	ScanLinear ScanKind = "linear"
)

// ScanFields holds the structured fields a 2D payload may carry.
type ScanFields struct {
	PartNumber      Identifier
	Description     string
	Quantity        int64
	CountryOfOrigin string
}

// ScanPayload is produced once per physical scan event and never mutated.
type ScanPayload struct {
	Kind          ScanKind
	RawText       string
	CorrectedText string
	Fields        ScanFields
}

// Identifier returns the identifier the downstream lookup should use.
func (p ScanPayload) Identifier() Identifier {
	return p.Fields.PartNumber
}

// NormalizeCountry lowercases a scanned country-of-origin value and validates
// it as an ISO region. Unrecognized values are kept lowercased rather than
// discarded; the field is informational.
func NormalizeCountry(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if region, err := language.ParseRegion(trimmed); err == nil {
		return strings.ToLower(region.String())
	}
	return strings.ToLower(trimmed)
}
