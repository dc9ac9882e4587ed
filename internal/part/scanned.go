package part

import "time"

// ScannedItem is one row of a bulk scan session, keyed by the identifier
// decoded from its barcode. Repeat scans of the same identifier accumulate
// quantity instead of adding rows.
type ScannedItem struct {
	ID              string    `json:"id"`
	PartNumber      string    `json:"partNumber"`
	Quantity        int64     `json:"quantity"`
	ScannedQuantity int64     `json:"scannedQuantity"`
	Location        string    `json:"location"`
	BinNumber       string    `json:"binNumber"`
	BinNumber2      string    `json:"binNumber2"`
	OriginCountry   string    `json:"originCountry"`
	Description     string    `json:"description"`
	Barcode         string    `json:"barcode"`
	ScannedAt       time.Time `json:"scannedAt"`
}

// Matches reports whether the item corresponds to the given identifier.
func (s ScannedItem) Matches(id Identifier) bool {
	return NormalizeIdentifier(s.PartNumber).Equal(id)
}
