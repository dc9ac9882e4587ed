package merge

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stockbin/internal/part"
)

var lowercaser = cases.Lower(language.English)

// Merge folds provider records and previously stored local attachments into
// one MergedPartMetadata. Local attachments are prepended ahead of the
// remotely derived ones for every category, preserving the caller's order.
func Merge(records []part.SupplierPartRecord, local []part.Attachment) part.MergedPartMetadata {
	merged := part.MergedPartMetadata{
		Records: append([]part.SupplierPartRecord(nil), records...),
	}

	for _, record := range records {
		if record.ImageURL != "" {
			merged.ProductImages = append(merged.ProductImages, part.Attachment{
				Category: part.CategoryProductImage,
				Name:     record.ManufacturerPartNumber,
				URL:      record.ImageURL,
			})
		}
		for _, sheet := range record.DatasheetURLs {
			if sheet == "" {
				continue
			}
			merged.Datasheets = append(merged.Datasheets, part.Attachment{
				Category: part.CategoryDatasheet,
				Name:     record.ManufacturerPartNumber,
				URL:      sheet,
			})
		}
	}

	prependLocal(&merged.ProductImages, local, part.CategoryProductImage)
	prependLocal(&merged.Datasheets, local, part.CategoryDatasheet)
	prependLocal(&merged.Pinouts, local, part.CategoryPinout)
	prependLocal(&merged.ReferenceDesigns, local, part.CategoryReferenceDesign)

	return merged
}

func prependLocal(target *[]part.Attachment, local []part.Attachment, category part.AttachmentCategory) {
	var stored []part.Attachment
	for _, attachment := range local {
		if attachment.Category != category {
			continue
		}
		attachment.Local = true
		stored = append(stored, attachment)
	}
	if len(stored) == 0 {
		return
	}
	*target = append(stored, *target...)
}

// PartTypeResolver maps a provider part type name onto a local part type ID.
type PartTypeResolver func(name string) (int, bool)

// crossLinkIndex groups records by manufacturer part number and supplier so
// cross-linking is a single pass rather than repeated scans per supplier.
type crossLinkIndex map[string]map[string]part.SupplierPartRecord

func buildIndex(records []part.SupplierPartRecord) crossLinkIndex {
	index := make(crossLinkIndex)
	for _, record := range records {
		mfrPN := strings.TrimSpace(record.ManufacturerPartNumber)
		if mfrPN == "" {
			continue
		}
		key := strings.ToUpper(mfrPN)
		bySupplier, ok := index[key]
		if !ok {
			bySupplier = make(map[string]part.SupplierPartRecord)
			index[key] = bySupplier
		}
		// First record per supplier wins; later duplicates carry no
		// additional linking information.
		supplier := canonicalSupplier(record.Supplier)
		if _, exists := bySupplier[supplier]; !exists {
			bySupplier[supplier] = record
		}
	}
	return index
}

// canonicalSupplier folds case variants of a managed supplier name onto its
// canonical spelling so index lookups match whatever casing a provider sent.
func canonicalSupplier(name string) string {
	for _, managed := range part.ManagedSuppliers() {
		if strings.EqualFold(name, managed) {
			return managed
		}
	}
	return name
}

// Apply populates the draft from the suggested record, cross-links the
// managed suppliers sharing its manufacturer part number, and selects the
// lowest-cost supplier among all merged records.
func Apply(draft *part.Draft, merged part.MergedPartMetadata, suggested part.SupplierPartRecord, resolveType PartTypeResolver) {
	if draft == nil {
		return
	}

	displayNumber := strings.TrimSpace(suggested.BasePartNumber)
	if displayNumber == "" {
		displayNumber = strings.TrimSpace(suggested.ManufacturerPartNumber)
	}
	if displayNumber != "" {
		draft.PartNumber = displayNumber
	}

	draft.Supplier = suggested.Supplier
	draft.SupplierPartNumber = suggested.SupplierPartNumber
	draft.PackageType = suggested.PackageType
	draft.Cost = suggested.Cost.String()
	draft.Keywords = joinKeywords(suggested.Keywords)
	draft.Description = suggested.Description
	draft.Manufacturer = suggested.Manufacturer
	draft.ManufacturerPartNumber = suggested.ManufacturerPartNumber
	draft.ProductURL = suggested.ProductURL
	draft.ImageURL = suggested.ImageURL
	draft.DatasheetURL = suggested.FirstDatasheetURL()
	if suggested.MountingTypeID > 0 {
		draft.MountingTypeID = strconv.Itoa(suggested.MountingTypeID)
	}
	if resolveType != nil && suggested.PartType != "" {
		if id, ok := resolveType(suggested.PartType); ok {
			draft.PartTypeID = id
		}
	}

	crossLink(draft, merged.Records, suggested)
	selectLowestCost(draft, merged.Records)
}

// crossLink populates the dedicated identifier field for the suggestion's
// supplier, then searches for records from each of the other managed
// suppliers with the same manufacturer part number. Matches populate their
// dedicated field and backfill package type, datasheet, and image only where
// those are still empty. The rule is symmetric across all three suppliers.
func crossLink(draft *part.Draft, records []part.SupplierPartRecord, suggested part.SupplierPartRecord) {
	if !part.IsManagedSupplier(suggested.Supplier) {
		return
	}
	setManagedPartNumber(draft, suggested.Supplier, suggested.SupplierPartNumber)

	mfrPN := strings.TrimSpace(suggested.ManufacturerPartNumber)
	if mfrPN == "" {
		return
	}
	bySupplier := buildIndex(records)[strings.ToUpper(mfrPN)]
	if bySupplier == nil {
		return
	}

	for _, supplier := range part.ManagedSuppliers() {
		if strings.EqualFold(supplier, suggested.Supplier) {
			continue
		}
		linked, ok := bySupplier[supplier]
		if !ok {
			continue
		}
		setManagedPartNumber(draft, supplier, linked.SupplierPartNumber)
		if draft.PackageType == "" {
			draft.PackageType = linked.PackageType
		}
		if draft.DatasheetURL == "" {
			draft.DatasheetURL = linked.FirstDatasheetURL()
		}
		if draft.ImageURL == "" {
			draft.ImageURL = linked.ImageURL
		}
	}
}

func setManagedPartNumber(draft *part.Draft, supplier, partNumber string) {
	switch {
	case strings.EqualFold(supplier, part.SupplierDigiKey):
		draft.DigiKeyPartNumber = partNumber
	case strings.EqualFold(supplier, part.SupplierMouser):
		draft.MouserPartNumber = partNumber
	case strings.EqualFold(supplier, part.SupplierArrow):
		draft.ArrowPartNumber = partNumber
	}
}

// selectLowestCost picks the minimum positive cost among all records, ties
// broken by encounter order. A zero-cost record is never chosen.
func selectLowestCost(draft *part.Draft, records []part.SupplierPartRecord) {
	var lowest *part.SupplierPartRecord
	for i := range records {
		record := &records[i]
		if !record.HasPositiveCost() {
			continue
		}
		if lowest == nil || record.Cost.LessThan(lowest.Cost) {
			lowest = record
		}
	}
	if lowest == nil {
		return
	}
	draft.LowestCostSupplier = lowest.Supplier
	draft.LowestCostSupplierURL = lowest.ProductURL
}

func joinKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	return lowercaser.String(strings.Join(keywords, " "))
}
