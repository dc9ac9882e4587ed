package part

// AttachmentCategory classifies locally stored files merged into lookup
// results.
type AttachmentCategory string

const (
	CategoryProductImage    AttachmentCategory = "product_image"
	CategoryDatasheet       AttachmentCategory = "datasheet"
	CategoryPinout          AttachmentCategory = "pinout"
	CategoryReferenceDesign AttachmentCategory = "reference_design"
)

// AllAttachmentCategories returns the ordered list of known categories.
func AllAttachmentCategories() []AttachmentCategory {
	return []AttachmentCategory{
		CategoryProductImage,
		CategoryDatasheet,
		CategoryPinout,
		CategoryReferenceDesign,
	}
}

// Attachment is a stored or remotely sourced file reference presented
// alongside merged metadata.
type Attachment struct {
	ID         int64              `json:"id"`
	Category   AttachmentCategory `json:"category"`
	Name       string             `json:"name"`
	URL        string             `json:"url"`
	PreviewURL string             `json:"previewUrl"`
	// Local marks attachments stored by the user; they are always
	// presented ahead of remotely sourced ones.
	Local bool `json:"local"`
}

// MergedPartMetadata is the union of all supplier records returned for one
// lookup plus attachments grouped by category. For each category the local
// attachments precede the remote ones.
type MergedPartMetadata struct {
	Records          []SupplierPartRecord `json:"records"`
	ProductImages    []Attachment         `json:"productImages"`
	Datasheets       []Attachment         `json:"datasheets"`
	Pinouts          []Attachment         `json:"pinouts"`
	ReferenceDesigns []Attachment         `json:"referenceDesigns"`
}

// HasMetadata reports whether the lookup produced anything usable. Zero
// provider records still count as metadata once at least one attachment or
// datasheet has data.
func (m MergedPartMetadata) HasMetadata() bool {
	if len(m.Records) > 0 {
		return true
	}
	return len(m.ProductImages) > 0 ||
		len(m.Datasheets) > 0 ||
		len(m.Pinouts) > 0 ||
		len(m.ReferenceDesigns) > 0
}

// Suggested returns the first ranked record, which seeds the draft on a
// successful lookup.
func (m MergedPartMetadata) Suggested() (SupplierPartRecord, bool) {
	if len(m.Records) == 0 {
		return SupplierPartRecord{}, false
	}
	return m.Records[0], true
}

// AttachmentsFor returns the merged attachment list for one category.
func (m MergedPartMetadata) AttachmentsFor(category AttachmentCategory) []Attachment {
	switch category {
	case CategoryProductImage:
		return m.ProductImages
	case CategoryDatasheet:
		return m.Datasheets
	case CategoryPinout:
		return m.Pinouts
	case CategoryReferenceDesign:
		return m.ReferenceDesigns
	default:
		return nil
	}
}
