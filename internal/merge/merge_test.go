package merge

import (
	"testing"

	"github.com/shopspring/decimal"

	"stockbin/internal/part"
)

func supplierRecord(supplier, supplierPN, mfrPN string) part.SupplierPartRecord {
	return part.SupplierPartRecord{
		Supplier:               supplier,
		SupplierPartNumber:     supplierPN,
		ManufacturerPartNumber: mfrPN,
	}
}

func TestApplyCrossLinksManagedSuppliers(t *testing.T) {
	digikey := supplierRecord(part.SupplierDigiKey, "296-1395-5-ND", "LM358N")
	digikey.BasePartNumber = "LM358"
	digikey.DatasheetURLs = []string{"https://example.com/dk.pdf"}
	mouser := supplierRecord(part.SupplierMouser, "595-LM358N", "LM358N")
	mouser.PackageType = "DIP-8"
	mouser.ImageURL = "https://example.com/mouser.jpg"
	arrow := supplierRecord(part.SupplierArrow, "LM358N-ARW", "LM358N")

	merged := Merge([]part.SupplierPartRecord{digikey, mouser, arrow}, nil)
	draft := &part.Draft{}
	Apply(draft, merged, digikey, nil)

	if draft.PartNumber != "LM358" {
		t.Fatalf("expected base part number suggestion, got %q", draft.PartNumber)
	}
	if draft.DigiKeyPartNumber != "296-1395-5-ND" {
		t.Fatalf("digikey field not populated: %q", draft.DigiKeyPartNumber)
	}
	if draft.MouserPartNumber != "595-LM358N" {
		t.Fatalf("mouser field not cross-linked: %q", draft.MouserPartNumber)
	}
	if draft.ArrowPartNumber != "LM358N-ARW" {
		t.Fatalf("arrow field not cross-linked: %q", draft.ArrowPartNumber)
	}
	// Backfill applies only where the primary left fields empty.
	if draft.PackageType != "DIP-8" {
		t.Fatalf("expected package backfill from Mouser, got %q", draft.PackageType)
	}
	if draft.DatasheetURL != "https://example.com/dk.pdf" {
		t.Fatalf("primary datasheet must not be overwritten, got %q", draft.DatasheetURL)
	}
	if draft.ImageURL != "https://example.com/mouser.jpg" {
		t.Fatalf("expected image backfill, got %q", draft.ImageURL)
	}
}

func TestApplyNeverLinksAcrossDifferentManufacturerParts(t *testing.T) {
	digikey := supplierRecord(part.SupplierDigiKey, "296-1395-5-ND", "LM358N")
	mouser := supplierRecord(part.SupplierMouser, "595-LM324N", "LM324N")

	merged := Merge([]part.SupplierPartRecord{digikey, mouser}, nil)
	draft := &part.Draft{}
	Apply(draft, merged, digikey, nil)

	if draft.MouserPartNumber != "" {
		t.Fatalf("records with differing manufacturer part numbers must not merge, got %q", draft.MouserPartNumber)
	}
}

func TestApplyCrossLinksRegardlessOfSupplierCasing(t *testing.T) {
	digikey := supplierRecord("DIGIKEY", "296-1395-5-ND", "LM358N")
	mouser := supplierRecord("mouser", "595-LM358N", "LM358N")
	mouser.PackageType = "DIP-8"

	merged := Merge([]part.SupplierPartRecord{digikey, mouser}, nil)
	draft := &part.Draft{}
	Apply(draft, merged, digikey, nil)

	if draft.DigiKeyPartNumber != "296-1395-5-ND" {
		t.Fatalf("digikey field not populated: %q", draft.DigiKeyPartNumber)
	}
	if draft.MouserPartNumber != "595-LM358N" {
		t.Fatalf("case-variant supplier not cross-linked: %q", draft.MouserPartNumber)
	}
	if draft.PackageType != "DIP-8" {
		t.Fatalf("backfill missing from case-variant record, got %q", draft.PackageType)
	}
}

func TestApplySymmetricCrossLinkFromMouserPrimary(t *testing.T) {
	mouser := supplierRecord(part.SupplierMouser, "595-LM358N", "LM358N")
	digikey := supplierRecord(part.SupplierDigiKey, "296-1395-5-ND", "LM358N")

	merged := Merge([]part.SupplierPartRecord{mouser, digikey}, nil)
	draft := &part.Draft{}
	Apply(draft, merged, mouser, nil)

	if draft.MouserPartNumber != "595-LM358N" {
		t.Fatalf("primary supplier field not set: %q", draft.MouserPartNumber)
	}
	if draft.DigiKeyPartNumber != "296-1395-5-ND" {
		t.Fatalf("symmetric cross-link failed: %q", draft.DigiKeyPartNumber)
	}
}

func TestLowestCostSkipsZeroCostRecords(t *testing.T) {
	free := supplierRecord(part.SupplierDigiKey, "DK-1", "LM358N")
	free.Cost = decimal.Zero
	cheap := supplierRecord(part.SupplierMouser, "M-1", "LM358N")
	cheap.Cost = decimal.RequireFromString("0.38")
	cheap.ProductURL = "https://mouser.example/lm358"
	pricey := supplierRecord(part.SupplierArrow, "A-1", "LM358N")
	pricey.Cost = decimal.RequireFromString("0.52")

	merged := Merge([]part.SupplierPartRecord{free, cheap, pricey}, nil)
	draft := &part.Draft{}
	Apply(draft, merged, free, nil)

	if draft.LowestCostSupplier != part.SupplierMouser {
		t.Fatalf("expected Mouser as lowest cost, got %q", draft.LowestCostSupplier)
	}
	if draft.LowestCostSupplierURL != "https://mouser.example/lm358" {
		t.Fatalf("expected lowest cost URL, got %q", draft.LowestCostSupplierURL)
	}
}

func TestLowestCostTieBrokenByEncounterOrder(t *testing.T) {
	first := supplierRecord(part.SupplierDigiKey, "DK-1", "LM358N")
	first.Cost = decimal.RequireFromString("0.40")
	second := supplierRecord(part.SupplierMouser, "M-1", "LM358N")
	second.Cost = decimal.RequireFromString("0.40")

	merged := Merge([]part.SupplierPartRecord{first, second}, nil)
	draft := &part.Draft{}
	Apply(draft, merged, first, nil)

	if draft.LowestCostSupplier != part.SupplierDigiKey {
		t.Fatalf("tie should keep first encountered record, got %q", draft.LowestCostSupplier)
	}
}

func TestMergePrependsLocalAttachments(t *testing.T) {
	record := supplierRecord(part.SupplierDigiKey, "DK-1", "LM358N")
	record.DatasheetURLs = []string{"https://remote.example/ds.pdf"}
	record.ImageURL = "https://remote.example/img.jpg"

	local := []part.Attachment{
		{Category: part.CategoryDatasheet, Name: "uploaded.pdf", URL: "/files/uploaded.pdf"},
		{Category: part.CategoryPinout, Name: "pinout.png", URL: "/files/pinout.png"},
	}

	merged := Merge([]part.SupplierPartRecord{record}, local)

	if len(merged.Datasheets) != 2 {
		t.Fatalf("expected 2 datasheets, got %d", len(merged.Datasheets))
	}
	if !merged.Datasheets[0].Local || merged.Datasheets[0].Name != "uploaded.pdf" {
		t.Fatalf("local datasheet must come first, got %+v", merged.Datasheets[0])
	}
	if merged.Datasheets[1].URL != "https://remote.example/ds.pdf" {
		t.Fatalf("remote datasheet must follow, got %+v", merged.Datasheets[1])
	}
	if len(merged.Pinouts) != 1 || !merged.Pinouts[0].Local {
		t.Fatalf("expected local pinout, got %+v", merged.Pinouts)
	}

	// Repeating the merge with the same inputs yields the same order.
	again := Merge([]part.SupplierPartRecord{record}, local)
	for i := range merged.Datasheets {
		if merged.Datasheets[i] != again.Datasheets[i] {
			t.Fatalf("attachment order not deterministic at %d", i)
		}
	}
}

func TestHasMetadataCountsAttachmentsWithoutRecords(t *testing.T) {
	merged := Merge(nil, []part.Attachment{{Category: part.CategoryDatasheet, Name: "ds.pdf", URL: "/files/ds.pdf"}})
	if !merged.HasMetadata() {
		t.Fatal("attachments alone should count as metadata")
	}
	empty := Merge(nil, nil)
	if empty.HasMetadata() {
		t.Fatal("empty merge must not count as metadata")
	}
}
