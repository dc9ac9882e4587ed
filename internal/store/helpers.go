package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"stockbin/internal/part"
)

const partColumns = "part_id, part_number, quantity, low_stock_threshold, part_type_id, mounting_type_id, package_type, keywords, description, datasheet_url, digikey_part_number, mouser_part_number, arrow_part_number, location, bin_number, bin_number2, cost, lowest_cost_supplier, lowest_cost_supplier_url, product_url, manufacturer, manufacturer_part_number, image_url, project_id, supplier, supplier_part_number, created_at, updated_at"

func scanPart(scanner interface{ Scan(dest ...any) error }) (*part.Part, error) {
	var (
		id                int64
		partNumber        string
		quantity          int64
		lowStockThreshold int64
		partTypeID        int
		mountingTypeID    int
		packageType       sql.NullString
		keywords          sql.NullString
		description       sql.NullString
		datasheetURL      sql.NullString
		digikeyPN         sql.NullString
		mouserPN          sql.NullString
		arrowPN           sql.NullString
		location          sql.NullString
		binNumber         sql.NullString
		binNumber2        sql.NullString
		costRaw           sql.NullString
		lowestSupplier    sql.NullString
		lowestSupplierURL sql.NullString
		productURL        sql.NullString
		manufacturer      sql.NullString
		manufacturerPN    sql.NullString
		imageURL          sql.NullString
		projectID         int64
		supplier          sql.NullString
		supplierPN        sql.NullString
		createdRaw        sql.NullString
		updatedRaw        sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&partNumber,
		&quantity,
		&lowStockThreshold,
		&partTypeID,
		&mountingTypeID,
		&packageType,
		&keywords,
		&description,
		&datasheetURL,
		&digikeyPN,
		&mouserPN,
		&arrowPN,
		&location,
		&binNumber,
		&binNumber2,
		&costRaw,
		&lowestSupplier,
		&lowestSupplierURL,
		&productURL,
		&manufacturer,
		&manufacturerPN,
		&imageURL,
		&projectID,
		&supplier,
		&supplierPN,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &part.Part{
		PartID:                 id,
		PartNumber:             partNumber,
		Quantity:               quantity,
		LowStockThreshold:      lowStockThreshold,
		PartTypeID:             partTypeID,
		MountingTypeID:         mountingTypeID,
		PackageType:            packageType.String,
		Keywords:               keywords.String,
		Description:            description.String,
		DatasheetURL:           datasheetURL.String,
		DigiKeyPartNumber:      digikeyPN.String,
		MouserPartNumber:       mouserPN.String,
		ArrowPartNumber:        arrowPN.String,
		Location:               location.String,
		BinNumber:              binNumber.String,
		BinNumber2:             binNumber2.String,
		Cost:                   parseCost(costRaw.String),
		LowestCostSupplier:     lowestSupplier.String,
		LowestCostSupplierURL:  lowestSupplierURL.String,
		ProductURL:             productURL.String,
		Manufacturer:           manufacturer.String,
		ManufacturerPartNumber: manufacturerPN.String,
		ImageURL:               imageURL.String,
		ProjectID:              projectID,
		Supplier:               supplier.String,
		SupplierPartNumber:     supplierPN.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func parseCost(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
