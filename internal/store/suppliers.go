package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stockbin/internal/part"
)

// CreatePartSupplier attaches a user-maintained supplier row to a part.
// Product and image URLs missing a scheme are normalized to https.
func (s *Store) CreatePartSupplier(ctx context.Context, supplier part.PartSupplier) (*part.PartSupplier, error) {
	if supplier.PartID <= 0 {
		return nil, part.Wrap(part.ErrValidation, "store", "create supplier", "part id is required", nil)
	}
	if strings.TrimSpace(supplier.Name) == "" {
		return nil, part.Wrap(part.ErrValidation, "store", "create supplier", "supplier name is required", nil)
	}

	supplier.ProductURL = ensureScheme(supplier.ProductURL)
	supplier.ImageURL = ensureScheme(supplier.ImageURL)
	supplier.CreatedAt = time.Now().UTC()

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO part_suppliers (
            part_id, name, supplier_part_number, cost, quantity_available,
            minimum_order_quantity, product_url, image_url, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		supplier.PartID,
		supplier.Name,
		nullableString(supplier.SupplierPartNumber),
		nullableString(supplierCostString(supplier)),
		supplier.QuantityAvailable,
		supplier.MinimumOrderQuantity,
		nullableString(supplier.ProductURL),
		nullableString(supplier.ImageURL),
		supplier.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert part supplier: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	supplier.PartSupplierID = id
	return &supplier, nil
}

func supplierCostString(supplier part.PartSupplier) string {
	if supplier.Cost.IsZero() {
		return ""
	}
	return supplier.Cost.String()
}

// ensureScheme prefixes bare host URLs with https. Scanner and catalog data
// often carries scheme-relative or bare URLs.
func ensureScheme(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + strings.TrimPrefix(trimmed, "//")
}

// PartSuppliers returns the supplier rows attached to a part, oldest first.
func (s *Store) PartSuppliers(ctx context.Context, partID int64) ([]part.PartSupplier, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT part_supplier_id, part_id, name, supplier_part_number, cost,
                quantity_available, minimum_order_quantity, product_url, image_url, created_at
         FROM part_suppliers WHERE part_id = ? ORDER BY part_supplier_id`,
		partID,
	)
	if err != nil {
		return nil, fmt.Errorf("query part suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []part.PartSupplier
	for rows.Next() {
		var (
			supplier   part.PartSupplier
			partNumber sql.NullString
			cost       sql.NullString
			productURL sql.NullString
			imageURL   sql.NullString
			createdRaw sql.NullString
		)
		if err := rows.Scan(
			&supplier.PartSupplierID,
			&supplier.PartID,
			&supplier.Name,
			&partNumber,
			&cost,
			&supplier.QuantityAvailable,
			&supplier.MinimumOrderQuantity,
			&productURL,
			&imageURL,
			&createdRaw,
		); err != nil {
			return nil, err
		}
		supplier.SupplierPartNumber = partNumber.String
		supplier.Cost = parseCost(cost.String)
		supplier.ProductURL = productURL.String
		supplier.ImageURL = imageURL.String
		if created, err := parseTimeString(createdRaw.String); err == nil {
			supplier.CreatedAt = created
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}

// RemovePartSupplier deletes one supplier row.
func (s *Store) RemovePartSupplier(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM part_suppliers WHERE part_supplier_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete part supplier: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
