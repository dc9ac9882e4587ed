package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockbin/internal/part"
)

// DuplicateError reports existing inventory rows that collide with a part
// being created. It unwraps to the conflict sentinel so callers can branch
// without inspecting the type.
type DuplicateError struct {
	Candidates []part.Part
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%d potential duplicate part(s) found", len(e.Candidates))
}

func (e *DuplicateError) Unwrap() error {
	return part.ErrConflict
}

// Create inserts a new inventory part. Unless overrideDuplicate is set, parts
// whose part number or managed supplier part numbers collide with an existing
// row are refused with a DuplicateError listing the candidates.
func (s *Store) Create(ctx context.Context, record part.Part, overrideDuplicate bool) (*part.Part, error) {
	if strings.TrimSpace(record.PartNumber) == "" {
		return nil, part.Wrap(part.ErrValidation, "store", "create", "part number is required", nil)
	}

	if !overrideDuplicate {
		candidates, err := s.FindDuplicates(ctx, record, 0)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			return nil, &DuplicateError{Candidates: candidates}
		}
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO parts (
            part_number, quantity, low_stock_threshold, part_type_id, mounting_type_id,
            package_type, keywords, description, datasheet_url,
            digikey_part_number, mouser_part_number, arrow_part_number,
            location, bin_number, bin_number2, cost,
            lowest_cost_supplier, lowest_cost_supplier_url, product_url,
            manufacturer, manufacturer_part_number, image_url, project_id,
            supplier, supplier_part_number, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.PartNumber,
		record.Quantity,
		record.LowStockThreshold,
		record.PartTypeID,
		record.MountingTypeID,
		nullableString(record.PackageType),
		nullableString(record.Keywords),
		nullableString(record.Description),
		nullableString(record.DatasheetURL),
		nullableString(record.DigiKeyPartNumber),
		nullableString(record.MouserPartNumber),
		nullableString(record.ArrowPartNumber),
		nullableString(record.Location),
		nullableString(record.BinNumber),
		nullableString(record.BinNumber2),
		nullableString(costString(record)),
		nullableString(record.LowestCostSupplier),
		nullableString(record.LowestCostSupplierURL),
		nullableString(record.ProductURL),
		nullableString(record.Manufacturer),
		nullableString(record.ManufacturerPartNumber),
		nullableString(record.ImageURL),
		record.ProjectID,
		nullableString(record.Supplier),
		nullableString(record.SupplierPartNumber),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert part: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func costString(record part.Part) string {
	if record.Cost.IsZero() {
		return ""
	}
	return record.Cost.String()
}

// FindDuplicates returns existing parts whose part number or managed supplier
// part numbers match the candidate, excluding excludeID when positive.
func (s *Store) FindDuplicates(ctx context.Context, record part.Part, excludeID int64) ([]part.Part, error) {
	conditions := []string{"part_number = ? COLLATE NOCASE"}
	args := []any{record.PartNumber}

	for _, match := range []struct {
		column string
		value  string
	}{
		{"digikey_part_number", record.DigiKeyPartNumber},
		{"mouser_part_number", record.MouserPartNumber},
		{"arrow_part_number", record.ArrowPartNumber},
	} {
		if strings.TrimSpace(match.value) == "" {
			continue
		}
		conditions = append(conditions, match.column+" = ? COLLATE NOCASE")
		args = append(args, match.value)
	}

	query := `SELECT ` + partColumns + ` FROM parts WHERE (` + strings.Join(conditions, " OR ") + `)`
	if excludeID > 0 {
		query += ` AND part_id != ?`
		args = append(args, excludeID)
	}
	query += ` ORDER BY part_id`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}
	defer rows.Close()

	var candidates []part.Part
	for rows.Next() {
		candidate, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *candidate)
	}
	return candidates, rows.Err()
}

// GetByID fetches a part by identifier. Returns nil when no row matches.
func (s *Store) GetByID(ctx context.Context, id int64) (*part.Part, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+partColumns+` FROM parts WHERE part_id = ?`, id)
	record, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get part: %w", err)
	}
	return record, nil
}

// GetByPartNumber fetches the part whose part number matches exactly,
// case-insensitively. Returns nil when no row matches.
func (s *Store) GetByPartNumber(ctx context.Context, id part.Identifier) (*part.Part, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+partColumns+` FROM parts WHERE part_number = ? COLLATE NOCASE ORDER BY part_id LIMIT 1`,
		id.String(),
	)
	record, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get part by number: %w", err)
	}
	return record, nil
}

// ExactMatch reports whether a part with the given part number exists.
func (s *Store) ExactMatch(ctx context.Context, id part.Identifier) (bool, error) {
	if id.IsEmpty() {
		return false, nil
	}
	var count int
	err := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT COUNT(1) FROM parts WHERE part_number = ? COLLATE NOCASE`,
		id.String(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("exact match: %w", err)
	}
	return count > 0, nil
}

// Search returns parts whose part number, manufacturer part number, keywords,
// or description contain the query, ordered with exact part number matches
// first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]part.Part, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + trimmed + "%"

	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+partColumns+` FROM parts
         WHERE part_number LIKE ?
            OR manufacturer_part_number LIKE ?
            OR keywords LIKE ?
            OR description LIKE ?
         ORDER BY (part_number = ? COLLATE NOCASE) DESC, part_number
         LIMIT ?`,
		pattern, pattern, pattern, pattern, trimmed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search parts: %w", err)
	}
	defer rows.Close()

	var results []part.Part
	for rows.Next() {
		record, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *record)
	}
	return results, rows.Err()
}

// Update persists changes to an existing part.
func (s *Store) Update(ctx context.Context, record *part.Part) error {
	if record == nil {
		return errors.New("part is nil")
	}
	if record.PartID <= 0 {
		return part.Wrap(part.ErrValidation, "store", "update", "part id is required", nil)
	}
	record.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE parts
         SET part_number = ?, quantity = ?, low_stock_threshold = ?, part_type_id = ?,
             mounting_type_id = ?, package_type = ?, keywords = ?, description = ?,
             datasheet_url = ?, digikey_part_number = ?, mouser_part_number = ?,
             arrow_part_number = ?, location = ?, bin_number = ?, bin_number2 = ?,
             cost = ?, lowest_cost_supplier = ?, lowest_cost_supplier_url = ?,
             product_url = ?, manufacturer = ?, manufacturer_part_number = ?,
             image_url = ?, project_id = ?, supplier = ?, supplier_part_number = ?,
             updated_at = ?
         WHERE part_id = ?`,
		record.PartNumber,
		record.Quantity,
		record.LowStockThreshold,
		record.PartTypeID,
		record.MountingTypeID,
		nullableString(record.PackageType),
		nullableString(record.Keywords),
		nullableString(record.Description),
		nullableString(record.DatasheetURL),
		nullableString(record.DigiKeyPartNumber),
		nullableString(record.MouserPartNumber),
		nullableString(record.ArrowPartNumber),
		nullableString(record.Location),
		nullableString(record.BinNumber),
		nullableString(record.BinNumber2),
		nullableString(costString(*record)),
		nullableString(record.LowestCostSupplier),
		nullableString(record.LowestCostSupplierURL),
		nullableString(record.ProductURL),
		nullableString(record.Manufacturer),
		nullableString(record.ManufacturerPartNumber),
		nullableString(record.ImageURL),
		record.ProjectID,
		nullableString(record.Supplier),
		nullableString(record.SupplierPartNumber),
		record.UpdatedAt.Format(time.RFC3339Nano),
		record.PartID,
	); err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	return nil
}

// Remove deletes a part by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM parts WHERE part_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete part: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// BulkCreate inserts a batch of parts in one transaction. A batch entry whose
// part number already exists in inventory accumulates its quantity onto the
// existing row instead of inserting a duplicate. Returns created and merged
// counts; on error the whole batch is rolled back.
func (s *Store) BulkCreate(ctx context.Context, records []part.Part) (created, merged int, err error) {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin bulk tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, record := range records {
		if strings.TrimSpace(record.PartNumber) == "" {
			return 0, 0, part.Wrap(part.ErrValidation, "store", "bulk create", "part number is required", nil)
		}

		var existingID int64
		row := tx.QueryRowContext(ctx,
			`SELECT part_id FROM parts WHERE part_number = ? COLLATE NOCASE ORDER BY part_id LIMIT 1`,
			record.PartNumber,
		)
		switch scanErr := row.Scan(&existingID); {
		case scanErr == nil:
			if _, execErr := tx.ExecContext(ctx,
				`UPDATE parts SET quantity = quantity + ?, updated_at = ? WHERE part_id = ?`,
				record.Quantity, now, existingID,
			); execErr != nil {
				return 0, 0, fmt.Errorf("accumulate quantity: %w", execErr)
			}
			merged++
		case errors.Is(scanErr, sql.ErrNoRows):
			if _, execErr := tx.ExecContext(ctx,
				`INSERT INTO parts (
                    part_number, quantity, low_stock_threshold, part_type_id, mounting_type_id,
                    description, location, bin_number, bin_number2, created_at, updated_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				record.PartNumber,
				record.Quantity,
				record.LowStockThreshold,
				record.PartTypeID,
				record.MountingTypeID,
				nullableString(record.Description),
				nullableString(record.Location),
				nullableString(record.BinNumber),
				nullableString(record.BinNumber2),
				now,
				now,
			); execErr != nil {
				return 0, 0, fmt.Errorf("insert bulk part: %w", execErr)
			}
			created++
		default:
			return 0, 0, fmt.Errorf("check existing part: %w", scanErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit bulk tx: %w", err)
	}
	return created, merged, nil
}

// RecentlyAdded returns the newest parts, most recent first.
func (s *Store) RecentlyAdded(ctx context.Context, limit int) ([]part.Part, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+partColumns+` FROM parts ORDER BY created_at DESC, part_id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recently added: %w", err)
	}
	defer rows.Close()

	var results []part.Part
	for rows.Next() {
		record, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *record)
	}
	return results, rows.Err()
}

// Count returns the total number of inventory parts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(1) FROM parts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count parts: %w", err)
	}
	return count, nil
}
