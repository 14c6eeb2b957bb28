package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// EquipmentRepository implements secondary.EquipmentRepository with SQLite.
type EquipmentRepository struct {
	db dbtx
}

// NewEquipmentRepository creates a new SQLite equipment repository.
func NewEquipmentRepository(db *sql.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// scanEquipment scans an equipment row into an EquipmentRecord.
func scanEquipment(scanner interface {
	Scan(dest ...any) error
}) (*secondary.EquipmentRecord, error) {
	var (
		typeName       sql.NullString
		projectID      sql.NullString
		site           sql.NullString
		status         sql.NullString
		lastInspection sql.NullString
		purchaseDate   sql.NullString
		notes          sql.NullString
		deleted        bool
		createdAt      time.Time
		updatedAt      time.Time
	)

	record := &secondary.EquipmentRecord{}
	err := scanner.Scan(
		&record.ID, &record.Serial, &record.Name, &typeName, &projectID, &site,
		&status, &lastInspection, &purchaseDate, &notes, &deleted, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.TypeName = typeName.String
	record.ProjectID = projectID.String
	record.Site = site.String
	record.Status = status.String
	record.LastInspection = lastInspection.String
	record.PurchaseDate = purchaseDate.String
	record.Notes = notes.String
	record.Deleted = deleted
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

const equipmentSelectCols = "id, serial, name, type_name, project_id, site, status, last_inspection, purchase_date, notes, deleted, created_at, updated_at"

// nullable wraps a string into a NullString that is NULL when empty.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create persists a new equipment item.
func (r *EquipmentRepository) Create(ctx context.Context, item *secondary.EquipmentRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO equipment (id, serial, name, type_name, project_id, site, status, last_inspection, purchase_date, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.Serial, item.Name, nullable(item.TypeName), nullable(item.ProjectID),
		nullable(item.Site), item.Status, nullable(item.LastInspection),
		nullable(item.PurchaseDate), nullable(item.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	return nil
}

// GetByID retrieves an item by its ID. Soft-deleted items are excluded.
func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*secondary.EquipmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+equipmentSelectCols+" FROM equipment WHERE id = ? AND deleted = 0",
		id,
	)

	record, err := scanEquipment(row)
	if err == sql.ErrNoRows {
		return nil, inspection.NotFound("equipment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return record, nil
}

// GetBySerial retrieves an item by serial. Soft-deleted items are excluded.
func (r *EquipmentRepository) GetBySerial(ctx context.Context, serial string) (*secondary.EquipmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+equipmentSelectCols+" FROM equipment WHERE serial = ? AND deleted = 0",
		serial,
	)

	record, err := scanEquipment(row)
	if err == sql.ErrNoRows {
		return nil, inspection.NotFound("equipment with serial", serial)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment by serial: %w", err)
	}
	return record, nil
}

// Update updates the descriptive fields of an item.
func (r *EquipmentRepository) Update(ctx context.Context, item *secondary.EquipmentRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE equipment SET name = ?, type_name = ?, project_id = ?, site = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0",
		item.Name, nullable(item.TypeName), nullable(item.ProjectID), nullable(item.Site), nullable(item.Notes), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return inspection.NotFound("equipment", item.ID)
	}
	return nil
}

// UpdateStatus sets the inspection status of an item. Empty clears it.
func (r *EquipmentRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE equipment SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update result: %w", err)
	}
	if rows == 0 {
		return inspection.NotFound("equipment", id)
	}
	return nil
}

// SetLastInspection sets the last inspection date (empty clears it).
func (r *EquipmentRepository) SetLastInspection(ctx context.Context, id string, date string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE equipment SET last_inspection = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0",
		nullable(date), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set last inspection: %w", err)
	}
	return nil
}

// SoftDelete marks an item deleted without removing it.
func (r *EquipmentRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE equipment SET deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return inspection.NotFound("equipment", id)
	}
	return nil
}

// List retrieves items matching the given filters, soft-deleted excluded.
func (r *EquipmentRepository) List(ctx context.Context, filters secondary.EquipmentFilters) ([]*secondary.EquipmentRecord, error) {
	query := "SELECT " + equipmentSelectCols + " FROM equipment WHERE deleted = 0"
	args := []any{}

	if filters.Search != "" {
		query += " AND (LOWER(name) LIKE ? OR LOWER(serial) LIKE ?)"
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		args = append(args, pattern, pattern)
	}

	if filters.TypeName != "" {
		query += " AND LOWER(type_name) LIKE ?"
		args = append(args, "%"+strings.ToLower(filters.TypeName)+"%")
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	var items []*secondary.EquipmentRecord
	for rows.Next() {
		record, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, record)
	}

	return items, nil
}

// ListEligible retrieves items eligible for the worklist: a last inspection
// date on record, or a conditional or rejected status.
func (r *EquipmentRepository) ListEligible(ctx context.Context) ([]*secondary.EquipmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+equipmentSelectCols+" FROM equipment WHERE deleted = 0 AND (last_inspection IS NOT NULL OR status IN ('conditional', 'rejected')) ORDER BY serial ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible equipment: %w", err)
	}
	defer rows.Close()

	var items []*secondary.EquipmentRecord
	for rows.Next() {
		record, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, record)
	}

	return items, nil
}

// ListByStatus retrieves non-deleted items holding the given status.
func (r *EquipmentRepository) ListByStatus(ctx context.Context, status string) ([]*secondary.EquipmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+equipmentSelectCols+" FROM equipment WHERE deleted = 0 AND status = ? ORDER BY serial ASC",
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment by status: %w", err)
	}
	defer rows.Close()

	var items []*secondary.EquipmentRecord
	for rows.Next() {
		record, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, record)
	}

	return items, nil
}

// CountAll returns the number of non-deleted items.
func (r *EquipmentRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM equipment WHERE deleted = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count equipment: %w", err)
	}
	return count, nil
}

// CountByStatuses returns the number of non-deleted items in the given statuses.
func (r *EquipmentRepository) CountByStatuses(ctx context.Context, statuses ...string) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(statuses))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(statuses))
	for i, s := range statuses {
		args[i] = s
	}

	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM equipment WHERE deleted = 0 AND status IN ("+placeholders+")",
		args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count equipment by status: %w", err)
	}
	return count, nil
}

// DistinctTypes returns the distinct non-empty type names in use.
func (r *EquipmentRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "type_name")
}

// DistinctSites returns the distinct non-empty sites in use.
func (r *EquipmentRepository) DistinctSites(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "site")
}

func (r *EquipmentRepository) distinctColumn(ctx context.Context, col string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT "+col+" FROM equipment WHERE deleted = 0 AND "+col+" IS NOT NULL AND "+col+" != '' ORDER BY "+col+" ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", col, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", col, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// GetNextID returns the next available equipment ID (EQ-001, EQ-002, ...).
func (r *EquipmentRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(id) FROM equipment WHERE id LIKE 'EQ-%'",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get max equipment ID: %w", err)
	}

	next := 1
	if maxID.Valid {
		var n int
		if _, err := fmt.Sscanf(maxID.String, "EQ-%d", &n); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("EQ-%03d", next), nil
}
