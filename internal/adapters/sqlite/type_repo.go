package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// TypeRepository implements secondary.TypeRepository with SQLite.
type TypeRepository struct {
	db dbtx
}

// NewTypeRepository creates a new SQLite equipment type repository.
func NewTypeRepository(db *sql.DB) *TypeRepository {
	return &TypeRepository{db: db}
}

func scanType(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TypeRecord, error) {
	var (
		description sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	record := &secondary.TypeRecord{}
	err := scanner.Scan(&record.ID, &record.Name, &description, &record.ValidityDays, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Description = description.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

const typeSelectCols = "id, name, description, validity_days, created_at, updated_at"

// Create persists a new equipment type.
func (r *TypeRepository) Create(ctx context.Context, t *secondary.TypeRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO equipment_types (id, name, description, validity_days) VALUES (?, ?, ?, ?)",
		t.ID, t.Name, nullable(t.Description), t.ValidityDays,
	)
	if err != nil {
		return fmt.Errorf("failed to create equipment type: %w", err)
	}
	return nil
}

// Update updates an existing equipment type.
func (r *TypeRepository) Update(ctx context.Context, t *secondary.TypeRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE equipment_types SET description = ?, validity_days = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?",
		nullable(t.Description), t.ValidityDays, t.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment type: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check type update result: %w", err)
	}
	if rows == 0 {
		return inspection.NotFound("equipment type", t.Name)
	}
	return nil
}

// GetByName retrieves a type by its unique name, nil when unknown.
func (r *TypeRepository) GetByName(ctx context.Context, name string) (*secondary.TypeRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+typeSelectCols+" FROM equipment_types WHERE name = ?",
		name,
	)

	record, err := scanType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment type: %w", err)
	}
	return record, nil
}

// List retrieves all types ordered by name.
func (r *TypeRepository) List(ctx context.Context) ([]*secondary.TypeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+typeSelectCols+" FROM equipment_types ORDER BY name ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment types: %w", err)
	}
	defer rows.Close()

	var types []*secondary.TypeRecord
	for rows.Next() {
		record, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment type: %w", err)
		}
		types = append(types, record)
	}
	return types, nil
}

// ValidityDays returns type name to validity window for all positive windows.
func (r *TypeRepository) ValidityDays(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name, validity_days FROM equipment_types WHERE validity_days > 0",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list validity windows: %w", err)
	}
	defer rows.Close()

	windows := make(map[string]int)
	for rows.Next() {
		var name string
		var days int
		if err := rows.Scan(&name, &days); err != nil {
			return nil, fmt.Errorf("failed to scan validity window: %w", err)
		}
		windows[name] = days
	}
	return windows, nil
}
