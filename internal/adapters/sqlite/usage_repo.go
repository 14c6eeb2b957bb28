package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/keurtrack/internal/ports/secondary"
)

// UsageRepository implements secondary.UsageRepository with SQLite.
type UsageRepository struct {
	db dbtx
}

// NewUsageRepository creates a new SQLite usage repository.
func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func scanUsage(scanner interface {
	Scan(dest ...any) error
}) (*secondary.UsageRecord, error) {
	var (
		projectID sql.NullString
		endDate   sql.NullString
		notes     sql.NullString
		createdAt time.Time
	)

	record := &secondary.UsageRecord{}
	err := scanner.Scan(
		&record.ID, &record.EquipmentID, &record.AssignedTo, &projectID,
		&record.StartDate, &endDate, &notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.ProjectID = projectID.String
	record.EndDate = endDate.String
	record.Notes = notes.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

const usageSelectCols = "id, equipment_id, assigned_to, project_id, start_date, end_date, notes, created_at"

// Create records a new usage assignment.
func (r *UsageRepository) Create(ctx context.Context, u *secondary.UsageRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO usages (id, equipment_id, assigned_to, project_id, start_date, end_date, notes) VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.EquipmentID, u.AssignedTo, nullable(u.ProjectID), u.StartDate, nullable(u.EndDate), nullable(u.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to create usage: %w", err)
	}
	return nil
}

// EndActive closes all open assignments for an item.
func (r *UsageRepository) EndActive(ctx context.Context, equipmentID, endDate string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE usages SET end_date = ? WHERE equipment_id = ? AND end_date IS NULL",
		endDate, equipmentID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to end usage: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check end usage result: %w", err)
	}
	return int(rows), nil
}

// ActiveFor reports whether an item has at least one open assignment.
func (r *UsageRepository) ActiveFor(ctx context.Context, equipmentID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM usages WHERE equipment_id = ? AND end_date IS NULL",
		equipmentID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check active usage: %w", err)
	}
	return count > 0, nil
}

// ListActive retrieves all open assignments, most recent first.
func (r *UsageRepository) ListActive(ctx context.Context) ([]*secondary.UsageRecord, error) {
	return r.list(ctx,
		"SELECT "+usageSelectCols+" FROM usages WHERE end_date IS NULL ORDER BY start_date DESC",
	)
}

// ListFor retrieves all assignments for an item, most recent first.
func (r *UsageRepository) ListFor(ctx context.Context, equipmentID string) ([]*secondary.UsageRecord, error) {
	return r.list(ctx,
		"SELECT "+usageSelectCols+" FROM usages WHERE equipment_id = ? ORDER BY start_date DESC",
		equipmentID,
	)
}

func (r *UsageRepository) list(ctx context.Context, query string, args ...any) ([]*secondary.UsageRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list usages: %w", err)
	}
	defer rows.Close()

	var usages []*secondary.UsageRecord
	for rows.Next() {
		record, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		usages = append(usages, record)
	}
	return usages, nil
}
