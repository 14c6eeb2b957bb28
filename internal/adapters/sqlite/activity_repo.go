package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/keurtrack/internal/ports/secondary"
)

// ActivityRepository implements secondary.ActivityRepository with SQLite.
type ActivityRepository struct {
	db dbtx
}

// NewActivityRepository creates a new SQLite activity repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func scanActivity(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ActivityRecord, error) {
	var (
		name      sql.NullString
		serial    sql.NullString
		actor     sql.NullString
		createdAt time.Time
	)

	record := &secondary.ActivityRecord{}
	err := scanner.Scan(&record.ID, &record.Action, &name, &serial, &actor, &createdAt)
	if err != nil {
		return nil, err
	}

	record.Name = name.String
	record.Serial = serial.String
	record.Actor = actor.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

const activitySelectCols = "id, action, name, serial, actor, created_at"

// Append records one activity entry.
func (r *ActivityRepository) Append(ctx context.Context, entry *secondary.ActivityRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO activities (id, action, name, serial, actor) VALUES (?, ?, ?, ?, ?)",
		entry.ID, entry.Action, nullable(entry.Name), nullable(entry.Serial), nullable(entry.Actor),
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// List retrieves activity entries matching the filters, most recent first.
func (r *ActivityRepository) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	query := "SELECT " + activitySelectCols + " FROM activities WHERE 1=1"
	args := []any{}

	if filters.Search != "" {
		query += " AND (LOWER(name) LIKE ? OR LOWER(serial) LIKE ? OR LOWER(action) LIKE ?)"
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if filters.Actor != "" {
		query += " AND LOWER(actor) LIKE ?"
		args = append(args, "%"+strings.ToLower(filters.Actor)+"%")
	}

	if filters.Action != "" {
		query += " AND LOWER(action) LIKE ?"
		args = append(args, "%"+strings.ToLower(filters.Action)+"%")
	}

	if filters.Since != "" {
		query += " AND created_at >= ?"
		args = append(args, filters.Since)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*secondary.ActivityRecord
	for rows.Next() {
		record, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, record)
	}
	return activities, nil
}

// DistinctActors returns the distinct non-empty actor names.
func (r *ActivityRepository) DistinctActors(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT actor FROM activities WHERE actor IS NOT NULL AND actor != '' ORDER BY actor ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	var actors []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, a)
	}
	return actors, nil
}
