package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/keurtrack/internal/ports/secondary"
)

// ScheduleRepository implements secondary.ScheduleRepository with SQLite.
type ScheduleRepository struct {
	db dbtx
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// scanSchedule scans a schedule row into a ScheduleRecord.
func scanSchedule(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ScheduleRecord, error) {
	var (
		lastPerformed sql.NullString
		nextDue       sql.NullString
		performedBy   sql.NullString
		notes         sql.NullString
		updatedAt     time.Time
	)

	record := &secondary.ScheduleRecord{}
	err := scanner.Scan(&record.Serial, &lastPerformed, &nextDue, &performedBy, &notes, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.LastPerformed = lastPerformed.String
	record.NextDue = nextDue.String
	record.PerformedBy = performedBy.String
	record.Notes = notes.String
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

const scheduleSelectCols = "serial, last_performed, next_due, performed_by, notes, updated_at"

// Upsert creates the schedule record for a serial or replaces the existing one.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *secondary.ScheduleRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inspection_schedules (serial, last_performed, next_due, performed_by, notes)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(serial) DO UPDATE SET
			last_performed = excluded.last_performed,
			next_due = excluded.next_due,
			performed_by = excluded.performed_by,
			notes = excluded.notes,
			updated_at = CURRENT_TIMESTAMP`,
		schedule.Serial, nullable(schedule.LastPerformed), nullable(schedule.NextDue),
		nullable(schedule.PerformedBy), nullable(schedule.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return nil
}

// GetBySerial retrieves the schedule record for a serial, nil when none.
func (r *ScheduleRepository) GetBySerial(ctx context.Context, serial string) (*secondary.ScheduleRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+scheduleSelectCols+" FROM inspection_schedules WHERE serial = ?",
		serial,
	)

	record, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return record, nil
}

// GetBySerials retrieves schedule records for a set of serials, keyed by serial.
func (r *ScheduleRepository) GetBySerials(ctx context.Context, serials []string) (map[string]*secondary.ScheduleRecord, error) {
	result := make(map[string]*secondary.ScheduleRecord, len(serials))
	if len(serials) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(serials))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(serials))
	for i, s := range serials {
		args[i] = s
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+scheduleSelectCols+" FROM inspection_schedules WHERE serial IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		result[record.Serial] = record
	}
	return result, nil
}

// ClearNextDue clears the next-due date of a schedule record.
func (r *ScheduleRepository) ClearNextDue(ctx context.Context, serial string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE inspection_schedules SET next_due = NULL, updated_at = CURRENT_TIMESTAMP WHERE serial = ?",
		serial,
	)
	if err != nil {
		return fmt.Errorf("failed to clear next due: %w", err)
	}
	return nil
}

// ClearDates clears both date fields of a schedule record.
func (r *ScheduleRepository) ClearDates(ctx context.Context, serial string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE inspection_schedules SET last_performed = NULL, next_due = NULL, updated_at = CURRENT_TIMESTAMP WHERE serial = ?",
		serial,
	)
	if err != nil {
		return fmt.Errorf("failed to clear schedule dates: %w", err)
	}
	return nil
}

// ListOverdue retrieves schedules past due that were never performed.
func (r *ScheduleRepository) ListOverdue(ctx context.Context, today string) ([]*secondary.ScheduleRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+scheduleSelectCols+" FROM inspection_schedules WHERE next_due IS NOT NULL AND next_due < ? AND last_performed IS NULL ORDER BY next_due ASC",
		today,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*secondary.ScheduleRecord
	for rows.Next() {
		record, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, record)
	}
	return schedules, nil
}

// CountDueBetween counts never-performed schedules due in [from, to].
func (r *ScheduleRepository) CountDueBetween(ctx context.Context, from, to string) (int, error) {
	query := "SELECT COUNT(*) FROM inspection_schedules WHERE next_due IS NOT NULL AND last_performed IS NULL"
	args := []any{}

	if from != "" {
		query += " AND next_due >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND next_due <= ?"
		args = append(args, to)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count due schedules: %w", err)
	}
	return count, nil
}
