package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// HistoryRepository implements secondary.HistoryRepository with SQLite.
type HistoryRepository struct {
	db dbtx
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// scanHistory scans a history row into a HistoryRecord.
func scanHistory(scanner interface {
	Scan(dest ...any) error
}) (*secondary.HistoryRecord, error) {
	var (
		notes          sql.NullString
		nextDue        sql.NullString
		certificateRef sql.NullString
		createdAt      time.Time
	)

	record := &secondary.HistoryRecord{}
	err := scanner.Scan(
		&record.ID, &record.EquipmentID, &record.Serial, &record.PerformedOn,
		&record.Result, &record.PerformedBy, &notes, &nextDue, &certificateRef, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.Notes = notes.String
	record.NextDue = nextDue.String
	record.CertificateRef = certificateRef.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

const historySelectCols = "id, equipment_id, serial, performed_on, result, performed_by, notes, next_due, certificate_ref, created_at"

// historyOrder sorts newest first; rowid breaks same-day ties in favour of
// the later insertion.
const historyOrder = " ORDER BY performed_on DESC, rowid DESC"

// Append inserts a new immutable history entry.
func (r *HistoryRepository) Append(ctx context.Context, entry *secondary.HistoryRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO inspection_history (id, equipment_id, serial, performed_on, result, performed_by, notes, next_due, certificate_ref) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.EquipmentID, entry.Serial, entry.PerformedOn, entry.Result,
		entry.PerformedBy, nullable(entry.Notes), nullable(entry.NextDue), nullable(entry.CertificateRef),
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// GetByID retrieves a history entry by its ID.
func (r *HistoryRepository) GetByID(ctx context.Context, id string) (*secondary.HistoryRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+historySelectCols+" FROM inspection_history WHERE id = ?",
		id,
	)

	record, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, inspection.NotFound("history entry", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return record, nil
}

// Latest retrieves the most recent entry for an item, nil when none.
func (r *HistoryRepository) Latest(ctx context.Context, equipmentID string) (*secondary.HistoryRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+historySelectCols+" FROM inspection_history WHERE equipment_id = ?"+historyOrder+" LIMIT 1",
		equipmentID,
	)

	record, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest history entry: %w", err)
	}
	return record, nil
}

// ListFor retrieves all entries for an item, most recent first.
func (r *HistoryRepository) ListFor(ctx context.Context, equipmentID string) ([]*secondary.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+historySelectCols+" FROM inspection_history WHERE equipment_id = ?"+historyOrder,
		equipmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.HistoryRecord
	for rows.Next() {
		record, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, record)
	}
	return entries, nil
}

// CountFor returns the number of entries for an item.
func (r *HistoryRepository) CountFor(ctx context.Context, equipmentID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inspection_history WHERE equipment_id = ?",
		equipmentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Exists reports whether an equivalent entry already exists.
func (r *HistoryRepository) Exists(ctx context.Context, equipmentID, performedOn, result string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inspection_history WHERE equipment_id = ? AND performed_on = ? AND result = ?",
		equipmentID, performedOn, result,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check history entry: %w", err)
	}
	return count > 0, nil
}

// Delete removes a single entry by ID.
func (r *HistoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM inspection_history WHERE id = ?",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return inspection.NotFound("history entry", id)
	}
	return nil
}

// DistinctPerformers returns the distinct non-empty performer names.
func (r *HistoryRepository) DistinctPerformers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT performed_by FROM inspection_history WHERE performed_by != '' ORDER BY performed_by ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list performers: %w", err)
	}
	defer rows.Close()

	var performers []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan performer: %w", err)
		}
		performers = append(performers, p)
	}
	return performers, nil
}
