// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/keurtrack/internal/ports/secondary"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repositories need, so the
// same repository code runs standalone or inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements secondary.TransactionRunner over a SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InTransaction runs fn with transaction-bound repositories. The ledger
// append and the item/schedule updates commit or roll back together.
func (s *Store) InTransaction(ctx context.Context, fn func(secondary.Stores) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stores := secondary.Stores{
		Equipment: &EquipmentRepository{db: tx},
		Schedules: &ScheduleRepository{db: tx},
		History:   &HistoryRepository{db: tx},
	}

	if err := fn(stores); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
