// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/keurtrack/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedEquipment inserts a test equipment item and returns its ID.
func seedEquipment(t *testing.T, db *sql.DB, id, serial, status string) string {
	t.Helper()
	if id == "" {
		id = "EQ-001"
	}
	if serial == "" {
		serial = "SER-001"
	}
	_, err := db.Exec(
		"INSERT INTO equipment (id, serial, name, status) VALUES (?, ?, ?, ?)",
		id, serial, "Test Hoist", status,
	)
	if err != nil {
		t.Fatalf("failed to seed equipment: %v", err)
	}
	return id
}

// seedHistory inserts a test history entry and returns its ID.
func seedHistory(t *testing.T, db *sql.DB, id, equipmentID, serial, performedOn, result string) string {
	t.Helper()
	if id == "" {
		id = "HIST-001"
	}
	if equipmentID == "" {
		equipmentID = "EQ-001"
	}
	if serial == "" {
		serial = "SER-001"
	}
	_, err := db.Exec(
		"INSERT INTO inspection_history (id, equipment_id, serial, performed_on, result, performed_by) VALUES (?, ?, ?, ?, ?, ?)",
		id, equipmentID, serial, performedOn, result, "J. Keurder",
	)
	if err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}
	return id
}

// seedSchedule inserts a test schedule row for a serial.
func seedSchedule(t *testing.T, db *sql.DB, serial, lastPerformed, nextDue string) {
	t.Helper()
	var lp, nd any
	if lastPerformed != "" {
		lp = lastPerformed
	}
	if nextDue != "" {
		nd = nextDue
	}
	_, err := db.Exec(
		"INSERT INTO inspection_schedules (serial, last_performed, next_due) VALUES (?, ?, ?)",
		serial, lp, nd,
	)
	if err != nil {
		t.Fatalf("failed to seed schedule: %v", err)
	}
}

// seedType inserts a test equipment type.
func seedType(t *testing.T, db *sql.DB, id, name string, validityDays int) string {
	t.Helper()
	if id == "" {
		id = "TYPE-001"
	}
	if name == "" {
		name = "hoist"
	}
	_, err := db.Exec(
		"INSERT INTO equipment_types (id, name, validity_days) VALUES (?, ?, ?)",
		id, name, validityDays,
	)
	if err != nil {
		t.Fatalf("failed to seed type: %v", err)
	}
	return id
}
