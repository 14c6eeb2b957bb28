package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_soft_delete_to_equipment",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_certificate_ref_to_history",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_equipment_types_table",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_activities_table",
		Up:      migrationV4,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}

	// Create schema_version table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d: %s\n", migration.Version, migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(db); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

// migrationV1 adds the deleted flag to equipment for soft deletes
func migrationV1(db *sql.DB) error {
	_, err := db.Exec(`
		ALTER TABLE equipment ADD COLUMN deleted INTEGER DEFAULT 0
	`)
	if err != nil {
		return fmt.Errorf("failed to add deleted column: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_equipment_deleted ON equipment(deleted)`)
	if err != nil {
		return fmt.Errorf("failed to create deleted index: %w", err)
	}

	return nil
}

// migrationV2 adds the certificate reference to history entries
func migrationV2(db *sql.DB) error {
	_, err := db.Exec(`
		ALTER TABLE inspection_history ADD COLUMN certificate_ref TEXT
	`)
	if err != nil {
		return fmt.Errorf("failed to add certificate_ref column: %w", err)
	}

	return nil
}

// migrationV3 adds the equipment_types registry
func migrationV3(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS equipment_types (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			validity_days INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create equipment_types table: %w", err)
	}

	return nil
}

// migrationV4 adds the activities log
func migrationV4(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			name TEXT,
			serial TEXT,
			actor TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create activities table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at DESC)`)
	if err != nil {
		return fmt.Errorf("failed to create activities index: %w", err)
	}

	return nil
}
