package db

// SchemaSQL is the complete modern schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(): if repository code references a column that
// does not exist here, tests fail immediately with "no such column", which
// catches drift at development time instead of in production.
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Equipment types (validity window registry)
CREATE TABLE IF NOT EXISTS equipment_types (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	validity_days INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Equipment (the inspected items)
CREATE TABLE IF NOT EXISTS equipment (
	id TEXT PRIMARY KEY,
	serial TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	type_name TEXT,
	project_id TEXT,
	site TEXT,
	status TEXT CHECK(status IN ('', 'compliant', 'rejected', 'expired', 'scheduled', 'conditional')) DEFAULT '',
	last_inspection TEXT,
	purchase_date TEXT,
	notes TEXT,
	deleted INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Inspection schedules (current plan per serial; keyed by serial, not id)
CREATE TABLE IF NOT EXISTS inspection_schedules (
	serial TEXT PRIMARY KEY,
	last_performed TEXT,
	next_due TEXT,
	performed_by TEXT,
	notes TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Inspection history (append-only ledger)
CREATE TABLE IF NOT EXISTS inspection_history (
	id TEXT PRIMARY KEY,
	equipment_id TEXT NOT NULL,
	serial TEXT NOT NULL,
	performed_on TEXT NOT NULL,
	result TEXT NOT NULL CHECK(result IN ('compliant', 'rejected', 'conditional')),
	performed_by TEXT NOT NULL,
	notes TEXT,
	next_due TEXT,
	certificate_ref TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (equipment_id) REFERENCES equipment(id)
);

-- Usage assignments (who holds an item right now)
CREATE TABLE IF NOT EXISTS usages (
	id TEXT PRIMARY KEY,
	equipment_id TEXT NOT NULL,
	assigned_to TEXT NOT NULL,
	project_id TEXT,
	start_date TEXT NOT NULL,
	end_date TEXT,
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (equipment_id) REFERENCES equipment(id)
);

-- Activity log (who did what, when)
CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	action TEXT NOT NULL,
	name TEXT,
	serial TEXT,
	actor TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Create indexes for common queries
CREATE INDEX IF NOT EXISTS idx_equipment_serial ON equipment(serial);
CREATE INDEX IF NOT EXISTS idx_equipment_status ON equipment(status);
CREATE INDEX IF NOT EXISTS idx_equipment_type ON equipment(type_name);
CREATE INDEX IF NOT EXISTS idx_equipment_deleted ON equipment(deleted);
CREATE INDEX IF NOT EXISTS idx_schedules_next_due ON inspection_schedules(next_due);
CREATE INDEX IF NOT EXISTS idx_history_equipment ON inspection_history(equipment_id);
CREATE INDEX IF NOT EXISTS idx_history_performed_on ON inspection_history(performed_on DESC);
CREATE INDEX IF NOT EXISTS idx_usages_equipment ON usages(equipment_id);
CREATE INDEX IF NOT EXISTS idx_usages_open ON usages(equipment_id, end_date);
CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at DESC);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Completely fresh install - create modern schema directly and mark
		// all migrations as applied so they never run against it.
		if _, err := db.Exec(SchemaSQL); err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
