package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a few
// equipment types, items in every status, planned and overdue schedules,
// history entries and an open usage assignment.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().Format(time.RFC3339)

	types := []struct {
		id, name, desc string
		validity       int
	}{
		{"TYPE-001", "hoisting equipment", "Chain hoists, lever hoists, winches", 365},
		{"TYPE-002", "fall protection", "Harnesses, lanyards, anchor points", 180},
		{"TYPE-003", "ladders", "Ladders and stepladders", 365},
		{"TYPE-004", "hand tools", "Uninspected small tools", 0},
	}
	for _, t := range types {
		if _, err := database.Exec(
			"INSERT INTO equipment_types (id, name, description, validity_days, created_at) VALUES (?, ?, ?, ?, ?)",
			t.id, t.name, t.desc, t.validity, now,
		); err != nil {
			return fmt.Errorf("seed equipment types: %w", err)
		}
	}

	items := []struct {
		id, serial, name, typeName, site, status, lastInspection, purchaseDate string
	}{
		{"EQ-001", "KT-2021-0001", "Chain hoist 2t", "hoisting equipment", "Depot North", "compliant", "2025-06-01", "2021-03-15"},
		{"EQ-002", "KT-2021-0002", "Chain hoist 5t", "hoisting equipment", "Depot North", "compliant", "2024-01-10", "2021-03-15"},
		{"EQ-003", "KT-2022-0107", "Safety harness", "fall protection", "", "conditional", "2025-07-20", "2022-08-01"},
		{"EQ-004", "KT-2019-0412", "Extension ladder 8m", "ladders", "Depot South", "rejected", "2025-05-02", "2019-04-30"},
		{"EQ-005", "KT-2023-0055", "Stepladder 6", "ladders", "", "scheduled", "", "2023-02-11"},
		{"EQ-006", "KT-2020-0300", "Lever hoist", "hoisting equipment", "", "compliant", "", "2020-06-20"},
	}
	for _, it := range items {
		if _, err := database.Exec(
			`INSERT INTO equipment (id, serial, name, type_name, site, status, last_inspection, purchase_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			it.id, it.serial, it.name, it.typeName, it.site, it.status,
			nullIfEmpty(it.lastInspection), nullIfEmpty(it.purchaseDate), now, now,
		); err != nil {
			return fmt.Errorf("seed equipment: %w", err)
		}
	}

	schedules := []struct {
		serial, lastPerformed, nextDue, performedBy string
	}{
		{"KT-2021-0001", "2025-06-01", "2026-06-01", "J. van Dam"},
		{"KT-2021-0002", "2024-01-10", "2024-07-10", "J. van Dam"},
		{"KT-2022-0107", "2025-07-20", "2026-01-20", "M. Bakker"},
		{"KT-2023-0055", "", "2025-12-01", ""},
	}
	for _, s := range schedules {
		if _, err := database.Exec(
			`INSERT INTO inspection_schedules (serial, last_performed, next_due, performed_by, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			s.serial, nullIfEmpty(s.lastPerformed), nullIfEmpty(s.nextDue), s.performedBy, now,
		); err != nil {
			return fmt.Errorf("seed schedules: %w", err)
		}
	}

	history := []struct {
		id, equipmentID, serial, performedOn, result, performedBy, nextDue, certificateRef string
	}{
		{"HIST-001", "EQ-001", "KT-2021-0001", "2024-05-28", "compliant", "J. van Dam", "2025-05-28", ""},
		{"HIST-002", "EQ-001", "KT-2021-0001", "2025-06-01", "compliant", "J. van Dam", "2026-06-01", "2025/KT-2021-0001.pdf"},
		{"HIST-003", "EQ-002", "KT-2021-0002", "2024-01-10", "compliant", "J. van Dam", "2024-07-10", ""},
		{"HIST-004", "EQ-003", "KT-2022-0107", "2025-07-20", "conditional", "M. Bakker", "2026-01-20", "2025/KT-2022-0107.pdf"},
		{"HIST-005", "EQ-004", "KT-2019-0412", "2025-05-02", "rejected", "M. Bakker", "", ""},
	}
	for _, h := range history {
		if _, err := database.Exec(
			`INSERT INTO inspection_history (id, equipment_id, serial, performed_on, result, performed_by, next_due, certificate_ref, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.id, h.equipmentID, h.serial, h.performedOn, h.result, h.performedBy,
			nullIfEmpty(h.nextDue), nullIfEmpty(h.certificateRef), now,
		); err != nil {
			return fmt.Errorf("seed history: %w", err)
		}
	}

	if _, err := database.Exec(
		`INSERT INTO usages (id, equipment_id, assigned_to, project_id, start_date)
		 VALUES ('USE-001', 'EQ-002', 'P. de Vries', 'PRJ-017', '2025-08-01')`,
	); err != nil {
		return fmt.Errorf("seed usages: %w", err)
	}

	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
