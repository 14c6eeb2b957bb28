package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

func newScannerFixture() (*ScannerServiceImpl, *mockEquipmentRepository, *mockScheduleRepository, *mockTypeRepository) {
	equipment := newMockEquipmentRepository()
	schedules := newMockScheduleRepository()
	history := newMockHistoryRepository()
	types := newMockTypeRepository()
	activity := newMockActivityRepository()
	tx := newMockTxRunner(equipment, schedules, history)

	svc := NewScannerService(equipment, schedules, types, activity, tx)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, equipment, schedules, types
}

func TestScanFlipsOverduePlannedInspection(t *testing.T) {
	svc, equipment, schedules, _ := newScannerFixture()
	ctx := context.Background()

	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Hoist", Status: "compliant"})
	schedules.Upsert(ctx, &secondary.ScheduleRecord{Serial: "SN-1", NextDue: "2024-02-01"})

	report, err := svc.Scan(ctx, primary.ScanRequest{Actor: "tester"})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Expired) != 1 {
		t.Fatalf("expected 1 expired item, got %d", len(report.Expired))
	}
	if report.Expired[0].EquipmentID != "EQ-001" {
		t.Errorf("expected EQ-001 to expire, got %s", report.Expired[0].EquipmentID)
	}

	item, _ := equipment.GetByID(ctx, "EQ-001")
	if item.Status != "expired" {
		t.Errorf("expected status expired, got %s", item.Status)
	}
}

func TestScanIgnoresPerformedSchedules(t *testing.T) {
	svc, equipment, schedules, _ := newScannerFixture()
	ctx := context.Background()

	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Hoist", Status: "compliant", LastInspection: "2024-02-10"})
	schedules.Upsert(ctx, &secondary.ScheduleRecord{Serial: "SN-1", NextDue: "2024-02-01", LastPerformed: "2024-02-10"})

	report, err := svc.Scan(ctx, primary.ScanRequest{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Expired) != 0 {
		t.Fatalf("expected no expirations, got %d", len(report.Expired))
	}
}

func TestScanValidityWindowLapsed(t *testing.T) {
	svc, equipment, _, types := newScannerFixture()
	ctx := context.Background()

	types.Create(ctx, &secondary.TypeRecord{ID: "t1", Name: "ladder", ValidityDays: 365})
	// Lapsed: 2022-01-15 + 365 days is long past 2024-03-01.
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Old ladder", TypeName: "ladder", Status: "compliant", LastInspection: "2022-01-15"})
	// Still inside the window.
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-002", Serial: "SN-2", Name: "Fresh ladder", TypeName: "ladder", Status: "compliant", LastInspection: "2024-01-15"})
	// No validity window configured for its type.
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-003", Serial: "SN-3", Name: "Shovel", TypeName: "shovel", Status: "compliant", LastInspection: "2020-01-01"})

	report, err := svc.Scan(ctx, primary.ScanRequest{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Expired) != 1 {
		t.Fatalf("expected 1 expiration, got %d", len(report.Expired))
	}
	if report.Expired[0].EquipmentID != "EQ-001" {
		t.Errorf("expected EQ-001 to expire, got %s", report.Expired[0].EquipmentID)
	}

	fresh, _ := equipment.GetByID(ctx, "EQ-002")
	if fresh.Status != "compliant" {
		t.Errorf("in-window item flipped to %s", fresh.Status)
	}
	noWindow, _ := equipment.GetByID(ctx, "EQ-003")
	if noWindow.Status != "compliant" {
		t.Errorf("item without validity window flipped to %s", noWindow.Status)
	}
}

func TestScanPurchaseDateFallbackBackfillsLastInspection(t *testing.T) {
	svc, equipment, _, types := newScannerFixture()
	ctx := context.Background()

	types.Create(ctx, &secondary.TypeRecord{ID: "t1", Name: "harness", ValidityDays: 180})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Harness", TypeName: "harness", Status: "compliant", PurchaseDate: "2023-05-01"})

	report, err := svc.Scan(ctx, primary.ScanRequest{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Expired) != 1 {
		t.Fatalf("expected 1 expiration via purchase-date fallback, got %d", len(report.Expired))
	}

	item, _ := equipment.GetByID(ctx, "EQ-001")
	if item.Status != "expired" {
		t.Errorf("expected status expired, got %s", item.Status)
	}
	if item.LastInspection != "2023-05-01" {
		t.Errorf("expected last inspection backfilled to purchase date, got %q", item.LastInspection)
	}
}

func TestScanLeavesItemsUntouchedOnTheExpiryDayItself(t *testing.T) {
	svc, equipment, schedules, types := newScannerFixture()
	ctx := context.Background()

	// The fixture clock reads 2024-03-01 12:00. A 30-day window opened on
	// 2024-01-31 closes exactly today; expiry is strictly past at date
	// granularity, so the wall-clock time must not tip it over.
	types.Create(ctx, &secondary.TypeRecord{ID: "t1", Name: "ladder", ValidityDays: 30})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Ladder", TypeName: "ladder", Status: "compliant", LastInspection: "2024-01-31"})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-002", Serial: "SN-2", Name: "Hoist", Status: "compliant"})
	schedules.Upsert(ctx, &secondary.ScheduleRecord{Serial: "SN-2", NextDue: "2024-03-01"})

	report, err := svc.Scan(ctx, primary.ScanRequest{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Expired) != 0 {
		t.Fatalf("items expired on their exact expiry day: %+v", report.Expired)
	}

	// One day later both flip.
	svc.now = func() time.Time { return time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC) }
	report, err = svc.Scan(ctx, primary.ScanRequest{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Expired) != 2 {
		t.Fatalf("expected 2 expirations the day after, got %d", len(report.Expired))
	}
}

func TestScanNeverTouchesRejected(t *testing.T) {
	svc, equipment, schedules, types := newScannerFixture()
	ctx := context.Background()

	types.Create(ctx, &secondary.TypeRecord{ID: "t1", Name: "ladder", ValidityDays: 30})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Bad ladder", TypeName: "ladder", Status: "rejected", LastInspection: "2023-01-01"})
	schedules.Upsert(ctx, &secondary.ScheduleRecord{Serial: "SN-1", NextDue: "2023-06-01"})

	report, err := svc.Scan(ctx, primary.ScanRequest{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Expired) != 0 {
		t.Fatalf("rejected item was expired: %+v", report.Expired)
	}
	item, _ := equipment.GetByID(ctx, "EQ-001")
	if item.Status != "rejected" {
		t.Errorf("expected status rejected, got %s", item.Status)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	svc, equipment, schedules, types := newScannerFixture()
	ctx := context.Background()

	types.Create(ctx, &secondary.TypeRecord{ID: "t1", Name: "ladder", ValidityDays: 365})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Ladder", TypeName: "ladder", Status: "compliant", LastInspection: "2022-01-01"})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-002", Serial: "SN-2", Name: "Hoist", Status: "compliant"})
	schedules.Upsert(ctx, &secondary.ScheduleRecord{Serial: "SN-2", NextDue: "2024-01-01"})

	first, err := svc.Scan(ctx, primary.ScanRequest{})
	if err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}
	if len(first.Expired) != 2 {
		t.Fatalf("expected 2 expirations on first run, got %d", len(first.Expired))
	}

	second, err := svc.Scan(ctx, primary.ScanRequest{})
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}
	if len(second.Expired) != 0 {
		t.Fatalf("second run expired %d items, expected 0", len(second.Expired))
	}
}

func TestScanDryRunAppliesNothing(t *testing.T) {
	svc, equipment, schedules, _ := newScannerFixture()
	ctx := context.Background()

	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Hoist", Status: "compliant"})
	schedules.Upsert(ctx, &secondary.ScheduleRecord{Serial: "SN-1", NextDue: "2024-01-01"})

	report, err := svc.Scan(ctx, primary.ScanRequest{DryRun: true})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Expired) != 1 {
		t.Fatalf("dry run should report the pending expiration, got %d", len(report.Expired))
	}
	if !report.DryRun {
		t.Error("report should be marked as dry run")
	}

	item, _ := equipment.GetByID(ctx, "EQ-001")
	if item.Status != "compliant" {
		t.Errorf("dry run changed status to %s", item.Status)
	}
}
