package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

func newEquipmentFixture() (*EquipmentServiceImpl, *mockEquipmentRepository, *mockScheduleRepository, *mockHistoryRepository, *mockTypeRepository, *mockUsageRepository) {
	equipment := newMockEquipmentRepository()
	schedules := newMockScheduleRepository()
	history := newMockHistoryRepository()
	types := newMockTypeRepository()
	usages := newMockUsageRepository()
	activity := newMockActivityRepository()
	tx := newMockTxRunner(equipment, schedules, history)

	svc := NewEquipmentService(equipment, schedules, history, types, usages, activity, tx, noopScanner{})
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, equipment, schedules, history, types, usages
}

func TestRegisterEquipmentMirrorsLastInspection(t *testing.T) {
	svc, _, _, history, _, _ := newEquipmentFixture()
	ctx := context.Background()

	item, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Serial:         "SN-1",
		Name:           "Hoist",
		Status:         "compliant",
		LastInspection: "2024-01-10",
		Actor:          "tester",
	})
	if err != nil {
		t.Fatalf("RegisterEquipment failed: %v", err)
	}
	if item.Status != "compliant" {
		t.Errorf("expected status compliant, got %s", item.Status)
	}

	entries, _ := history.ListFor(ctx, item.ID)
	if len(entries) != 1 {
		t.Fatalf("expected 1 mirrored history entry, got %d", len(entries))
	}
	if entries[0].PerformedOn != "2024-01-10" || entries[0].Result != "compliant" {
		t.Errorf("unexpected mirror entry: %+v", entries[0])
	}
	if entries[0].NextDue != "2024-07-10" {
		t.Errorf("expected mirrored next due 2024-07-10, got %s", entries[0].NextDue)
	}
}

func TestRegisterEquipmentWithoutLastInspectionSkipsMirror(t *testing.T) {
	svc, _, _, history, _, _ := newEquipmentFixture()
	ctx := context.Background()

	item, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Serial: "SN-1",
		Name:   "Hoist",
		Status: "conditional",
	})
	if err != nil {
		t.Fatalf("RegisterEquipment failed: %v", err)
	}
	if count, _ := history.CountFor(ctx, item.ID); count != 0 {
		t.Errorf("expected no mirror entry, got %d", count)
	}
}

func TestRegisterEquipmentExpiredOverride(t *testing.T) {
	svc, _, _, _, types, _ := newEquipmentFixture()
	ctx := context.Background()

	types.Create(ctx, &secondary.TypeRecord{ID: "t1", Name: "ladder", ValidityDays: 30})

	item, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Serial:         "SN-1",
		Name:           "Old ladder",
		TypeName:       "ladder",
		Status:         "compliant",
		LastInspection: "2023-06-01",
	})
	if err != nil {
		t.Fatalf("RegisterEquipment failed: %v", err)
	}
	if item.Status != "expired" {
		t.Errorf("expected the stale inspection to override to expired, got %s", item.Status)
	}
}

func TestRegisterEquipmentNotExpiredOnTheExpiryDayItself(t *testing.T) {
	svc, _, _, _, types, _ := newEquipmentFixture()
	ctx := context.Background()

	// 2024-01-31 + 30 days is exactly today (2024-03-01); the override
	// fires only when the window is strictly past at date granularity.
	types.Create(ctx, &secondary.TypeRecord{ID: "t1", Name: "ladder", ValidityDays: 30})

	item, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Serial:         "SN-1",
		Name:           "Ladder",
		TypeName:       "ladder",
		Status:         "compliant",
		LastInspection: "2024-01-31",
	})
	if err != nil {
		t.Fatalf("RegisterEquipment failed: %v", err)
	}
	if item.Status != "compliant" {
		t.Errorf("expected status compliant on the exact expiry day, got %s", item.Status)
	}
}

func TestRegisterEquipmentValidation(t *testing.T) {
	svc, _, _, _, _, _ := newEquipmentFixture()
	ctx := context.Background()

	if _, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Serial: "SN-1", Name: "Hoist", Status: "scheduled",
	}); !inspection.IsValidation(err) {
		t.Errorf("expected validation error for scheduled initial status, got %v", err)
	}

	if _, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Serial: "SN-1", Name: "Hoist", Status: "compliant", LastInspection: "2025-01-01",
	}); !inspection.IsValidation(err) {
		t.Errorf("expected validation error for future last inspection, got %v", err)
	}

	if _, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Name: "Hoist", Status: "compliant",
	}); !inspection.IsValidation(err) {
		t.Errorf("expected validation error for missing serial, got %v", err)
	}
}

func TestRegisterEquipmentRejectsDuplicateSerial(t *testing.T) {
	svc, _, _, _, _, _ := newEquipmentFixture()
	ctx := context.Background()

	if _, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Serial: "SN-1", Name: "Hoist", Status: "compliant",
	}); err != nil {
		t.Fatalf("RegisterEquipment failed: %v", err)
	}

	_, err := svc.RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
		Serial: "SN-1", Name: "Another hoist", Status: "compliant",
	})
	if !inspection.IsValidation(err) {
		t.Errorf("expected validation error for duplicate serial, got %v", err)
	}
}

func TestReleaseEquipmentWithoutAssignmentFails(t *testing.T) {
	svc, equipment, _, _, _, usages := newEquipmentFixture()
	ctx := context.Background()

	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Hoist"})

	if err := svc.ReleaseEquipment(ctx, "EQ-001", "", "tester"); !inspection.IsValidation(err) {
		t.Errorf("expected validation error without active assignment, got %v", err)
	}

	usages.Create(ctx, &secondary.UsageRecord{ID: "u1", EquipmentID: "EQ-001", AssignedTo: "Piet", StartDate: "2024-02-01"})
	if err := svc.ReleaseEquipment(ctx, "EQ-001", "", "tester"); err != nil {
		t.Fatalf("ReleaseEquipment failed: %v", err)
	}
	if active, _ := usages.ActiveFor(ctx, "EQ-001"); active {
		t.Error("assignment still active after release")
	}
}

func TestDashboardCounts(t *testing.T) {
	svc, equipment, schedules, _, _, usages := newEquipmentFixture()
	ctx := context.Background()

	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "A", Status: "compliant"})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-002", Serial: "SN-2", Name: "B", Status: "compliant"})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-003", Serial: "SN-3", Name: "C", Status: "rejected"})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-004", Serial: "SN-4", Name: "D", Status: "expired"})
	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-005", Serial: "SN-5", Name: "E", Status: "scheduled", Deleted: true})

	schedules.Upsert(ctx, &secondary.ScheduleRecord{Serial: "SN-1", NextDue: "2024-03-15"})
	schedules.Upsert(ctx, &secondary.ScheduleRecord{Serial: "SN-2", NextDue: "2024-02-01"})

	usages.Create(ctx, &secondary.UsageRecord{ID: "u1", EquipmentID: "EQ-001", AssignedTo: "Piet", StartDate: "2024-02-01"})
	usages.Create(ctx, &secondary.UsageRecord{ID: "u2", EquipmentID: "EQ-001", AssignedTo: "Jan", StartDate: "2024-02-10"})

	counts, err := svc.DashboardCounts(ctx)
	if err != nil {
		t.Fatalf("DashboardCounts failed: %v", err)
	}
	if counts.Total != 4 {
		t.Errorf("expected total 4 (soft-deleted excluded), got %d", counts.Total)
	}
	if counts.Compliant != 2 || counts.Rejected != 1 || counts.Expired != 1 || counts.Scheduled != 0 {
		t.Errorf("unexpected status counts: %+v", counts)
	}
	if counts.InUse != 1 {
		t.Errorf("expected 1 item in use (deduplicated), got %d", counts.InUse)
	}
	if counts.DueSoon != 1 {
		t.Errorf("expected 1 due soon, got %d", counts.DueSoon)
	}
	if counts.Overdue != 1 {
		t.Errorf("expected 1 overdue, got %d", counts.Overdue)
	}
}

func TestUpdateEquipmentRequiresName(t *testing.T) {
	svc, equipment, _, _, _, _ := newEquipmentFixture()
	ctx := context.Background()

	equipment.Create(ctx, &secondary.EquipmentRecord{ID: "EQ-001", Serial: "SN-1", Name: "Hoist"})

	if err := svc.UpdateEquipment(ctx, primary.UpdateEquipmentRequest{ID: "EQ-001"}); !inspection.IsValidation(err) {
		t.Errorf("expected validation error for missing name, got %v", err)
	}
	if err := svc.UpdateEquipment(ctx, primary.UpdateEquipmentRequest{ID: "EQ-001", Name: "Renamed", Site: "Depot"}); err != nil {
		t.Fatalf("UpdateEquipment failed: %v", err)
	}

	item, _ := equipment.GetByID(ctx, "EQ-001")
	if item.Name != "Renamed" || item.Site != "Depot" {
		t.Errorf("update not applied: %+v", item)
	}
}
