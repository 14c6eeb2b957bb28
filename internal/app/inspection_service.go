package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// InspectionServiceImpl implements the InspectionService interface: the
// state-machine entry points that may change an item's inspection status.
type InspectionServiceImpl struct {
	equipmentRepo secondary.EquipmentRepository
	scheduleRepo  secondary.ScheduleRepository
	historyRepo   secondary.HistoryRepository
	typeRepo      secondary.TypeRepository
	activityRepo  secondary.ActivityRepository
	txRunner      secondary.TransactionRunner

	now func() time.Time
}

// NewInspectionService creates a new InspectionService with injected dependencies.
func NewInspectionService(
	equipmentRepo secondary.EquipmentRepository,
	scheduleRepo secondary.ScheduleRepository,
	historyRepo secondary.HistoryRepository,
	typeRepo secondary.TypeRepository,
	activityRepo secondary.ActivityRepository,
	txRunner secondary.TransactionRunner,
) *InspectionServiceImpl {
	return &InspectionServiceImpl{
		equipmentRepo: equipmentRepo,
		scheduleRepo:  scheduleRepo,
		historyRepo:   historyRepo,
		typeRepo:      typeRepo,
		activityRepo:  activityRepo,
		txRunner:      txRunner,
		now:           time.Now,
	}
}

func (s *InspectionServiceImpl) validityDaysFor(ctx context.Context, typeName string) int {
	if typeName == "" || s.typeRepo == nil {
		return 0
	}
	t, err := s.typeRepo.GetByName(ctx, typeName)
	if err != nil || t == nil {
		return 0
	}
	return t.ValidityDays
}

// RecordResult records an executed inspection. The ledger append, the item
// status change and the schedule update commit atomically.
func (s *InspectionServiceImpl) RecordResult(ctx context.Context, req primary.RecordResultRequest) (*primary.HistoryEntry, error) {
	item, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}
	if req.PerformedBy == "" {
		return nil, inspection.Validationf("performer is required")
	}

	performedOn, err := parseDate("inspection date", req.PerformedOn)
	if err != nil {
		return nil, err
	}
	// An unparsable next-due date falls back to the six-month default
	// rather than failing the recording.
	nextDue, err := parseDate("next due date", req.NextDue)
	if err != nil {
		nextDue = time.Time{}
	}

	outcome, err := inspection.ApplyResult(inspection.RecordInput{
		Result:       inspection.Result(req.Result),
		PerformedOn:  performedOn,
		NextDue:      nextDue,
		ValidityDays: s.validityDaysFor(ctx, item.TypeName),
		Today:        dateOnly(s.now()),
	})
	if err != nil {
		return nil, err
	}

	entryID := uuid.NewString()
	err = s.txRunner.InTransaction(ctx, func(stores secondary.Stores) error {
		if err := stores.History.Append(ctx, &secondary.HistoryRecord{
			ID:             entryID,
			EquipmentID:    item.ID,
			Serial:         item.Serial,
			PerformedOn:    formatDate(outcome.LastPerformed),
			Result:         req.Result,
			PerformedBy:    req.PerformedBy,
			Notes:          req.Notes,
			NextDue:        formatDate(outcome.NextDue),
			CertificateRef: req.CertificateRef,
		}); err != nil {
			return err
		}
		if err := stores.Equipment.UpdateStatus(ctx, item.ID, string(outcome.Status)); err != nil {
			return err
		}
		if err := stores.Equipment.SetLastInspection(ctx, item.ID, formatDate(outcome.LastInspection)); err != nil {
			return err
		}
		return stores.Schedules.Upsert(ctx, &secondary.ScheduleRecord{
			Serial:        item.Serial,
			LastPerformed: formatDate(outcome.LastPerformed),
			NextDue:       formatDate(outcome.NextDue),
			PerformedBy:   req.PerformedBy,
			Notes:         req.Notes,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record inspection result: %w", err)
	}

	logActivity(ctx, s.activityRepo, "inspection recorded: "+req.Result, item.Name, item.Serial, req.PerformedBy)

	record, err := s.historyRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recorded entry: %w", err)
	}
	return recordToHistoryEntry(record), nil
}

// ScheduleInspection plans a future inspection and marks the item scheduled.
func (s *InspectionServiceImpl) ScheduleInspection(ctx context.Context, req primary.ScheduleRequest) error {
	item, err := s.equipmentRepo.GetBySerial(ctx, req.Serial)
	if err != nil {
		return err
	}
	nextDue, err := parseDate("planned date", req.NextDue)
	if err != nil {
		return err
	}
	if nextDue.IsZero() {
		return inspection.Validationf("planned date is required")
	}

	err = s.txRunner.InTransaction(ctx, func(stores secondary.Stores) error {
		existing, err := stores.Schedules.GetBySerial(ctx, req.Serial)
		if err != nil {
			return err
		}
		schedule := &secondary.ScheduleRecord{Serial: req.Serial, NextDue: req.NextDue, Notes: req.Notes}
		if existing != nil {
			schedule.LastPerformed = existing.LastPerformed
			schedule.PerformedBy = existing.PerformedBy
		}
		if err := stores.Schedules.Upsert(ctx, schedule); err != nil {
			return err
		}
		return stores.Equipment.UpdateStatus(ctx, item.ID, string(inspection.StatusScheduled))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule inspection: %w", err)
	}

	logActivity(ctx, s.activityRepo, "inspection planned for "+req.NextDue, item.Name, item.Serial, req.Actor)
	return nil
}

// EditSchedule changes the planned date of an existing schedule. Purely
// informational: the item status is not touched.
func (s *InspectionServiceImpl) EditSchedule(ctx context.Context, req primary.ScheduleRequest) error {
	item, err := s.equipmentRepo.GetBySerial(ctx, req.Serial)
	if err != nil {
		return err
	}
	nextDue, err := parseDate("planned date", req.NextDue)
	if err != nil {
		return err
	}
	if nextDue.IsZero() {
		return inspection.Validationf("planned date is required")
	}

	existing, err := s.scheduleRepo.GetBySerial(ctx, req.Serial)
	if err != nil {
		return fmt.Errorf("failed to load schedule: %w", err)
	}
	if existing == nil {
		return inspection.NotFound("schedule", req.Serial)
	}

	existing.NextDue = req.NextDue
	if req.Notes != "" {
		existing.Notes = req.Notes
	}
	if err := s.scheduleRepo.Upsert(ctx, existing); err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	logActivity(ctx, s.activityRepo, "planned date moved to "+req.NextDue, item.Name, item.Serial, req.Actor)
	return nil
}

// WithdrawSchedule cancels a planned inspection. Clears the schedule's
// next-due date only; the item status is cleared when no history exists,
// and the last-inspection date is never touched.
func (s *InspectionServiceImpl) WithdrawSchedule(ctx context.Context, serial, actor string) error {
	item, err := s.equipmentRepo.GetBySerial(ctx, serial)
	if err != nil {
		return err
	}

	err = s.txRunner.InTransaction(ctx, func(stores secondary.Stores) error {
		if err := stores.Schedules.ClearNextDue(ctx, serial); err != nil {
			return err
		}
		count, err := stores.History.CountFor(ctx, item.ID)
		if err != nil {
			return err
		}
		if inspection.ApplyWithdrawal(count) {
			return stores.Equipment.UpdateStatus(ctx, item.ID, string(inspection.StatusNone))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to withdraw schedule: %w", err)
	}

	logActivity(ctx, s.activityRepo, "planned inspection withdrawn", item.Name, item.Serial, actor)
	return nil
}

// GetSchedule retrieves the current schedule for a serial, nil when none.
func (s *InspectionServiceImpl) GetSchedule(ctx context.Context, serial string) (*primary.Schedule, error) {
	record, err := s.scheduleRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return &primary.Schedule{
		Serial:        record.Serial,
		LastPerformed: record.LastPerformed,
		NextDue:       record.NextDue,
		PerformedBy:   record.PerformedBy,
		Notes:         record.Notes,
	}, nil
}
