package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// ScannerServiceImpl implements the ScannerService interface: the batch
// correction that flips stale compliant items to expired. Safe to run on
// every read path; re-running yields the same state.
type ScannerServiceImpl struct {
	equipmentRepo secondary.EquipmentRepository
	scheduleRepo  secondary.ScheduleRepository
	typeRepo      secondary.TypeRepository
	activityRepo  secondary.ActivityRepository
	txRunner      secondary.TransactionRunner

	now func() time.Time
}

// NewScannerService creates a new ScannerService with injected dependencies.
func NewScannerService(
	equipmentRepo secondary.EquipmentRepository,
	scheduleRepo secondary.ScheduleRepository,
	typeRepo secondary.TypeRepository,
	activityRepo secondary.ActivityRepository,
	txRunner secondary.TransactionRunner,
) *ScannerServiceImpl {
	return &ScannerServiceImpl{
		equipmentRepo: equipmentRepo,
		scheduleRepo:  scheduleRepo,
		typeRepo:      typeRepo,
		activityRepo:  activityRepo,
		txRunner:      txRunner,
		now:           time.Now,
	}
}

// Scan runs the two scanner passes. Compliant is the only status the
// scanner overwrites; everything else, including a previous expired, is
// left untouched.
func (s *ScannerServiceImpl) Scan(ctx context.Context, req primary.ScanRequest) (*primary.ScanReport, error) {
	today := dateOnly(s.now())
	report := &primary.ScanReport{DryRun: req.DryRun}

	changes, backfills, err := s.collect(ctx, today, report)
	if err != nil {
		return nil, err
	}
	report.Expired = changes

	if req.DryRun || (len(changes) == 0 && len(backfills) == 0) {
		return report, nil
	}

	err = s.txRunner.InTransaction(ctx, func(stores secondary.Stores) error {
		for _, c := range changes {
			if err := stores.Equipment.UpdateStatus(ctx, c.EquipmentID, string(inspection.StatusExpired)); err != nil {
				return err
			}
		}
		// Fallback-date backfills keep future scans consistent; they do
		// not count as transitions.
		for id, date := range backfills {
			if err := stores.Equipment.SetLastInspection(ctx, id, date); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply expiry scan: %w", err)
	}

	for _, c := range changes {
		logActivity(ctx, s.activityRepo, "auto-expired: "+c.Reason, c.Name, c.Serial, req.Actor)
	}
	slog.Info("expiry scan applied", "expired", len(changes), "examined", report.Examined)

	return report, nil
}

// collect runs both passes read-only and returns the transitions plus the
// last-inspection backfills keyed by equipment ID.
func (s *ScannerServiceImpl) collect(ctx context.Context, today time.Time, report *primary.ScanReport) ([]primary.ScanChange, map[string]string, error) {
	var changes []primary.ScanChange
	flipped := make(map[string]bool)
	backfills := make(map[string]string)

	// Pass 1: planned past due, never performed. The repository query is a
	// prefilter; the rule itself lives in the core transition function.
	overdue, err := s.scheduleRepo.ListOverdue(ctx, formatDate(today))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list overdue schedules: %w", err)
	}
	for _, schedule := range overdue {
		report.Examined++
		nextDue, err := parseDate("next due date", schedule.NextDue)
		if err != nil {
			continue
		}
		lastPerformed, err := parseDate("last performed date", schedule.LastPerformed)
		if err != nil {
			continue
		}
		if !inspection.ScheduleOverdue(nextDue, lastPerformed, today) {
			continue
		}
		item, err := s.equipmentRepo.GetBySerial(ctx, schedule.Serial)
		if err != nil {
			// Orphaned schedule rows are skipped, not fatal.
			continue
		}
		if item.Status != string(inspection.StatusCompliant) {
			continue
		}
		flipped[item.ID] = true
		changes = append(changes, primary.ScanChange{
			EquipmentID: item.ID,
			Serial:      item.Serial,
			Name:        item.Name,
			FromStatus:  item.Status,
			Reason:      "planned inspection overdue since " + schedule.NextDue,
		})
	}

	// Pass 2: validity window lapsed.
	windows := map[string]int{}
	if s.typeRepo != nil {
		if w, err := s.typeRepo.ValidityDays(ctx); err == nil {
			windows = w
		}
	}
	compliant, err := s.equipmentRepo.ListByStatus(ctx, string(inspection.StatusCompliant))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list compliant equipment: %w", err)
	}
	for _, item := range compliant {
		report.Examined++
		if flipped[item.ID] {
			continue
		}
		validityDays := windows[item.TypeName]
		if validityDays <= 0 {
			continue
		}

		baseDate := item.LastInspection
		if baseDate == "" {
			baseDate = item.PurchaseDate
			if baseDate != "" {
				backfills[item.ID] = baseDate
			}
		}
		base, err := parseDate("base date", baseDate)
		if err != nil || base.IsZero() {
			continue
		}

		if inspection.ShouldExpire(inspection.Status(item.Status), base, validityDays, today) {
			changes = append(changes, primary.ScanChange{
				EquipmentID: item.ID,
				Serial:      item.Serial,
				Name:        item.Name,
				FromStatus:  item.Status,
				Reason:      fmt.Sprintf("validity window of %d days lapsed", validityDays),
			})
		}
	}

	return changes, backfills, nil
}
