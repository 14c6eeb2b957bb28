package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// EquipmentServiceImpl implements the EquipmentService interface.
type EquipmentServiceImpl struct {
	equipmentRepo secondary.EquipmentRepository
	scheduleRepo  secondary.ScheduleRepository
	historyRepo   secondary.HistoryRepository
	typeRepo      secondary.TypeRepository
	usageRepo     secondary.UsageRepository
	activityRepo  secondary.ActivityRepository
	txRunner      secondary.TransactionRunner
	scanner       primary.ScannerService

	now func() time.Time
}

// NewEquipmentService creates a new EquipmentService with injected dependencies.
func NewEquipmentService(
	equipmentRepo secondary.EquipmentRepository,
	scheduleRepo secondary.ScheduleRepository,
	historyRepo secondary.HistoryRepository,
	typeRepo secondary.TypeRepository,
	usageRepo secondary.UsageRepository,
	activityRepo secondary.ActivityRepository,
	txRunner secondary.TransactionRunner,
	scanner primary.ScannerService,
) *EquipmentServiceImpl {
	return &EquipmentServiceImpl{
		equipmentRepo: equipmentRepo,
		scheduleRepo:  scheduleRepo,
		historyRepo:   historyRepo,
		typeRepo:      typeRepo,
		usageRepo:     usageRepo,
		activityRepo:  activityRepo,
		txRunner:      txRunner,
		scanner:       scanner,
		now:           time.Now,
	}
}

// validityDaysFor resolves the compliance window for a type name. Unknown
// types and lookup failures degrade to 0 (no window).
func (s *EquipmentServiceImpl) validityDaysFor(ctx context.Context, typeName string) int {
	if typeName == "" || s.typeRepo == nil {
		return 0
	}
	t, err := s.typeRepo.GetByName(ctx, typeName)
	if err != nil || t == nil {
		return 0
	}
	return t.ValidityDays
}

// RegisterEquipment registers a new equipment item. A creation-time last
// inspection is mirrored into the history ledger, idempotently, and may
// override the chosen status to expired.
func (s *EquipmentServiceImpl) RegisterEquipment(ctx context.Context, req primary.RegisterEquipmentRequest) (*primary.Equipment, error) {
	if req.Serial == "" {
		return nil, inspection.Validationf("serial is required")
	}
	if req.Name == "" {
		return nil, inspection.Validationf("name is required")
	}
	if existing, err := s.equipmentRepo.GetBySerial(ctx, req.Serial); err == nil && existing != nil {
		return nil, inspection.Validationf("serial %s already registered", req.Serial)
	}

	lastInspection, err := parseDate("last inspection date", req.LastInspection)
	if err != nil {
		return nil, err
	}
	if _, err := parseDate("purchase date", req.PurchaseDate); err != nil {
		return nil, err
	}

	outcome, err := inspection.ApplyCreation(inspection.CreationInput{
		InitialStatus:  inspection.Status(req.Status),
		LastInspection: lastInspection,
		ValidityDays:   s.validityDaysFor(ctx, req.TypeName),
		Today:          dateOnly(s.now()),
	})
	if err != nil {
		return nil, err
	}

	id, err := s.equipmentRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate equipment ID: %w", err)
	}

	err = s.txRunner.InTransaction(ctx, func(stores secondary.Stores) error {
		if err := stores.Equipment.Create(ctx, &secondary.EquipmentRecord{
			ID:             id,
			Serial:         req.Serial,
			Name:           req.Name,
			TypeName:       req.TypeName,
			ProjectID:      req.ProjectID,
			Site:           req.Site,
			Status:         string(outcome.Status),
			LastInspection: req.LastInspection,
			PurchaseDate:   req.PurchaseDate,
			Notes:          req.Notes,
		}); err != nil {
			return err
		}

		if outcome.MirrorResult == "" {
			return nil
		}
		exists, err := stores.History.Exists(ctx, id, req.LastInspection, string(outcome.MirrorResult))
		if err != nil {
			return fmt.Errorf("failed to check mirror entry: %w", err)
		}
		if exists {
			return nil
		}
		return stores.History.Append(ctx, &secondary.HistoryRecord{
			ID:          uuid.NewString(),
			EquipmentID: id,
			Serial:      req.Serial,
			PerformedOn: req.LastInspection,
			Result:      string(outcome.MirrorResult),
			PerformedBy: req.Actor,
			NextDue:     formatDate(inspection.DefaultNextDue(lastInspection)),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register equipment: %w", err)
	}

	logActivity(ctx, s.activityRepo, "equipment registered", req.Name, req.Serial, req.Actor)

	return s.GetEquipment(ctx, id)
}

// GetEquipment retrieves an item by ID.
func (s *EquipmentServiceImpl) GetEquipment(ctx context.Context, id string) (*primary.Equipment, error) {
	record, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toEquipment(ctx, record), nil
}

// GetEquipmentBySerial retrieves an item by serial number.
func (s *EquipmentServiceImpl) GetEquipmentBySerial(ctx context.Context, serial string) (*primary.Equipment, error) {
	record, err := s.equipmentRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	return s.toEquipment(ctx, record), nil
}

// ListEquipment lists non-deleted items with optional filters.
func (s *EquipmentServiceImpl) ListEquipment(ctx context.Context, filters primary.EquipmentFilters) ([]*primary.Equipment, error) {
	records, err := s.equipmentRepo.List(ctx, secondary.EquipmentFilters{
		Search:   filters.Search,
		TypeName: filters.TypeName,
		Status:   filters.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}

	items := make([]*primary.Equipment, len(records))
	for i, r := range records {
		items[i] = s.toEquipment(ctx, r)
	}
	return items, nil
}

// UpdateEquipment updates the descriptive fields of an item.
func (s *EquipmentServiceImpl) UpdateEquipment(ctx context.Context, req primary.UpdateEquipmentRequest) error {
	record, err := s.equipmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if req.Name == "" {
		return inspection.Validationf("name is required")
	}

	record.Name = req.Name
	record.TypeName = req.TypeName
	record.ProjectID = req.ProjectID
	record.Site = req.Site
	record.Notes = req.Notes

	if err := s.equipmentRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}

	logActivity(ctx, s.activityRepo, "equipment updated", record.Name, record.Serial, req.Actor)
	return nil
}

// DeleteEquipment soft-deletes an item.
func (s *EquipmentServiceImpl) DeleteEquipment(ctx context.Context, id, actor string) error {
	record, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.equipmentRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	logActivity(ctx, s.activityRepo, "equipment removed", record.Name, record.Serial, actor)
	return nil
}

// AssignEquipment opens a usage assignment for an item.
func (s *EquipmentServiceImpl) AssignEquipment(ctx context.Context, req primary.AssignEquipmentRequest) error {
	record, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return err
	}
	if req.AssignedTo == "" {
		return inspection.Validationf("assignee is required")
	}
	startDate := req.StartDate
	if startDate == "" {
		startDate = formatDate(s.now())
	} else if _, err := parseDate("start date", startDate); err != nil {
		return err
	}

	if err := s.usageRepo.Create(ctx, &secondary.UsageRecord{
		ID:          uuid.NewString(),
		EquipmentID: req.EquipmentID,
		AssignedTo:  req.AssignedTo,
		ProjectID:   req.ProjectID,
		StartDate:   startDate,
		Notes:       req.Notes,
	}); err != nil {
		return fmt.Errorf("failed to assign equipment: %w", err)
	}

	logActivity(ctx, s.activityRepo, "equipment assigned to "+req.AssignedTo, record.Name, record.Serial, req.Actor)
	return nil
}

// ReleaseEquipment closes the open usage assignments of an item.
func (s *EquipmentServiceImpl) ReleaseEquipment(ctx context.Context, id, endDate, actor string) error {
	record, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if endDate == "" {
		endDate = formatDate(s.now())
	} else if _, err := parseDate("end date", endDate); err != nil {
		return err
	}

	closed, err := s.usageRepo.EndActive(ctx, id, endDate)
	if err != nil {
		return fmt.Errorf("failed to release equipment: %w", err)
	}
	if closed == 0 {
		return inspection.Validationf("equipment %s has no active assignment", id)
	}

	logActivity(ctx, s.activityRepo, "equipment released", record.Name, record.Serial, actor)
	return nil
}

// DashboardCounts returns the aggregate counters for the overview. Runs the
// expiry scanner first so stale statuses are normalized before counting.
func (s *EquipmentServiceImpl) DashboardCounts(ctx context.Context) (*primary.DashboardCounts, error) {
	if s.scanner != nil {
		if _, err := s.scanner.Scan(ctx, primary.ScanRequest{Actor: "dashboard"}); err != nil {
			slog.Warn("expiry scan before dashboard failed", "error", err)
		}
	}

	counts := &primary.DashboardCounts{}
	var err error

	if counts.Total, err = s.equipmentRepo.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to count equipment: %w", err)
	}
	statusCounts := []struct {
		dst    *int
		status string
	}{
		{&counts.Compliant, "compliant"},
		{&counts.Rejected, "rejected"},
		{&counts.Expired, "expired"},
		{&counts.Conditional, "conditional"},
		{&counts.Scheduled, "scheduled"},
	}
	for _, sc := range statusCounts {
		if *sc.dst, err = s.equipmentRepo.CountByStatuses(ctx, sc.status); err != nil {
			return nil, fmt.Errorf("failed to count %s equipment: %w", sc.status, err)
		}
	}

	active, err := s.usageRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active usages: %w", err)
	}
	inUse := make(map[string]bool)
	for _, u := range active {
		inUse[u.EquipmentID] = true
	}
	counts.InUse = len(inUse)

	today := s.now()
	counts.DueSoon, err = s.scheduleRepo.CountDueBetween(ctx, formatDate(today), formatDate(today.AddDate(0, 0, 30)))
	if err != nil {
		return nil, fmt.Errorf("failed to count due schedules: %w", err)
	}
	overdue, err := s.scheduleRepo.ListOverdue(ctx, formatDate(today))
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue schedules: %w", err)
	}
	counts.Overdue = len(overdue)

	return counts, nil
}

// toEquipment maps a record to the port type, joining the schedule's
// next-due date and the active usage flag. Lookup failures degrade to
// absent values rather than failing the read.
func (s *EquipmentServiceImpl) toEquipment(ctx context.Context, r *secondary.EquipmentRecord) *primary.Equipment {
	item := &primary.Equipment{
		ID:             r.ID,
		Serial:         r.Serial,
		Name:           r.Name,
		TypeName:       r.TypeName,
		ProjectID:      r.ProjectID,
		Site:           r.Site,
		Status:         r.Status,
		LastInspection: r.LastInspection,
		PurchaseDate:   r.PurchaseDate,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if schedule, err := s.scheduleRepo.GetBySerial(ctx, r.Serial); err == nil && schedule != nil {
		item.NextDue = schedule.NextDue
	}
	if active, err := s.usageRepo.ActiveFor(ctx, r.ID); err == nil {
		item.ActivelyUsed = active
	}
	return item
}
