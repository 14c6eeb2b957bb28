package primary

import "context"

// InspectionService defines the primary port for the inspection state
// machine: every operation that may change an item's inspection status.
type InspectionService interface {
	// RecordResult records an executed inspection: appends the history
	// entry, mirrors the result onto the item status and updates the
	// schedule, all atomically.
	RecordResult(ctx context.Context, req RecordResultRequest) (*HistoryEntry, error)

	// ScheduleInspection plans a future inspection for an item and marks
	// it scheduled.
	ScheduleInspection(ctx context.Context, req ScheduleRequest) error

	// EditSchedule updates the planned date of an existing schedule
	// without touching the item status.
	EditSchedule(ctx context.Context, req ScheduleRequest) error

	// WithdrawSchedule cancels a planned inspection. The item status is
	// cleared only when the item has no recorded history.
	WithdrawSchedule(ctx context.Context, serial, actor string) error

	// GetSchedule retrieves the current schedule for a serial, nil when
	// none exists.
	GetSchedule(ctx context.Context, serial string) (*Schedule, error)
}

// RecordResultRequest contains parameters for recording an inspection result.
type RecordResultRequest struct {
	EquipmentID    string
	Result         string // compliant, rejected or conditional
	PerformedOn    string // Required, 2006-01-02
	PerformedBy    string // Required
	NextDue        string // Optional, defaults to six months after PerformedOn
	Notes          string
	CertificateRef string // Optional attachment reference
}

// ScheduleRequest contains parameters for planning or editing a schedule.
type ScheduleRequest struct {
	Serial  string
	NextDue string // Required, 2006-01-02
	Notes   string
	Actor   string
}

// Schedule represents a schedule record at the port boundary.
type Schedule struct {
	Serial        string
	LastPerformed string
	NextDue       string
	PerformedBy   string
	Notes         string
}
