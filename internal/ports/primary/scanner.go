package primary

import "context"

// ScannerService defines the primary port for the expiry scanner: the
// idempotent batch correction over the whole fleet.
type ScannerService interface {
	// Scan runs the two scanner passes: flip past-due never-performed
	// schedules to expired, then flip compliant items whose validity
	// window has lapsed. Other statuses are never touched.
	Scan(ctx context.Context, req ScanRequest) (*ScanReport, error)
}

// ScanRequest contains parameters for a scanner run.
type ScanRequest struct {
	DryRun bool   // report what would change without writing
	Actor  string // recorded in the activity log
}

// ScanReport summarises one scanner run.
type ScanReport struct {
	Examined int          // items and schedules considered
	Expired  []ScanChange // changes applied (or proposed, when dry-run)
	DryRun   bool
}

// ScanChange describes one item the scanner flipped to expired.
type ScanChange struct {
	EquipmentID string
	Serial      string
	Name        string
	FromStatus  string
	Reason      string // overdue schedule or lapsed validity window
}
