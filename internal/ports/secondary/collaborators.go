package secondary

import "context"

// UsageRepository defines the secondary port for usage assignments: which
// items are checked out to a person or project right now.
type UsageRepository interface {
	// Create records a new usage assignment.
	Create(ctx context.Context, u *UsageRecord) error

	// EndActive closes all open assignments for an item by setting their
	// end date. Returns the number of assignments closed.
	EndActive(ctx context.Context, equipmentID, endDate string) (int, error)

	// ActiveFor reports whether an item has at least one open assignment.
	ActiveFor(ctx context.Context, equipmentID string) (bool, error)

	// ListActive retrieves all open assignments, most recent first.
	ListActive(ctx context.Context) ([]*UsageRecord, error)

	// ListFor retrieves all assignments for an item, most recent first.
	ListFor(ctx context.Context, equipmentID string) ([]*UsageRecord, error)
}

// UsageRecord represents one usage assignment. An empty EndDate means the
// assignment is still open.
type UsageRecord struct {
	ID          string
	EquipmentID string
	AssignedTo  string
	ProjectID   string
	StartDate   string
	EndDate     string
	Notes       string
	CreatedAt   string
}

// CertificateResolver resolves a stored certificate reference to something
// a caller can open, typically a filesystem path or URL.
type CertificateResolver interface {
	// Resolve turns a certificate reference into an openable location.
	// Returns an empty string when the reference is unknown.
	Resolve(ref string) (string, error)
}
