// Package primary defines the primary ports (driving adapters) of the
// inspection engine: the service interfaces the CLI and HTTP API call into,
// with their request and response types.
package primary

import "context"

// EquipmentService defines the primary port for equipment operations.
type EquipmentService interface {
	// RegisterEquipment registers a new equipment item, mirrors a
	// creation-time last inspection into history, and applies the initial
	// status rules.
	RegisterEquipment(ctx context.Context, req RegisterEquipmentRequest) (*Equipment, error)

	// GetEquipment retrieves an item by ID.
	GetEquipment(ctx context.Context, id string) (*Equipment, error)

	// GetEquipmentBySerial retrieves an item by serial number.
	GetEquipmentBySerial(ctx context.Context, serial string) (*Equipment, error)

	// ListEquipment lists non-deleted items with optional filters.
	ListEquipment(ctx context.Context, filters EquipmentFilters) ([]*Equipment, error)

	// UpdateEquipment updates the descriptive fields of an item.
	UpdateEquipment(ctx context.Context, req UpdateEquipmentRequest) error

	// DeleteEquipment soft-deletes an item.
	DeleteEquipment(ctx context.Context, id, actor string) error

	// AssignEquipment opens a usage assignment for an item.
	AssignEquipment(ctx context.Context, req AssignEquipmentRequest) error

	// ReleaseEquipment closes the open usage assignments of an item.
	ReleaseEquipment(ctx context.Context, id, endDate, actor string) error

	// DashboardCounts returns the aggregate counters for the overview.
	DashboardCounts(ctx context.Context) (*DashboardCounts, error)
}

// RegisterEquipmentRequest contains parameters for registering an item.
type RegisterEquipmentRequest struct {
	Serial         string
	Name           string
	TypeName       string // Optional
	ProjectID      string // Optional
	Site           string // Optional
	Status         string // Initial inspection status: compliant, rejected or conditional
	LastInspection string // Optional, 2006-01-02
	PurchaseDate   string // Optional
	Notes          string
	Actor          string
}

// UpdateEquipmentRequest contains parameters for updating an item.
type UpdateEquipmentRequest struct {
	ID        string
	Name      string
	TypeName  string
	ProjectID string
	Site      string
	Notes     string
	Actor     string
}

// AssignEquipmentRequest contains parameters for opening a usage assignment.
type AssignEquipmentRequest struct {
	EquipmentID string
	AssignedTo  string
	ProjectID   string // Optional
	StartDate   string
	Notes       string
	Actor       string
}

// Equipment represents an equipment item at the port boundary.
type Equipment struct {
	ID             string
	Serial         string
	Name           string
	TypeName       string
	ProjectID      string
	Site           string
	Status         string
	LastInspection string
	NextDue        string
	PurchaseDate   string
	Notes          string
	ActivelyUsed   bool
	CreatedAt      string
	UpdatedAt      string
}

// EquipmentFilters contains filter options for listing equipment.
type EquipmentFilters struct {
	Search   string
	TypeName string
	Status   string
}

// DashboardCounts holds the aggregate counters shown on the overview.
type DashboardCounts struct {
	Total       int
	Compliant   int
	Rejected    int
	Expired     int
	Conditional int
	Scheduled   int
	InUse       int
	DueSoon     int // due within the next 30 days
	Overdue     int // planned and past due, never performed
}
