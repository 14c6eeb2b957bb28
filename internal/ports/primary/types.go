package primary

import "context"

// TypeService defines the primary port for the equipment type registry.
type TypeService interface {
	// CreateType registers a new equipment type with its validity window.
	CreateType(ctx context.Context, req TypeRequest) (*EquipmentType, error)

	// UpdateType updates an existing equipment type.
	UpdateType(ctx context.Context, req TypeRequest) error

	// GetType retrieves a type by name.
	GetType(ctx context.Context, name string) (*EquipmentType, error)

	// ListTypes lists all types ordered by name.
	ListTypes(ctx context.Context) ([]*EquipmentType, error)
}

// TypeRequest contains parameters for creating or updating a type.
type TypeRequest struct {
	Name         string
	Description  string
	ValidityDays int // 0 disables expiry for items of this type
	Actor        string
}

// EquipmentType represents an equipment type at the port boundary.
type EquipmentType struct {
	ID           string
	Name         string
	Description  string
	ValidityDays int
	CreatedAt    string
	UpdatedAt    string
}

// ActivityService defines the primary port for reading the activity log.
type ActivityService interface {
	// ListActivity retrieves activity entries matching the filters,
	// most recent first.
	ListActivity(ctx context.Context, filters ActivityFilters) ([]*Activity, error)

	// ListActors returns the distinct actor names, for filter facets.
	ListActors(ctx context.Context) ([]string, error)
}

// ActivityFilters contains filter options for the activity log.
type ActivityFilters struct {
	Search string
	Actor  string
	Since  string // inclusive lower bound, 2006-01-02
	Action string
	Limit  int
}

// Activity represents one activity log entry at the port boundary.
type Activity struct {
	ID        string
	Action    string
	Name      string
	Serial    string
	Actor     string
	CreatedAt string
}
