// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the engine drives the
// record store and the external collaborators.
package secondary

import "context"

// EquipmentRepository defines the secondary port for equipment persistence.
type EquipmentRepository interface {
	// Create persists a new equipment item.
	Create(ctx context.Context, item *EquipmentRecord) error

	// GetByID retrieves an item by its ID. Soft-deleted items are excluded.
	GetByID(ctx context.Context, id string) (*EquipmentRecord, error)

	// GetBySerial retrieves an item by serial number. Soft-deleted items
	// are excluded.
	GetBySerial(ctx context.Context, serial string) (*EquipmentRecord, error)

	// Update updates name, type, project, site and notes of an item.
	Update(ctx context.Context, item *EquipmentRecord) error

	// UpdateStatus sets the inspection status of an item. An empty status
	// clears it.
	UpdateStatus(ctx context.Context, id string, status string) error

	// SetLastInspection sets the last inspection date (empty clears it).
	SetLastInspection(ctx context.Context, id string, date string) error

	// SoftDelete marks an item deleted without removing it.
	SoftDelete(ctx context.Context, id string) error

	// List retrieves items matching the given filters, soft-deleted
	// excluded.
	List(ctx context.Context, filters EquipmentFilters) ([]*EquipmentRecord, error)

	// ListEligible retrieves the items eligible for the inspection
	// worklist: last inspection date present, or status conditional or
	// rejected. Soft-deleted excluded.
	ListEligible(ctx context.Context) ([]*EquipmentRecord, error)

	// ListByStatus retrieves non-deleted items holding the given
	// inspection status.
	ListByStatus(ctx context.Context, status string) ([]*EquipmentRecord, error)

	// CountAll returns the number of non-deleted items.
	CountAll(ctx context.Context) (int, error)

	// CountByStatuses returns the number of non-deleted items whose
	// inspection status is one of the given values.
	CountByStatuses(ctx context.Context, statuses ...string) (int, error)

	// DistinctTypes returns the distinct non-empty type names in use.
	DistinctTypes(ctx context.Context) ([]string, error)

	// DistinctSites returns the distinct non-empty sites in use.
	DistinctSites(ctx context.Context) ([]string, error)

	// GetNextID returns the next available equipment ID.
	GetNextID(ctx context.Context) (string, error)
}

// EquipmentRecord represents an equipment item as stored in persistence.
// Date fields use the 2006-01-02 layout; empty string means absent.
type EquipmentRecord struct {
	ID             string
	Serial         string
	Name           string
	TypeName       string // equipment type reference, empty when untyped
	ProjectID      string // direct project link, empty when unassigned
	Site           string
	Status         string // inspection status, empty when cleared
	LastInspection string
	PurchaseDate   string
	Notes          string
	Deleted        bool
	CreatedAt      string
	UpdatedAt      string
}

// EquipmentFilters contains filter options for listing equipment.
type EquipmentFilters struct {
	Search   string // case-insensitive substring over name/serial
	TypeName string // case-insensitive substring
	Status   string // exact inspection status
}

// ScheduleRepository defines the secondary port for schedule persistence.
// Schedules are keyed by equipment serial, not by the item's primary key;
// this denormalization is historical and deliberate.
type ScheduleRepository interface {
	// Upsert creates the schedule record for a serial or updates the
	// existing one.
	Upsert(ctx context.Context, schedule *ScheduleRecord) error

	// GetBySerial retrieves the schedule record for a serial, nil when
	// none exists.
	GetBySerial(ctx context.Context, serial string) (*ScheduleRecord, error)

	// GetBySerials retrieves schedule records for a set of serials,
	// keyed by serial.
	GetBySerials(ctx context.Context, serials []string) (map[string]*ScheduleRecord, error)

	// ClearNextDue clears the next-due date of a schedule record without
	// deleting it, preserving referential stability.
	ClearNextDue(ctx context.Context, serial string) error

	// ClearDates clears both date fields of a schedule record.
	ClearDates(ctx context.Context, serial string) error

	// ListOverdue retrieves schedules whose next-due date is before today
	// and that have no performed date recorded yet.
	ListOverdue(ctx context.Context, today string) ([]*ScheduleRecord, error)

	// CountDueBetween returns how many schedules with no performed date
	// have a next-due date in the inclusive range [from, to]. Empty
	// bounds are unbounded.
	CountDueBetween(ctx context.Context, from, to string) (int, error)
}

// ScheduleRecord represents the current inspection schedule for one serial.
// A record with neither date carries no scheduling information and is
// treated as absent for counting purposes.
type ScheduleRecord struct {
	Serial        string
	LastPerformed string
	NextDue       string
	PerformedBy   string
	Notes         string
	UpdatedAt     string
}

// HistoryRepository defines the secondary port for the append-only
// inspection history ledger.
type HistoryRepository interface {
	// Append inserts a new immutable history entry.
	Append(ctx context.Context, entry *HistoryRecord) error

	// GetByID retrieves a history entry by its ID.
	GetByID(ctx context.Context, id string) (*HistoryRecord, error)

	// Latest retrieves the most recent entry for an item: performed-on
	// descending, insertion order descending on ties. Nil when none.
	Latest(ctx context.Context, equipmentID string) (*HistoryRecord, error)

	// ListFor retrieves all entries for an item, most recent first.
	ListFor(ctx context.Context, equipmentID string) ([]*HistoryRecord, error)

	// CountFor returns the number of entries for an item.
	CountFor(ctx context.Context, equipmentID string) (int, error)

	// Exists reports whether an entry with the same item, date and result
	// already exists (creation-time mirror idempotence).
	Exists(ctx context.Context, equipmentID, performedOn, result string) (bool, error)

	// Delete removes a single entry by ID. State recomputation is the
	// caller's responsibility, inside the same transaction.
	Delete(ctx context.Context, id string) error

	// DistinctPerformers returns the distinct non-empty performer names.
	DistinctPerformers(ctx context.Context) ([]string, error)
}

// HistoryRecord represents one executed inspection in the ledger.
type HistoryRecord struct {
	ID             string
	EquipmentID    string
	Serial         string // denormalized copy
	PerformedOn    string // required
	Result         string // compliant | rejected | conditional
	PerformedBy    string // required
	Notes          string
	NextDue        string // suggested at recording time
	CertificateRef string // attachment reference, empty when none
	CreatedAt      string
}

// TypeRepository defines the secondary port for the equipment type registry.
type TypeRepository interface {
	// Create persists a new equipment type.
	Create(ctx context.Context, t *TypeRecord) error

	// Update updates an existing equipment type.
	Update(ctx context.Context, t *TypeRecord) error

	// GetByName retrieves a type by its unique name, nil when unknown.
	GetByName(ctx context.Context, name string) (*TypeRecord, error)

	// List retrieves all types ordered by name.
	List(ctx context.Context) ([]*TypeRecord, error)

	// ValidityDays returns a map of type name to validity window for all
	// types with a positive window.
	ValidityDays(ctx context.Context) (map[string]int, error)
}

// TypeRecord represents an equipment type and its compliance window.
type TypeRecord struct {
	ID           string
	Name         string
	Description  string
	ValidityDays int
	CreatedAt    string
	UpdatedAt    string
}

// ActivityRepository defines the secondary port for the activity log.
type ActivityRepository interface {
	// Append records one activity entry.
	Append(ctx context.Context, entry *ActivityRecord) error

	// List retrieves activity entries matching the filters, most recent
	// first, capped at limit when positive.
	List(ctx context.Context, filters ActivityFilters) ([]*ActivityRecord, error)

	// DistinctActors returns the distinct non-empty actor names.
	DistinctActors(ctx context.Context) ([]string, error)
}

// ActivityRecord represents one activity log entry.
type ActivityRecord struct {
	ID        string
	Action    string
	Name      string
	Serial    string
	Actor     string
	CreatedAt string
}

// ActivityFilters contains filter options for the activity log.
type ActivityFilters struct {
	Search string // substring over name/serial/action
	Actor  string // case-insensitive substring
	Since  string // inclusive lower bound on created_at, empty = all time
	Action string // substring over action
	Limit  int
}

// Stores bundles the repositories that participate in one atomic operation.
type Stores struct {
	Equipment EquipmentRepository
	Schedules ScheduleRepository
	History   HistoryRepository
}

// TransactionRunner executes a function inside one store transaction. The
// ledger write and the state-machine update on the item and schedule must
// commit or roll back together.
type TransactionRunner interface {
	InTransaction(ctx context.Context, fn func(Stores) error) error
}
