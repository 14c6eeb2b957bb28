package primary

import "context"

// WorklistService defines the primary port for the inspection worklist:
// the filtered, sorted, paginated read model over eligible equipment.
type WorklistService interface {
	// Query assembles one worklist page. Eligibility, filters and sorting
	// are applied before pagination; the priority counts are computed
	// over the full eligible set regardless of active filters.
	Query(ctx context.Context, q WorklistQuery) (*WorklistPage, error)

	// Export renders the full filtered worklist (unpaginated) as an xlsx
	// workbook and returns its bytes.
	Export(ctx context.Context, q WorklistQuery) ([]byte, error)
}

// WorklistQuery contains the filter, sort and pagination parameters.
type WorklistQuery struct {
	Search    string // case-insensitive substring over name and serial
	Status    string // exact inspection status
	Location  string // project id or case-insensitive substring over site
	TypeName  string // case-insensitive substring
	Performer string // case-insensitive substring over performed_by
	DueFrom   string // inclusive lower bound on next-due, 2006-01-02
	DueTo     string // inclusive upper bound on next-due
	// Bucket is the priority shortcut: overdue, due_today or
	// due_within_30. When set it overrides Status, DueFrom and DueTo.
	Bucket   string
	SortBy   string // risk (default), name, last_performed, next_due or result
	SortDesc bool
	Page     int // 1-indexed, defaults to 1
	PerPage  int // defaults to 25
}

// WorklistPage is one page of the worklist plus the whole-set aggregates.
type WorklistPage struct {
	Rows       []*WorklistRow
	Total      int // rows matching the filters, across all pages
	Page       int
	PerPage    int
	TotalPages int
	Priority   PriorityCounts
	Facets     WorklistFacets
}

// WorklistRow is one eligible item with its joined schedule, certificate,
// location and risk fields.
type WorklistRow struct {
	EquipmentID    string
	Serial         string
	Name           string
	TypeName       string
	Status         string
	LastInspection string
	LastResult     string
	LastPerformed  string
	NextDue        string
	PerformedBy    string
	// Location resolves with priority: the item's own site or project
	// link, else the active usage assignment, else empty.
	Location       string
	HasCertificate bool
	ActivelyUsed   bool
	RiskScore      int
	RiskLevel      string
	RiskReason     string
}

// PriorityCounts holds the three priority buckets, computed over the full
// eligible set. Overdue counts items whose status is exactly expired;
// due-today and due-soon count by next-due date.
type PriorityCounts struct {
	Overdue     int
	DueToday    int
	DueWithin30 int
}

// WorklistFacets holds the distinct values available for the filter
// dropdowns.
type WorklistFacets struct {
	Types      []string
	Sites      []string
	Performers []string
}
