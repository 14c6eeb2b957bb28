// Package inspection contains the pure business rules for the inspection
// lifecycle. This is part of the Functional Core - no I/O, only pure functions.
package inspection

// DateLayout is the calendar-date format used across the inspection domain.
// Inspections are date-granular; time of day never participates in a rule.
const DateLayout = "2006-01-02"

// Status represents the inspection status of an equipment item.
type Status string

const (
	StatusCompliant   Status = "compliant"
	StatusRejected    Status = "rejected"
	StatusExpired     Status = "expired"
	StatusScheduled   Status = "scheduled"
	StatusConditional Status = "conditional"

	// StatusNone is the cleared state an item returns to when its last
	// remaining history entry is deleted. It is not a member of the
	// status enumeration and is never user-assignable.
	StatusNone Status = ""
)

// Valid reports whether s is a member of the status enumeration.
// StatusNone is deliberately not valid: it can only be reached through
// history deletion or schedule withdrawal, never assigned directly.
func (s Status) Valid() bool {
	switch s {
	case StatusCompliant, StatusRejected, StatusExpired, StatusScheduled, StatusConditional:
		return true
	}
	return false
}

// Result represents the outcome of an executed inspection.
// Expired and scheduled are engine-assigned statuses, never results.
type Result string

const (
	ResultCompliant   Result = "compliant"
	ResultRejected    Result = "rejected"
	ResultConditional Result = "conditional"
)

// Valid reports whether r is one of the three possible inspection outcomes.
func (r Result) Valid() bool {
	switch r {
	case ResultCompliant, ResultRejected, ResultConditional:
		return true
	}
	return false
}

// Status returns the item status an inspection result maps to.
// The mapping is verbatim: recording a result sets the item status to it.
func (r Result) Status() Status {
	return Status(r)
}
