// This file contains the named transition functions for every entry point
// that may change an item's inspection status. Each function is pure: it
// returns the new state plus the writes the caller must perform, it never
// mutates anything itself.
package inspection

import "time"

// defaultNextDueMonths is the scheduling default applied when a recorded
// result carries no usable next-due date.
const defaultNextDueMonths = 6

// DefaultNextDue returns the fallback next-due date for a result recorded
// on performedOn: six months later.
func DefaultNextDue(performedOn time.Time) time.Time {
	return performedOn.AddDate(0, defaultNextDueMonths, 0)
}

// CreationInput carries the caller-supplied state for the item-creation
// entry point.
type CreationInput struct {
	InitialStatus  Status
	LastInspection time.Time // zero when unknown
	ValidityDays   int       // from the equipment type, 0 when absent
	Today          time.Time
}

// CreationOutcome is the decided state for a newly created item.
type CreationOutcome struct {
	Status Status
	// MirrorResult, when set, is the history entry result the caller must
	// append (idempotently) to mirror a creation-time last inspection.
	MirrorResult Result
}

// ApplyCreation decides the initial status of a new equipment item.
// Only the three inspection outcomes are permitted as a user-supplied
// initial status; scheduled is reserved for the scheduling entry point.
// A creation-time last inspection that already fails the expiry check
// overrides the chosen status to expired.
func ApplyCreation(in CreationInput) (CreationOutcome, error) {
	if in.InitialStatus == StatusScheduled {
		return CreationOutcome{}, Validationf("scheduled status not permitted at creation")
	}
	result := Result(in.InitialStatus)
	if !result.Valid() {
		return CreationOutcome{}, Validationf("invalid initial inspection status %q", in.InitialStatus)
	}
	if !in.LastInspection.IsZero() && in.LastInspection.After(in.Today) {
		return CreationOutcome{}, Validationf("last inspection date may not be in the future")
	}

	out := CreationOutcome{Status: in.InitialStatus}
	if !in.LastInspection.IsZero() {
		out.MirrorResult = result
		if IsExpired(in.LastInspection, in.ValidityDays, in.Today) {
			out.Status = StatusExpired
		}
	}
	return out, nil
}

// RecordInput carries the state for the record-result entry point.
type RecordInput struct {
	Result       Result
	PerformedOn  time.Time
	NextDue      time.Time // zero means no usable date was supplied
	ValidityDays int
	Today        time.Time
}

// RecordOutcome holds the writes required after recording a result: the new
// item status and last-inspection date, plus the schedule record fields.
type RecordOutcome struct {
	Status         Status
	LastInspection time.Time
	LastPerformed  time.Time
	NextDue        time.Time
}

// ApplyResult decides the item and schedule state after an inspection result
// is recorded. The status mirrors the result verbatim, then the expiry check
// runs against the fresh inspection date so degenerate validity windows
// (zero or negative days) still expire immediately. A rejected result is
// never overridden: rejection is a terminal judgement, not a window.
func ApplyResult(in RecordInput) (RecordOutcome, error) {
	if !in.Result.Valid() {
		return RecordOutcome{}, Validationf("invalid inspection result %q", in.Result)
	}
	if in.PerformedOn.IsZero() {
		return RecordOutcome{}, Validationf("inspection date is required")
	}
	if in.PerformedOn.After(in.Today) {
		return RecordOutcome{}, Validationf("inspection date may not be in the future")
	}

	nextDue := in.NextDue
	if nextDue.IsZero() {
		nextDue = DefaultNextDue(in.PerformedOn)
	}

	out := RecordOutcome{
		Status:         in.Result.Status(),
		LastInspection: in.PerformedOn,
		LastPerformed:  in.PerformedOn,
		NextDue:        nextDue,
	}
	if in.Result != ResultRejected && IsExpired(in.PerformedOn, in.ValidityDays, in.Today) {
		out.Status = StatusExpired
	}
	return out, nil
}

// LatestEntry is the view of the most recent remaining history entry used
// when recomputing state after a deletion.
type LatestEntry struct {
	PerformedOn time.Time
	Result      Result
	NextDue     time.Time // zero when the entry suggested none
}

// DeletionOutcome holds the recomputed item and schedule state after a
// history entry is deleted. Zero time values mean "clear the field".
type DeletionOutcome struct {
	Status         Status
	LastInspection time.Time
	LastPerformed  time.Time
	NextDue        time.Time
}

// ApplyHistoryDeletion recomputes item and schedule state from the new most
// recent history entry, or resets everything to empty when none remains.
func ApplyHistoryDeletion(latest *LatestEntry) DeletionOutcome {
	if latest == nil {
		return DeletionOutcome{Status: StatusNone}
	}
	return DeletionOutcome{
		Status:         latest.Result.Status(),
		LastInspection: latest.PerformedOn,
		LastPerformed:  latest.PerformedOn,
		NextDue:        latest.NextDue,
	}
}

// ApplyWithdrawal decides the status consequence of withdrawing a planned
// inspection. The schedule's next-due date is always cleared by the caller;
// the item status is cleared only when the item has no history at all.
// The last-inspection date is never touched here.
func ApplyWithdrawal(historyCount int) (clearStatus bool) {
	return historyCount == 0
}

// ScheduleOverdue reports whether a schedule record represents a planned
// inspection that is past due and was never performed. Used by the scanner's
// first pass.
func ScheduleOverdue(nextDue, lastPerformed, today time.Time) bool {
	if nextDue.IsZero() || !lastPerformed.IsZero() {
		return false
	}
	return nextDue.Before(today)
}

// ShouldExpire reports whether the scanner may flip an item to expired.
// Compliant is the only status the scanner is permitted to overwrite; every
// other status, including a previous expired, is left untouched, which keeps
// the scan idempotent and protective of manually set states.
func ShouldExpire(current Status, base time.Time, validityDays int, today time.Time) bool {
	if current != StatusCompliant {
		return false
	}
	return IsExpired(base, validityDays, today)
}
