// Package app contains the application services implementing the primary
// ports over the secondary ports. Services orchestrate: validation and
// state decisions live in internal/core, persistence in the adapters.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// parseDate parses a 2006-01-02 date, returning the zero time for empty
// input and a ValidationError for anything unparsable.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(inspection.DateLayout, value)
	if err != nil {
		return time.Time{}, inspection.Validationf("invalid %s %q, expected YYYY-MM-DD", field, value)
	}
	return t, nil
}

// dateOnly truncates a clock reading to its calendar date in UTC. Expiry
// comparisons are strictly-past at date granularity, so the wall-clock time
// must never reach the core transition functions.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// formatDate renders a date as 2006-01-02, empty for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(inspection.DateLayout)
}

// logActivity appends an activity entry, best effort. Activity logging
// never fails the operation it describes.
func logActivity(ctx context.Context, repo secondary.ActivityRepository, action, name, serial, actor string) {
	if repo == nil {
		return
	}
	_ = repo.Append(ctx, &secondary.ActivityRecord{
		ID:     uuid.NewString(),
		Action: action,
		Name:   name,
		Serial: serial,
		Actor:  actor,
	})
}
