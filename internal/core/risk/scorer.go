// Package risk contains the pure risk-scoring heuristic used to prioritise
// the inspection worklist. This is part of the Functional Core - no I/O,
// only pure functions.
package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/keurtrack/internal/core/inspection"
)

// Level represents the risk bucket derived from the clamped score.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Component caps. The three components are independently capped, summed,
// then clamped to [0,100].
const (
	urgencyMax = 60
	historyMax = 25
	usageMax   = 15
)

// Input carries the pre-fetched facts for one equipment item. All lookups
// happen in the caller; a failed lookup degrades to the zero value here so
// scoring can never fail and never block the surrounding query.
type Input struct {
	NextDue      time.Time         // zero when no schedule or no due date
	LastResult   inspection.Result // empty when no history or lookup failed
	ActivelyUsed bool
	Today        time.Time
}

// Assessment is the scoring output for one item.
type Assessment struct {
	Score       int
	Level       Level
	Explanation string
}

// Score computes the urgency/history/usage composite for one item.
// Deterministic: the same input always yields the same assessment.
func Score(in Input) Assessment {
	score := 0
	var reasons []string

	// Urgency (0-60): distance to the next due date.
	if !in.NextDue.IsZero() {
		days := daysBetween(in.Today, in.NextDue)
		switch {
		case days < 0:
			score += urgencyMax
			reasons = append(reasons, fmt.Sprintf("%d days late", -days))
		case days == 0:
			score += 50
			reasons = append(reasons, "due today")
		case days <= 7:
			score += 40
			reasons = append(reasons, fmt.Sprintf("due within %d days", days))
		case days <= 30:
			score += 20
			reasons = append(reasons, fmt.Sprintf("due within %d days", days))
		}
	}

	// History (0-25): most recent recorded outcome.
	switch in.LastResult {
	case inspection.ResultRejected:
		score += historyMax
		reasons = append(reasons, "last inspection rejected")
	case inspection.ResultConditional:
		score += 15
		reasons = append(reasons, "last inspection conditional")
	}

	// Active usage (0-15).
	if in.ActivelyUsed {
		score += usageMax
		reasons = append(reasons, "actively in use")
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	explanation := "no particular risk factors"
	if len(reasons) > 0 {
		explanation = strings.Join(reasons, ", ")
	}

	return Assessment{
		Score:       score,
		Level:       levelFor(score),
		Explanation: explanation,
	}
}

// levelFor maps a clamped score to its level. Monotonic in the score.
func levelFor(score int) Level {
	switch {
	case score >= 75:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 25:
		return LevelMedium
	default:
		return LevelLow
	}
}

// daysBetween returns the whole calendar days from a to b, negative when b
// lies in the past.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
