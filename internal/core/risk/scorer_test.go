package risk

import (
	"strings"
	"testing"
	"time"

	"github.com/example/keurtrack/internal/core/inspection"
)

var today = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func due(days int) time.Time {
	return today.AddDate(0, 0, days)
}

func TestScoreUrgencyBands(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want int
	}{
		{"overdue", Input{NextDue: due(-1), Today: today}, 60},
		{"long overdue", Input{NextDue: due(-90), Today: today}, 60},
		{"due today", Input{NextDue: due(0), Today: today}, 50},
		{"due in 1 day", Input{NextDue: due(1), Today: today}, 40},
		{"due in 7 days", Input{NextDue: due(7), Today: today}, 40},
		{"due in 8 days", Input{NextDue: due(8), Today: today}, 20},
		{"due in 30 days", Input{NextDue: due(30), Today: today}, 20},
		{"due in 31 days", Input{NextDue: due(31), Today: today}, 0},
		{"no due date", Input{Today: today}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.in); got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestScoreHistoryComponent(t *testing.T) {
	rejected := Score(Input{LastResult: inspection.ResultRejected, Today: today})
	if rejected.Score != 25 {
		t.Errorf("rejected history = %d, want 25", rejected.Score)
	}
	conditional := Score(Input{LastResult: inspection.ResultConditional, Today: today})
	if conditional.Score != 15 {
		t.Errorf("conditional history = %d, want 15", conditional.Score)
	}
	compliant := Score(Input{LastResult: inspection.ResultCompliant, Today: today})
	if compliant.Score != 0 {
		t.Errorf("compliant history = %d, want 0", compliant.Score)
	}
}

func TestScoreUsageComponent(t *testing.T) {
	got := Score(Input{ActivelyUsed: true, Today: today})
	if got.Score != 15 {
		t.Errorf("usage component = %d, want 15", got.Score)
	}
	if !strings.Contains(got.Explanation, "actively in use") {
		t.Errorf("explanation missing usage reason: %q", got.Explanation)
	}
}

func TestScoreIsCappedAt100(t *testing.T) {
	got := Score(Input{
		NextDue:      due(-30),
		LastResult:   inspection.ResultRejected,
		ActivelyUsed: true,
		Today:        today,
	})
	if got.Score != 100 {
		t.Errorf("maximum composite = %d, want 100", got.Score)
	}
	if got.Level != LevelCritical {
		t.Errorf("level = %q, want critical", got.Level)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	in := Input{NextDue: due(5), LastResult: inspection.ResultConditional, Today: today}
	first := Score(in)
	second := Score(in)
	if first != second {
		t.Errorf("same input produced different assessments: %+v vs %+v", first, second)
	}
}

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{0, LevelLow},
		{24, LevelLow},
		{25, LevelMedium},
		{49, LevelMedium},
		{50, LevelHigh},
		{74, LevelHigh},
		{75, LevelCritical},
		{100, LevelCritical},
	}
	for _, tt := range tests {
		if got := levelFor(tt.score); got != tt.want {
			t.Errorf("levelFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestExplanationWithoutFactors(t *testing.T) {
	got := Score(Input{Today: today})
	if got.Explanation != "no particular risk factors" {
		t.Errorf("unexpected explanation %q", got.Explanation)
	}
	if got.Level != LevelLow {
		t.Errorf("level = %q, want low", got.Level)
	}
}

func TestExplanationNamesTheLateDays(t *testing.T) {
	got := Score(Input{NextDue: due(-14), Today: today})
	if !strings.Contains(got.Explanation, "14 days late") {
		t.Errorf("explanation missing lateness: %q", got.Explanation)
	}
}
