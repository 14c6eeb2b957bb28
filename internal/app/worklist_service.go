package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/core/risk"
	"github.com/example/keurtrack/internal/export"
	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

const defaultPerPage = 25

// WorklistServiceImpl implements the WorklistService interface: the
// filtered, sorted, paginated read model over eligible equipment.
type WorklistServiceImpl struct {
	equipmentRepo secondary.EquipmentRepository
	scheduleRepo  secondary.ScheduleRepository
	historyRepo   secondary.HistoryRepository
	usageRepo     secondary.UsageRepository
	scanner       primary.ScannerService

	now func() time.Time
}

// NewWorklistService creates a new WorklistService with injected dependencies.
func NewWorklistService(
	equipmentRepo secondary.EquipmentRepository,
	scheduleRepo secondary.ScheduleRepository,
	historyRepo secondary.HistoryRepository,
	usageRepo secondary.UsageRepository,
	scanner primary.ScannerService,
) *WorklistServiceImpl {
	return &WorklistServiceImpl{
		equipmentRepo: equipmentRepo,
		scheduleRepo:  scheduleRepo,
		historyRepo:   historyRepo,
		usageRepo:     usageRepo,
		scanner:       scanner,
		now:           time.Now,
	}
}

// Query assembles one worklist page. The expiry scanner runs first so stale
// statuses are normalized before the rows are built.
func (s *WorklistServiceImpl) Query(ctx context.Context, q primary.WorklistQuery) (*primary.WorklistPage, error) {
	if s.scanner != nil {
		if _, err := s.scanner.Scan(ctx, primary.ScanRequest{Actor: "worklist"}); err != nil {
			slog.Warn("expiry scan before worklist failed", "error", err)
		}
	}

	rows, err := s.buildRows(ctx)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	page := &primary.WorklistPage{
		Priority: countPriority(rows, today),
	}

	filtered := filterRows(rows, q, today)
	sortRows(filtered, q.SortBy, q.SortDesc)

	page.Total = len(filtered)
	page.Page = q.Page
	if page.Page < 1 {
		page.Page = 1
	}
	page.PerPage = q.PerPage
	if page.PerPage < 1 {
		page.PerPage = defaultPerPage
	}
	page.TotalPages = (page.Total + page.PerPage - 1) / page.PerPage

	start := (page.Page - 1) * page.PerPage
	if start < page.Total {
		end := start + page.PerPage
		if end > page.Total {
			end = page.Total
		}
		page.Rows = filtered[start:end]
	}

	page.Facets, err = s.facets(ctx)
	if err != nil {
		return nil, err
	}

	return page, nil
}

// Export renders the full filtered worklist as an xlsx workbook. Like
// Query, it normalizes stale statuses first so the workbook never shows a
// compliant row the on-screen worklist would show as expired.
func (s *WorklistServiceImpl) Export(ctx context.Context, q primary.WorklistQuery) ([]byte, error) {
	if s.scanner != nil {
		if _, err := s.scanner.Scan(ctx, primary.ScanRequest{Actor: "worklist"}); err != nil {
			slog.Warn("expiry scan before export failed", "error", err)
		}
	}

	rows, err := s.buildRows(ctx)
	if err != nil {
		return nil, err
	}
	filtered := filterRows(rows, q, dateOnly(s.now()))
	sortRows(filtered, q.SortBy, q.SortDesc)
	return export.Workbook(filtered)
}

// buildRows loads every eligible item and joins its schedule, latest
// history entry, usage assignment and risk assessment. History and usage
// lookups degrade to absent values so a partial failure never blocks the
// view.
func (s *WorklistServiceImpl) buildRows(ctx context.Context) ([]*primary.WorklistRow, error) {
	items, err := s.equipmentRepo.ListEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible equipment: %w", err)
	}

	serials := make([]string, len(items))
	for i, item := range items {
		serials[i] = item.Serial
	}
	schedules, err := s.scheduleRepo.GetBySerials(ctx, serials)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	usageByItem := make(map[string]*secondary.UsageRecord)
	if s.usageRepo != nil {
		if active, err := s.usageRepo.ListActive(ctx); err == nil {
			for _, u := range active {
				if _, seen := usageByItem[u.EquipmentID]; !seen {
					usageByItem[u.EquipmentID] = u
				}
			}
		} else {
			slog.Warn("usage lookup failed, scoring without usage", "error", err)
		}
	}

	today := dateOnly(s.now())
	rows := make([]*primary.WorklistRow, 0, len(items))
	for _, item := range items {
		row := &primary.WorklistRow{
			EquipmentID:    item.ID,
			Serial:         item.Serial,
			Name:           item.Name,
			TypeName:       item.TypeName,
			Status:         item.Status,
			LastInspection: item.LastInspection,
		}

		if schedule := schedules[item.Serial]; schedule != nil {
			row.LastPerformed = schedule.LastPerformed
			row.NextDue = schedule.NextDue
			row.PerformedBy = schedule.PerformedBy
		}

		var lastResult inspection.Result
		if latest, err := s.historyRepo.Latest(ctx, item.ID); err == nil && latest != nil {
			lastResult = inspection.Result(latest.Result)
			row.LastResult = latest.Result
			row.HasCertificate = latest.CertificateRef != ""
			if row.PerformedBy == "" {
				row.PerformedBy = latest.PerformedBy
			}
		}

		usage := usageByItem[item.ID]
		row.ActivelyUsed = usage != nil

		// Location priority: the item's own site or project link, else
		// the active assignment, else absent.
		switch {
		case item.Site != "":
			row.Location = item.Site
		case item.ProjectID != "":
			row.Location = item.ProjectID
		case usage != nil && usage.ProjectID != "":
			row.Location = usage.ProjectID
		case usage != nil:
			row.Location = usage.AssignedTo
		}

		nextDue, _ := parseDate("next due", row.NextDue)
		assessment := risk.Score(risk.Input{
			NextDue:      nextDue,
			LastResult:   lastResult,
			ActivelyUsed: row.ActivelyUsed,
			Today:        today,
		})
		row.RiskScore = assessment.Score
		row.RiskLevel = string(assessment.Level)
		row.RiskReason = assessment.Explanation

		rows = append(rows, row)
	}

	return rows, nil
}

// countPriority computes the three bucket counters over the full eligible
// set, independent of the active filters.
func countPriority(rows []*primary.WorklistRow, today time.Time) primary.PriorityCounts {
	var counts primary.PriorityCounts
	for _, row := range rows {
		if row.Status == string(inspection.StatusExpired) {
			counts.Overdue++
		}
		if inBucket(row, "due_today", today) {
			counts.DueToday++
		}
		if inBucket(row, "due_within_30", today) {
			counts.DueWithin30++
		}
	}
	return counts
}

// inBucket reports whether a row falls into a priority bucket.
func inBucket(row *primary.WorklistRow, bucket string, today time.Time) bool {
	switch bucket {
	case "overdue":
		return row.Status == string(inspection.StatusExpired)
	case "due_today", "due_within_30":
		if row.NextDue == "" {
			return false
		}
		due, err := time.Parse(inspection.DateLayout, row.NextDue)
		if err != nil {
			return false
		}
		day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if bucket == "due_today" {
			return due.Equal(day)
		}
		return due.After(day) && !due.After(day.AddDate(0, 0, 30))
	default:
		return false
	}
}

// filterRows applies the independently combinable filters. A priority
// bucket, when set, overrides the status and due-range filters.
func filterRows(rows []*primary.WorklistRow, q primary.WorklistQuery, today time.Time) []*primary.WorklistRow {
	filtered := make([]*primary.WorklistRow, 0, len(rows))
	for _, row := range rows {
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(row.Name), needle) &&
				!strings.Contains(strings.ToLower(row.Serial), needle) {
				continue
			}
		}
		if q.TypeName != "" && !strings.Contains(strings.ToLower(row.TypeName), strings.ToLower(q.TypeName)) {
			continue
		}
		if q.Performer != "" && !strings.Contains(strings.ToLower(row.PerformedBy), strings.ToLower(q.Performer)) {
			continue
		}
		if q.Location != "" && !strings.Contains(strings.ToLower(row.Location), strings.ToLower(q.Location)) {
			continue
		}

		if q.Bucket != "" {
			if !inBucket(row, q.Bucket, today) {
				continue
			}
		} else {
			if q.Status != "" && row.Status != q.Status {
				continue
			}
			if q.DueFrom != "" && (row.NextDue == "" || row.NextDue < q.DueFrom) {
				continue
			}
			if q.DueTo != "" && (row.NextDue == "" || row.NextDue > q.DueTo) {
				continue
			}
		}

		filtered = append(filtered, row)
	}
	return filtered
}

// sortRows sorts in place. The default risk sort is descending by score;
// the other keys sort ascending unless desc is set, with empty values last
// either way.
func sortRows(rows []*primary.WorklistRow, sortBy string, desc bool) {
	less := func(a, b string) bool {
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		if desc {
			return a > b
		}
		return a < b
	}

	switch sortBy {
	case "name":
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i].Name, rows[j].Name) })
	case "last_performed":
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i].LastPerformed, rows[j].LastPerformed) })
	case "next_due":
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i].NextDue, rows[j].NextDue) })
	case "result":
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i].LastResult, rows[j].LastResult) })
	default: // risk
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].RiskScore > rows[j].RiskScore })
	}
}

func (s *WorklistServiceImpl) facets(ctx context.Context) (primary.WorklistFacets, error) {
	var facets primary.WorklistFacets
	var err error

	if facets.Types, err = s.equipmentRepo.DistinctTypes(ctx); err != nil {
		return facets, fmt.Errorf("failed to load type facets: %w", err)
	}
	if facets.Sites, err = s.equipmentRepo.DistinctSites(ctx); err != nil {
		return facets, fmt.Errorf("failed to load site facets: %w", err)
	}
	if facets.Performers, err = s.historyRepo.DistinctPerformers(ctx); err != nil {
		return facets, fmt.Errorf("failed to load performer facets: %w", err)
	}
	return facets, nil
}
