package app

import (
	"context"
	"sort"
	"strings"

	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// Compile-time checks that the mocks satisfy their ports.
var (
	_ secondary.EquipmentRepository = (*mockEquipmentRepository)(nil)
	_ secondary.ScheduleRepository  = (*mockScheduleRepository)(nil)
	_ secondary.HistoryRepository   = (*mockHistoryRepository)(nil)
	_ secondary.TypeRepository      = (*mockTypeRepository)(nil)
	_ secondary.UsageRepository     = (*mockUsageRepository)(nil)
	_ secondary.ActivityRepository  = (*mockActivityRepository)(nil)
	_ secondary.TransactionRunner   = (*mockTxRunner)(nil)
)

// mockEquipmentRepository implements secondary.EquipmentRepository in memory.
type mockEquipmentRepository struct {
	items  map[string]*secondary.EquipmentRecord
	nextID int
}

func newMockEquipmentRepository() *mockEquipmentRepository {
	return &mockEquipmentRepository{items: make(map[string]*secondary.EquipmentRecord), nextID: 1}
}

func (m *mockEquipmentRepository) Create(_ context.Context, item *secondary.EquipmentRecord) error {
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockEquipmentRepository) GetByID(_ context.Context, id string) (*secondary.EquipmentRecord, error) {
	item, ok := m.items[id]
	if !ok || item.Deleted {
		return nil, errNotFound("equipment", id)
	}
	cp := *item
	return &cp, nil
}

func (m *mockEquipmentRepository) GetBySerial(_ context.Context, serial string) (*secondary.EquipmentRecord, error) {
	for _, item := range m.items {
		if item.Serial == serial && !item.Deleted {
			cp := *item
			return &cp, nil
		}
	}
	return nil, errNotFound("equipment", serial)
}

func (m *mockEquipmentRepository) Update(_ context.Context, item *secondary.EquipmentRecord) error {
	existing, ok := m.items[item.ID]
	if !ok || existing.Deleted {
		return errNotFound("equipment", item.ID)
	}
	existing.Name = item.Name
	existing.TypeName = item.TypeName
	existing.ProjectID = item.ProjectID
	existing.Site = item.Site
	existing.Notes = item.Notes
	return nil
}

func (m *mockEquipmentRepository) UpdateStatus(_ context.Context, id, status string) error {
	item, ok := m.items[id]
	if !ok || item.Deleted {
		return errNotFound("equipment", id)
	}
	item.Status = status
	return nil
}

func (m *mockEquipmentRepository) SetLastInspection(_ context.Context, id, date string) error {
	item, ok := m.items[id]
	if !ok || item.Deleted {
		return errNotFound("equipment", id)
	}
	item.LastInspection = date
	return nil
}

func (m *mockEquipmentRepository) SoftDelete(_ context.Context, id string) error {
	item, ok := m.items[id]
	if !ok || item.Deleted {
		return errNotFound("equipment", id)
	}
	item.Deleted = true
	return nil
}

func (m *mockEquipmentRepository) List(_ context.Context, filters secondary.EquipmentFilters) ([]*secondary.EquipmentRecord, error) {
	var out []*secondary.EquipmentRecord
	for _, item := range m.sorted() {
		if item.Deleted {
			continue
		}
		if filters.Status != "" && item.Status != filters.Status {
			continue
		}
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(item.Name), needle) &&
				!strings.Contains(strings.ToLower(item.Serial), needle) {
				continue
			}
		}
		if filters.TypeName != "" && !strings.Contains(strings.ToLower(item.TypeName), strings.ToLower(filters.TypeName)) {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockEquipmentRepository) ListEligible(_ context.Context) ([]*secondary.EquipmentRecord, error) {
	var out []*secondary.EquipmentRecord
	for _, item := range m.sorted() {
		if item.Deleted {
			continue
		}
		if item.LastInspection != "" || item.Status == "conditional" || item.Status == "rejected" {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockEquipmentRepository) ListByStatus(_ context.Context, status string) ([]*secondary.EquipmentRecord, error) {
	var out []*secondary.EquipmentRecord
	for _, item := range m.sorted() {
		if !item.Deleted && item.Status == status {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockEquipmentRepository) CountAll(_ context.Context) (int, error) {
	count := 0
	for _, item := range m.items {
		if !item.Deleted {
			count++
		}
	}
	return count, nil
}

func (m *mockEquipmentRepository) CountByStatuses(_ context.Context, statuses ...string) (int, error) {
	count := 0
	for _, item := range m.items {
		if item.Deleted {
			continue
		}
		for _, s := range statuses {
			if item.Status == s {
				count++
				break
			}
		}
	}
	return count, nil
}

func (m *mockEquipmentRepository) DistinctTypes(_ context.Context) ([]string, error) {
	return m.distinct(func(r *secondary.EquipmentRecord) string { return r.TypeName }), nil
}

func (m *mockEquipmentRepository) DistinctSites(_ context.Context) ([]string, error) {
	return m.distinct(func(r *secondary.EquipmentRecord) string { return r.Site }), nil
}

func (m *mockEquipmentRepository) GetNextID(_ context.Context) (string, error) {
	id := mockID("EQ", m.nextID)
	m.nextID++
	return id, nil
}

func (m *mockEquipmentRepository) sorted() []*secondary.EquipmentRecord {
	out := make([]*secondary.EquipmentRecord, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}

func (m *mockEquipmentRepository) distinct(get func(*secondary.EquipmentRecord) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range m.sorted() {
		v := get(item)
		if v != "" && !item.Deleted && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// mockScheduleRepository implements secondary.ScheduleRepository in memory.
type mockScheduleRepository struct {
	schedules map[string]*secondary.ScheduleRecord
}

func newMockScheduleRepository() *mockScheduleRepository {
	return &mockScheduleRepository{schedules: make(map[string]*secondary.ScheduleRecord)}
}

func (m *mockScheduleRepository) Upsert(_ context.Context, schedule *secondary.ScheduleRecord) error {
	cp := *schedule
	m.schedules[schedule.Serial] = &cp
	return nil
}

func (m *mockScheduleRepository) GetBySerial(_ context.Context, serial string) (*secondary.ScheduleRecord, error) {
	schedule, ok := m.schedules[serial]
	if !ok {
		return nil, nil
	}
	cp := *schedule
	return &cp, nil
}

func (m *mockScheduleRepository) GetBySerials(_ context.Context, serials []string) (map[string]*secondary.ScheduleRecord, error) {
	out := make(map[string]*secondary.ScheduleRecord)
	for _, serial := range serials {
		if schedule, ok := m.schedules[serial]; ok {
			cp := *schedule
			out[serial] = &cp
		}
	}
	return out, nil
}

func (m *mockScheduleRepository) ClearNextDue(_ context.Context, serial string) error {
	if schedule, ok := m.schedules[serial]; ok {
		schedule.NextDue = ""
	}
	return nil
}

func (m *mockScheduleRepository) ClearDates(_ context.Context, serial string) error {
	if schedule, ok := m.schedules[serial]; ok {
		schedule.LastPerformed = ""
		schedule.NextDue = ""
	}
	return nil
}

func (m *mockScheduleRepository) ListOverdue(_ context.Context, today string) ([]*secondary.ScheduleRecord, error) {
	var out []*secondary.ScheduleRecord
	var serials []string
	for serial := range m.schedules {
		serials = append(serials, serial)
	}
	sort.Strings(serials)
	for _, serial := range serials {
		s := m.schedules[serial]
		if s.NextDue != "" && s.NextDue < today && s.LastPerformed == "" {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockScheduleRepository) CountDueBetween(_ context.Context, from, to string) (int, error) {
	count := 0
	for _, s := range m.schedules {
		if s.NextDue == "" || s.LastPerformed != "" {
			continue
		}
		if from != "" && s.NextDue < from {
			continue
		}
		if to != "" && s.NextDue > to {
			continue
		}
		count++
	}
	return count, nil
}

// mockHistoryRepository implements secondary.HistoryRepository in memory.
// Entries keep insertion order; Latest breaks performed-on ties in favour
// of the later insertion, matching the SQLite adapter.
type mockHistoryRepository struct {
	entries []*secondary.HistoryRecord
}

func newMockHistoryRepository() *mockHistoryRepository {
	return &mockHistoryRepository{}
}

func (m *mockHistoryRepository) Append(_ context.Context, entry *secondary.HistoryRecord) error {
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *mockHistoryRepository) GetByID(_ context.Context, id string) (*secondary.HistoryRecord, error) {
	for _, e := range m.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, errNotFound("history entry", id)
}

func (m *mockHistoryRepository) Latest(_ context.Context, equipmentID string) (*secondary.HistoryRecord, error) {
	var latest *secondary.HistoryRecord
	for _, e := range m.entries {
		if e.EquipmentID != equipmentID {
			continue
		}
		if latest == nil || e.PerformedOn >= latest.PerformedOn {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *mockHistoryRepository) ListFor(_ context.Context, equipmentID string) ([]*secondary.HistoryRecord, error) {
	var out []*secondary.HistoryRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].EquipmentID == equipmentID {
			cp := *m.entries[i]
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PerformedOn > out[j].PerformedOn })
	return out, nil
}

func (m *mockHistoryRepository) CountFor(_ context.Context, equipmentID string) (int, error) {
	count := 0
	for _, e := range m.entries {
		if e.EquipmentID == equipmentID {
			count++
		}
	}
	return count, nil
}

func (m *mockHistoryRepository) Exists(_ context.Context, equipmentID, performedOn, result string) (bool, error) {
	for _, e := range m.entries {
		if e.EquipmentID == equipmentID && e.PerformedOn == performedOn && e.Result == result {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockHistoryRepository) Delete(_ context.Context, id string) error {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return errNotFound("history entry", id)
}

func (m *mockHistoryRepository) DistinctPerformers(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, e := range m.entries {
		if e.PerformedBy != "" && !seen[e.PerformedBy] {
			seen[e.PerformedBy] = true
			out = append(out, e.PerformedBy)
		}
	}
	sort.Strings(out)
	return out, nil
}

// mockTypeRepository implements secondary.TypeRepository in memory.
type mockTypeRepository struct {
	types map[string]*secondary.TypeRecord
}

func newMockTypeRepository() *mockTypeRepository {
	return &mockTypeRepository{types: make(map[string]*secondary.TypeRecord)}
}

func (m *mockTypeRepository) Create(_ context.Context, t *secondary.TypeRecord) error {
	cp := *t
	m.types[t.Name] = &cp
	return nil
}

func (m *mockTypeRepository) Update(_ context.Context, t *secondary.TypeRecord) error {
	existing, ok := m.types[t.Name]
	if !ok {
		return errNotFound("equipment type", t.Name)
	}
	existing.Description = t.Description
	existing.ValidityDays = t.ValidityDays
	return nil
}

func (m *mockTypeRepository) GetByName(_ context.Context, name string) (*secondary.TypeRecord, error) {
	t, ok := m.types[name]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *mockTypeRepository) List(_ context.Context) ([]*secondary.TypeRecord, error) {
	var names []string
	for name := range m.types {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*secondary.TypeRecord, len(names))
	for i, name := range names {
		cp := *m.types[name]
		out[i] = &cp
	}
	return out, nil
}

func (m *mockTypeRepository) ValidityDays(_ context.Context) (map[string]int, error) {
	out := make(map[string]int)
	for name, t := range m.types {
		if t.ValidityDays > 0 {
			out[name] = t.ValidityDays
		}
	}
	return out, nil
}

// mockUsageRepository implements secondary.UsageRepository in memory.
type mockUsageRepository struct {
	usages []*secondary.UsageRecord
}

func newMockUsageRepository() *mockUsageRepository {
	return &mockUsageRepository{}
}

func (m *mockUsageRepository) Create(_ context.Context, u *secondary.UsageRecord) error {
	cp := *u
	m.usages = append(m.usages, &cp)
	return nil
}

func (m *mockUsageRepository) EndActive(_ context.Context, equipmentID, endDate string) (int, error) {
	closed := 0
	for _, u := range m.usages {
		if u.EquipmentID == equipmentID && u.EndDate == "" {
			u.EndDate = endDate
			closed++
		}
	}
	return closed, nil
}

func (m *mockUsageRepository) ActiveFor(_ context.Context, equipmentID string) (bool, error) {
	for _, u := range m.usages {
		if u.EquipmentID == equipmentID && u.EndDate == "" {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUsageRepository) ListActive(_ context.Context) ([]*secondary.UsageRecord, error) {
	var out []*secondary.UsageRecord
	for _, u := range m.usages {
		if u.EndDate == "" {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockUsageRepository) ListFor(_ context.Context, equipmentID string) ([]*secondary.UsageRecord, error) {
	var out []*secondary.UsageRecord
	for _, u := range m.usages {
		if u.EquipmentID == equipmentID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// mockActivityRepository implements secondary.ActivityRepository in memory.
type mockActivityRepository struct {
	entries []*secondary.ActivityRecord
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{}
}

func (m *mockActivityRepository) Append(_ context.Context, entry *secondary.ActivityRecord) error {
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *mockActivityRepository) List(_ context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	var out []*secondary.ActivityRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filters.Actor != "" && !strings.Contains(strings.ToLower(e.Actor), strings.ToLower(filters.Actor)) {
			continue
		}
		if filters.Action != "" && !strings.Contains(strings.ToLower(e.Action), strings.ToLower(filters.Action)) {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockActivityRepository) DistinctActors(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, e := range m.entries {
		if e.Actor != "" && !seen[e.Actor] {
			seen[e.Actor] = true
			out = append(out, e.Actor)
		}
	}
	sort.Strings(out)
	return out, nil
}

// mockTxRunner runs the function against the same in-memory repositories,
// so "transactional" writes are observable directly in the mocks.
type mockTxRunner struct {
	stores secondary.Stores
}

func newMockTxRunner(equipment *mockEquipmentRepository, schedules *mockScheduleRepository, history *mockHistoryRepository) *mockTxRunner {
	return &mockTxRunner{stores: secondary.Stores{
		Equipment: equipment,
		Schedules: schedules,
		History:   history,
	}}
}

func (m *mockTxRunner) InTransaction(_ context.Context, fn func(secondary.Stores) error) error {
	return fn(m.stores)
}

// noopScanner satisfies primary.ScannerService without doing anything.
type noopScanner struct{}

func (noopScanner) Scan(context.Context, primary.ScanRequest) (*primary.ScanReport, error) {
	return &primary.ScanReport{}, nil
}

// countingScanner records how often the read path triggered a scan.
type countingScanner struct {
	calls int
}

func (s *countingScanner) Scan(context.Context, primary.ScanRequest) (*primary.ScanReport, error) {
	s.calls++
	return &primary.ScanReport{}, nil
}

func errNotFound(kind, id string) error {
	return &notFoundErr{kind: kind, id: id}
}

type notFoundErr struct {
	kind, id string
}

func (e *notFoundErr) Error() string { return e.kind + " " + e.id + " not found" }

func mockID(prefix string, n int) string {
	digits := []byte{'0', '0', '0'}
	for i := 2; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return prefix + "-" + string(digits)
}
