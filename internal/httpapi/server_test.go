package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/keurtrack/internal/adapters/certs"
	"github.com/example/keurtrack/internal/adapters/sqlite"
	"github.com/example/keurtrack/internal/app"
	"github.com/example/keurtrack/internal/db"
)

// newTestServer builds the full stack over an in-memory database.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if _, err := database.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	equipmentRepo := sqlite.NewEquipmentRepository(database)
	scheduleRepo := sqlite.NewScheduleRepository(database)
	historyRepo := sqlite.NewHistoryRepository(database)
	typeRepo := sqlite.NewTypeRepository(database)
	usageRepo := sqlite.NewUsageRepository(database)
	activityRepo := sqlite.NewActivityRepository(database)
	store := sqlite.NewStore(database)
	resolver := certs.NewDirectoryResolver(t.TempDir())

	scanner := app.NewScannerService(equipmentRepo, scheduleRepo, typeRepo, activityRepo, store)
	server := NewServer(
		app.NewEquipmentService(equipmentRepo, scheduleRepo, historyRepo, typeRepo, usageRepo, activityRepo, store, scanner),
		app.NewInspectionService(equipmentRepo, scheduleRepo, historyRepo, typeRepo, activityRepo, store),
		app.NewLedgerService(equipmentRepo, historyRepo, activityRepo, store, resolver),
		scanner,
		app.NewWorklistService(equipmentRepo, scheduleRepo, historyRepo, usageRepo, scanner),
		app.NewTypeService(typeRepo, activityRepo),
		app.NewActivityService(activityRepo),
	)
	return server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterRecordAndWorklistRoundTrip(t *testing.T) {
	router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/equipment", map[string]any{
		"Serial": "KT-0001",
		"Name":   "Chain hoist",
		"Status": "compliant",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
	var item struct{ ID string }
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("failed to decode item: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/equipment/"+item.ID+"/inspections", map[string]any{
		"Result":      "conditional",
		"PerformedOn": "2026-01-10",
		"PerformedBy": "J. Keurmeester",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("record returned %d: %s", w.Code, w.Body.String())
	}
	var entry struct{ NextDue string }
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	if entry.NextDue != "2026-07-10" {
		t.Errorf("expected default next due 2026-07-10, got %s", entry.NextDue)
	}

	w = doJSON(t, router, http.MethodGet, "/api/worklist", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("worklist returned %d: %s", w.Code, w.Body.String())
	}
	var page struct {
		Total int
		Rows  []struct{ Status string }
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if page.Total != 1 || page.Rows[0].Status != "conditional" {
		t.Errorf("unexpected worklist page: %s", w.Body.String())
	}
}

func TestValidationErrorsMapTo400(t *testing.T) {
	router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/equipment", map[string]any{
		"Serial": "KT-0001",
		"Name":   "Hoist",
		"Status": "scheduled",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a scheduled initial status, got %d", w.Code)
	}
}

func TestUnknownEquipmentMapsTo404(t *testing.T) {
	router := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/api/equipment/EQ-999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown equipment, got %d", w.Code)
	}
}

func TestScanEndpointDryRun(t *testing.T) {
	router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/scan?dry_run=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("scan returned %d: %s", w.Code, w.Body.String())
	}
	var report struct{ DryRun bool }
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if !report.DryRun {
		t.Error("expected a dry-run report")
	}
}
