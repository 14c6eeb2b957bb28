// Package httpapi exposes the primary ports over a JSON HTTP API.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/primary"
)

// Server wires the primary services into a gin router.
type Server struct {
	equipment primary.EquipmentService
	inspect   primary.InspectionService
	ledger    primary.LedgerService
	scanner   primary.ScannerService
	worklist  primary.WorklistService
	types     primary.TypeService
	activity  primary.ActivityService
}

// NewServer creates a Server over the given services.
func NewServer(
	equipment primary.EquipmentService,
	inspect primary.InspectionService,
	ledger primary.LedgerService,
	scanner primary.ScannerService,
	worklist primary.WorklistService,
	types primary.TypeService,
	activity primary.ActivityService,
) *Server {
	return &Server{
		equipment: equipment,
		inspect:   inspect,
		ledger:    ledger,
		scanner:   scanner,
		worklist:  worklist,
		types:     types,
		activity:  activity,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/worklist", s.handleWorklist)
		api.GET("/worklist/export", s.handleWorklistExport)

		api.GET("/equipment", s.handleListEquipment)
		api.POST("/equipment", s.handleRegisterEquipment)
		api.GET("/equipment/:id", s.handleGetEquipment)
		api.PATCH("/equipment/:id", s.handleUpdateEquipment)
		api.DELETE("/equipment/:id", s.handleDeleteEquipment)
		api.GET("/equipment/:id/history", s.handleEquipmentHistory)
		api.POST("/equipment/:id/inspections", s.handleRecordResult)
		api.POST("/equipment/:id/assignments", s.handleAssign)
		api.DELETE("/equipment/:id/assignments", s.handleRelease)

		api.GET("/schedules/:serial", s.handleGetSchedule)
		api.PUT("/schedules/:serial", s.handleSchedule)
		api.PATCH("/schedules/:serial", s.handleEditSchedule)
		api.DELETE("/schedules/:serial", s.handleWithdrawSchedule)

		api.GET("/history/:id", s.handleGetHistoryEntry)
		api.DELETE("/history/:id", s.handleDeleteHistoryEntry)
		api.GET("/history/:id/certificate", s.handleCertificate)

		api.POST("/scan", s.handleScan)
		api.GET("/dashboard", s.handleDashboard)

		api.GET("/types", s.handleListTypes)
		api.POST("/types", s.handleCreateType)

		api.GET("/activity", s.handleActivity)
	}
	return r
}

// Run starts the HTTP server on addr.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case inspection.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case inspection.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleWorklist(c *gin.Context) {
	page, err := s.worklist.Query(c.Request.Context(), worklistQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleWorklistExport(c *gin.Context) {
	data, err := s.worklist.Export(c.Request.Context(), worklistQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="worklist.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func worklistQuery(c *gin.Context) primary.WorklistQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	return primary.WorklistQuery{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		TypeName:  c.Query("type"),
		Location:  c.Query("location"),
		Performer: c.Query("performer"),
		DueFrom:   c.Query("due_from"),
		DueTo:     c.Query("due_to"),
		Bucket:    c.Query("bucket"),
		SortBy:    c.Query("sort"),
		SortDesc:  c.Query("order") == "desc",
		Page:      page,
		PerPage:   perPage,
	}
}

func (s *Server) handleListEquipment(c *gin.Context) {
	items, err := s.equipment.ListEquipment(c.Request.Context(), primary.EquipmentFilters{
		Search:   c.Query("search"),
		TypeName: c.Query("type"),
		Status:   c.Query("status"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleRegisterEquipment(c *gin.Context) {
	var req primary.RegisterEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := s.equipment.RegisterEquipment(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleGetEquipment(c *gin.Context) {
	item, err := s.equipment.GetEquipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleUpdateEquipment(c *gin.Context) {
	var req primary.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	if err := s.equipment.UpdateEquipment(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteEquipment(c *gin.Context) {
	if err := s.equipment.DeleteEquipment(c.Request.Context(), c.Param("id"), c.Query("actor")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEquipmentHistory(c *gin.Context) {
	entries, err := s.ledger.ListHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleRecordResult(c *gin.Context) {
	var req primary.RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.EquipmentID = c.Param("id")
	entry, err := s.inspect.RecordResult(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleAssign(c *gin.Context) {
	var req primary.AssignEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.EquipmentID = c.Param("id")
	if err := s.equipment.AssignEquipment(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRelease(c *gin.Context) {
	if err := s.equipment.ReleaseEquipment(c.Request.Context(), c.Param("id"), c.Query("end_date"), c.Query("actor")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetSchedule(c *gin.Context) {
	schedule, err := s.inspect.GetSchedule(c.Request.Context(), c.Param("serial"))
	if err != nil {
		writeError(c, err)
		return
	}
	if schedule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no schedule for " + c.Param("serial")})
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (s *Server) handleSchedule(c *gin.Context) {
	var req primary.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Serial = c.Param("serial")
	if err := s.inspect.ScheduleInspection(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEditSchedule(c *gin.Context) {
	var req primary.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Serial = c.Param("serial")
	if err := s.inspect.EditSchedule(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleWithdrawSchedule(c *gin.Context) {
	if err := s.inspect.WithdrawSchedule(c.Request.Context(), c.Param("serial"), c.Query("actor")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetHistoryEntry(c *gin.Context) {
	entry, err := s.ledger.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleDeleteHistoryEntry(c *gin.Context) {
	if err := s.ledger.DeleteEntry(c.Request.Context(), c.Param("id"), c.Query("actor")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCertificate(c *gin.Context) {
	location, err := s.ledger.ResolveCertificate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.File(location)
}

func (s *Server) handleScan(c *gin.Context) {
	report, err := s.scanner.Scan(c.Request.Context(), primary.ScanRequest{
		DryRun: c.Query("dry_run") == "true",
		Actor:  c.Query("actor"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleDashboard(c *gin.Context) {
	counts, err := s.equipment.DashboardCounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (s *Server) handleListTypes(c *gin.Context) {
	types, err := s.types.ListTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

func (s *Server) handleCreateType(c *gin.Context) {
	var req primary.TypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := s.types.CreateType(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := s.activity.ListActivity(c.Request.Context(), primary.ActivityFilters{
		Search: c.Query("search"),
		Actor:  c.Query("actor"),
		Action: c.Query("action"),
		Since:  c.Query("since"),
		Limit:  limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
