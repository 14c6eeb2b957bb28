// Package wire provides dependency injection for the keurtrack application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/keurtrack/internal/adapters/certs"
	"github.com/example/keurtrack/internal/adapters/sqlite"
	"github.com/example/keurtrack/internal/app"
	"github.com/example/keurtrack/internal/config"
	"github.com/example/keurtrack/internal/db"
	"github.com/example/keurtrack/internal/ports/primary"
)

var (
	equipmentService primary.EquipmentService
	inspectionSvc    primary.InspectionService
	ledgerService    primary.LedgerService
	scannerService   primary.ScannerService
	worklistService  primary.WorklistService
	typeService      primary.TypeService
	activityService  primary.ActivityService
	cfg              *config.Config
	once             sync.Once
)

// EquipmentService returns the singleton EquipmentService instance.
func EquipmentService() primary.EquipmentService {
	once.Do(initServices)
	return equipmentService
}

// InspectionService returns the singleton InspectionService instance.
func InspectionService() primary.InspectionService {
	once.Do(initServices)
	return inspectionSvc
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	once.Do(initServices)
	return ledgerService
}

// ScannerService returns the singleton ScannerService instance.
func ScannerService() primary.ScannerService {
	once.Do(initServices)
	return scannerService
}

// WorklistService returns the singleton WorklistService instance.
func WorklistService() primary.WorklistService {
	once.Do(initServices)
	return worklistService
}

// TypeService returns the singleton TypeService instance.
func TypeService() primary.TypeService {
	once.Do(initServices)
	return typeService
}

// ActivityService returns the singleton ActivityService instance.
func ActivityService() primary.ActivityService {
	once.Do(initServices)
	return activityService
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.DatabasePath != "" {
		db.SetPath(cfg.DatabasePath)
	}
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) over the shared connection.
	equipmentRepo := sqlite.NewEquipmentRepository(database)
	scheduleRepo := sqlite.NewScheduleRepository(database)
	historyRepo := sqlite.NewHistoryRepository(database)
	typeRepo := sqlite.NewTypeRepository(database)
	usageRepo := sqlite.NewUsageRepository(database)
	activityRepo := sqlite.NewActivityRepository(database)
	store := sqlite.NewStore(database)
	resolver := certs.NewDirectoryResolver(cfg.CertificateDir)

	// The scanner comes first: the read-path services run it before
	// assembling their views.
	scannerService = app.NewScannerService(equipmentRepo, scheduleRepo, typeRepo, activityRepo, store)

	equipmentService = app.NewEquipmentService(equipmentRepo, scheduleRepo, historyRepo, typeRepo, usageRepo, activityRepo, store, scannerService)
	inspectionSvc = app.NewInspectionService(equipmentRepo, scheduleRepo, historyRepo, typeRepo, activityRepo, store)
	ledgerService = app.NewLedgerService(equipmentRepo, historyRepo, activityRepo, store, resolver)
	worklistService = app.NewWorklistService(equipmentRepo, scheduleRepo, historyRepo, usageRepo, scannerService)
	typeService = app.NewTypeService(typeRepo, activityRepo)
	activityService = app.NewActivityService(activityRepo)
}
