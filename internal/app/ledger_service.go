package app

import (
	"context"
	"fmt"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface over the
// append-only inspection history.
type LedgerServiceImpl struct {
	equipmentRepo secondary.EquipmentRepository
	historyRepo   secondary.HistoryRepository
	activityRepo  secondary.ActivityRepository
	txRunner      secondary.TransactionRunner
	certificates  secondary.CertificateResolver
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(
	equipmentRepo secondary.EquipmentRepository,
	historyRepo secondary.HistoryRepository,
	activityRepo secondary.ActivityRepository,
	txRunner secondary.TransactionRunner,
	certificates secondary.CertificateResolver,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		equipmentRepo: equipmentRepo,
		historyRepo:   historyRepo,
		activityRepo:  activityRepo,
		txRunner:      txRunner,
		certificates:  certificates,
	}
}

// GetEntry retrieves a single history entry by ID.
func (s *LedgerServiceImpl) GetEntry(ctx context.Context, id string) (*primary.HistoryEntry, error) {
	record, err := s.historyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToHistoryEntry(record), nil
}

// ListHistory retrieves the full history for an item, most recent first.
func (s *LedgerServiceImpl) ListHistory(ctx context.Context, equipmentID string) ([]*primary.HistoryEntry, error) {
	records, err := s.historyRepo.ListFor(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*primary.HistoryEntry, len(records))
	for i, r := range records {
		entries[i] = recordToHistoryEntry(r)
	}
	return entries, nil
}

// DeleteEntry removes one history entry and recomputes the owning item's
// status, last-inspection date and schedule from the remaining entries.
// The next-most-recent entry is promoted; when none remains, status and
// dates reset to empty. All writes commit atomically.
func (s *LedgerServiceImpl) DeleteEntry(ctx context.Context, id, actor string) error {
	entry, err := s.historyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	item, err := s.equipmentRepo.GetByID(ctx, entry.EquipmentID)
	if err != nil {
		return err
	}

	err = s.txRunner.InTransaction(ctx, func(stores secondary.Stores) error {
		if err := stores.History.Delete(ctx, id); err != nil {
			return err
		}

		latest, err := stores.History.Latest(ctx, entry.EquipmentID)
		if err != nil {
			return err
		}
		var promoted *inspection.LatestEntry
		if latest != nil {
			performedOn, err := parseDate("performed on", latest.PerformedOn)
			if err != nil {
				return err
			}
			nextDue, err := parseDate("next due", latest.NextDue)
			if err != nil {
				return err
			}
			promoted = &inspection.LatestEntry{
				PerformedOn: performedOn,
				Result:      inspection.Result(latest.Result),
				NextDue:     nextDue,
			}
		}
		outcome := inspection.ApplyHistoryDeletion(promoted)

		if err := stores.Equipment.UpdateStatus(ctx, entry.EquipmentID, string(outcome.Status)); err != nil {
			return err
		}
		if err := stores.Equipment.SetLastInspection(ctx, entry.EquipmentID, formatDate(outcome.LastInspection)); err != nil {
			return err
		}

		if promoted == nil {
			return stores.Schedules.ClearDates(ctx, entry.Serial)
		}
		schedule := &secondary.ScheduleRecord{
			Serial:        entry.Serial,
			LastPerformed: formatDate(outcome.LastPerformed),
			NextDue:       formatDate(outcome.NextDue),
			PerformedBy:   latest.PerformedBy,
		}
		return stores.Schedules.Upsert(ctx, schedule)
	})
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}

	logActivity(ctx, s.activityRepo, "history entry removed", item.Name, item.Serial, actor)
	return nil
}

// ResolveCertificate resolves an entry's certificate reference.
func (s *LedgerServiceImpl) ResolveCertificate(ctx context.Context, entryID string) (string, error) {
	entry, err := s.historyRepo.GetByID(ctx, entryID)
	if err != nil {
		return "", err
	}
	if entry.CertificateRef == "" {
		return "", inspection.NotFound("certificate for history entry", entryID)
	}
	location, err := s.certificates.Resolve(entry.CertificateRef)
	if err != nil {
		return "", fmt.Errorf("failed to resolve certificate: %w", err)
	}
	return location, nil
}

// ListPerformers returns the distinct performer names in the ledger.
func (s *LedgerServiceImpl) ListPerformers(ctx context.Context) ([]string, error) {
	performers, err := s.historyRepo.DistinctPerformers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list performers: %w", err)
	}
	return performers, nil
}

// recordToHistoryEntry maps a history record to the port type.
func recordToHistoryEntry(r *secondary.HistoryRecord) *primary.HistoryEntry {
	return &primary.HistoryEntry{
		ID:             r.ID,
		EquipmentID:    r.EquipmentID,
		Serial:         r.Serial,
		PerformedOn:    r.PerformedOn,
		Result:         r.Result,
		PerformedBy:    r.PerformedBy,
		Notes:          r.Notes,
		NextDue:        r.NextDue,
		CertificateRef: r.CertificateRef,
		CreatedAt:      r.CreatedAt,
	}
}
