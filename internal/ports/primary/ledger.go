package primary

import "context"

// LedgerService defines the primary port for the inspection history ledger.
// Entries are immutable once written; the only mutation is deletion, which
// recomputes the item's derived state from what remains.
type LedgerService interface {
	// GetEntry retrieves a single history entry by ID.
	GetEntry(ctx context.Context, id string) (*HistoryEntry, error)

	// ListHistory retrieves the full history for an item, most recent
	// first.
	ListHistory(ctx context.Context, equipmentID string) ([]*HistoryEntry, error)

	// DeleteEntry removes one history entry and recomputes the item's
	// status, last-inspection date and schedule from the remaining
	// entries, atomically.
	DeleteEntry(ctx context.Context, id, actor string) error

	// ResolveCertificate resolves an entry's certificate reference to an
	// openable location.
	ResolveCertificate(ctx context.Context, entryID string) (string, error)

	// ListPerformers returns the distinct performer names seen in the
	// ledger, for filter facets.
	ListPerformers(ctx context.Context) ([]string, error)
}

// HistoryEntry represents a ledger entry at the port boundary.
type HistoryEntry struct {
	ID             string
	EquipmentID    string
	Serial         string
	PerformedOn    string
	Result         string
	PerformedBy    string
	Notes          string
	NextDue        string
	CertificateRef string
	CreatedAt      string
}
