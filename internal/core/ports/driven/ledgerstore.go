package driven

import (
	"context"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// LedgerStore persists upload ledgers, one per directory.
type LedgerStore interface {
	// Load reads the ledger for dir. It returns nil and no error if the
	// directory has no ledger yet. Unreadable ledgers wrap domain.ErrLedgerIO.
	Load(ctx context.Context, dir string) (*domain.Ledger, error)

	// Save atomically replaces the persisted ledger with l's full contents.
	// A failed save leaves the previous ledger intact.
	Save(ctx context.Context, l *domain.Ledger) error
}
