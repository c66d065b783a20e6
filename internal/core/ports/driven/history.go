package driven

import (
	"context"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// HistoryStore keeps a log of processing attempts across runs.
type HistoryStore interface {
	// Record appends entries.
	Record(ctx context.Context, entries []domain.HistoryEntry) error

	// Recent returns up to limit entries, most recent first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Prune keeps only the most recent 'keep' entries.
	Prune(ctx context.Context, keep int) error
}
