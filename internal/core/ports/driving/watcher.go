package driving

import (
	"context"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// DirectoryWatcher uploads activity files as they appear under a root.
type DirectoryWatcher interface {
	// Watch blocks until ctx is cancelled or the subscription fails.
	Watch(ctx context.Context, root string, dryRun bool) error

	// State returns the current watcher state.
	State() domain.WatchState
}

// HistoryService exposes past processing attempts.
type HistoryService interface {
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}
