package driven

import (
	"context"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// EventSource delivers file creation events under a root directory.
type EventSource interface {
	// Subscribe starts watching root recursively. The returned channel is
	// closed when ctx is cancelled or the underlying subscription fails.
	Subscribe(ctx context.Context, root string) (<-chan domain.WatchEvent, error)
}
