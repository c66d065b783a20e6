package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// UploadOrchestrator rewrites and uploads activity files.
type UploadOrchestrator interface {
	// ProcessDirectory handles every activity file directly under dir that the
	// directory's ledger does not list yet. Per-file failures are reported in
	// the BatchReport; only session and ledger failures return an error.
	ProcessDirectory(ctx context.Context, dir string, mode domain.Mode, dryRun bool) (*domain.BatchReport, error)

	// EditFile rewrites a single file to output (default "<stem>_modified.fit").
	EditFile(ctx context.Context, path, output string, dryRun bool) (*EditResult, error)

	// UploadFile rewrites and uploads a single file without consulting a ledger.
	UploadFile(ctx context.Context, path string, dryRun bool) (*EditResult, error)
}

// EditResult describes a single-file edit.
type EditResult struct {
	Output       string
	ActivityTime *time.Time
	Changed      int
	Conflict     bool
}
