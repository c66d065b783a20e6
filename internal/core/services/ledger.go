package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// UploadLedger is the per-directory record of uploaded files, bound to the
// store it is flushed to. Under dry-run it tracks records in memory only.
type UploadLedger struct {
	store  driven.LedgerStore
	ledger *domain.Ledger
	dryRun bool
}

// LoadLedger reads the ledger for dir. A directory without a ledger gets an
// empty one, persisted immediately unless dryRun is set.
func LoadLedger(ctx context.Context, store driven.LedgerStore, dir string, dryRun bool) (*UploadLedger, error) {
	l, err := store.Load(ctx, dir)
	if err != nil {
		return nil, ledgerErr("load", dir, err)
	}

	if l == nil {
		l = domain.NewLedger(dir, nil)
		if !dryRun {
			if err := store.Save(ctx, l); err != nil {
				return nil, ledgerErr("create", dir, err)
			}
		}
		logger.Debug("Created empty ledger for %s", dir)
	}

	logger.Debug("Found %d already uploaded files in %s", l.Len(), dir)
	return &UploadLedger{store: store, ledger: l, dryRun: dryRun}, nil
}

// Contains reports whether path (relative to the ledger directory) is recorded.
func (u *UploadLedger) Contains(path string) bool {
	return u.ledger.Contains(path)
}

// Record adds path in memory. It does not persist.
func (u *UploadLedger) Record(path string) bool {
	added := u.ledger.Record(path)
	if added {
		logger.Debug("Adding %q to uploaded files", path)
	}
	return added
}

// Len returns the number of recorded paths.
func (u *UploadLedger) Len() int {
	return u.ledger.Len()
}

// Paths returns the recorded paths in insertion order.
func (u *UploadLedger) Paths() []string {
	return u.ledger.Paths()
}

// Flush persists the full set. It is a no-op under dry-run or when nothing
// was recorded since the last flush.
func (u *UploadLedger) Flush(ctx context.Context) error {
	if u.dryRun {
		logger.Debug("Dry run: not writing ledger for %s", u.ledger.Dir)
		return nil
	}
	if !u.ledger.Dirty() {
		return nil
	}
	if err := u.store.Save(ctx, u.ledger); err != nil {
		return ledgerErr("flush", u.ledger.Dir, err)
	}
	u.ledger.MarkClean()
	return nil
}

func ledgerErr(op, dir string, err error) error {
	if errors.Is(err, domain.ErrLedgerIO) {
		return fmt.Errorf("%s ledger for %s: %w", op, dir, err)
	}
	return fmt.Errorf("%s ledger for %s: %w: %w", op, dir, domain.ErrLedgerIO, err)
}
