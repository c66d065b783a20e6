package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// LedgerStore is an in-memory implementation of driven.LedgerStore.
// It stores copies so callers cannot mutate persisted state.
type LedgerStore struct {
	mu      sync.RWMutex
	ledgers map[string][]string
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{ledgers: make(map[string][]string)}
}

// Load returns a copy of the ledger for dir, or nil if none was saved.
func (s *LedgerStore) Load(_ context.Context, dir string) (*domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths, ok := s.ledgers[dir]
	if !ok {
		return nil, nil
	}
	return domain.NewLedger(dir, paths), nil
}

// Save replaces the stored ledger for l.Dir.
func (s *LedgerStore) Save(_ context.Context, l *domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledgers[l.Dir] = l.Paths()
	return nil
}

// Paths returns the stored paths for dir.
func (s *LedgerStore) Paths(dir string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths, ok := s.ledgers[dir]
	if !ok {
		return nil, false
	}
	out := make([]string, len(paths))
	copy(out, paths)
	return out, true
}
