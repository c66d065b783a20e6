package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionFileName is the session file inside the data directory.
const SessionFileName = "session.json"

// SessionStore persists the upload session as JSON readable only by the owner.
type SessionStore struct {
	path string
}

// NewSessionStore creates a session store under dataDir.
func NewSessionStore(dataDir string) *SessionStore {
	return &SessionStore{path: filepath.Join(dataDir, SessionFileName)}
}

// Path returns the session file path.
func (s *SessionStore) Path() string {
	return s.path
}

// Load returns the stored session, or nil if none has been saved.
func (s *SessionStore) Load(_ context.Context) (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", s.path, err)
	}
	return &session, nil
}

// Save stores session, replacing any previous one.
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if session == nil {
		return fmt.Errorf("%w: nil session", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *SessionStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
