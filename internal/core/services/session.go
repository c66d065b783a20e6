package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// SessionManager obtains an upload session, preferring a stored one and
// falling back to credentials. The first successful session is cached.
type SessionManager struct {
	service     driven.ActivityService
	credentials driven.CredentialProvider
	store       driven.SessionStore // optional

	mu      sync.Mutex
	current *domain.Session
}

// NewSessionManager creates a session manager. store may be nil.
func NewSessionManager(
	service driven.ActivityService,
	credentials driven.CredentialProvider,
	store driven.SessionStore,
) *SessionManager {
	return &SessionManager{
		service:     service,
		credentials: credentials,
		store:       store,
	}
}

// Session returns a usable session. An expired session is renewed when the
// service allows it; otherwise credentials are collected and a new session
// is opened. Failures wrap domain.ErrAuthRequired or domain.ErrAuthInvalid.
func (m *SessionManager) Session(ctx context.Context) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.IsUsable() && !m.current.IsExpired() {
		return m.current, nil
	}

	candidate := m.current
	if !candidate.IsUsable() {
		candidate = m.loadStored(ctx)
	}
	if candidate.IsUsable() {
		if !candidate.IsExpired() {
			logger.Debug("Using stored session for %q", candidate.Username)
			m.current = candidate
			return candidate, nil
		}
		renewed, err := m.service.Renew(ctx, candidate)
		if err == nil {
			m.save(ctx, renewed)
			m.current = renewed
			return renewed, nil
		}
		logger.Warn("Could not renew session for %q, signing in again: %v", candidate.Username, err)
	}

	if m.credentials == nil {
		return nil, fmt.Errorf("%w: no credential provider configured", domain.ErrAuthRequired)
	}
	creds, err := m.credentials.Credentials(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}

	logger.Info("Authenticating to the activity service as %q", creds.Username)
	session, err := m.service.Authenticate(ctx, creds)
	if err != nil {
		if domain.IsSessionError(err) {
			return nil, fmt.Errorf("authenticate: %w", err)
		}
		return nil, fmt.Errorf("authenticate: %w: %w", domain.ErrAuthInvalid, err)
	}
	if session.Username == "" {
		session.Username = creds.Username
	}

	m.save(ctx, session)
	m.current = session
	return session, nil
}

// Renewed records a session the service renewed during an upload. The
// cached session is updated in place so callers holding it pick up the
// new token.
func (m *SessionManager) Renewed(ctx context.Context, renewed *domain.Session) {
	if renewed == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		*m.current = *renewed
	} else {
		m.current = renewed
	}
	m.save(ctx, m.current)
}

func (m *SessionManager) loadStored(ctx context.Context) *domain.Session {
	if m.store == nil {
		return nil
	}
	stored, err := m.store.Load(ctx)
	if err != nil {
		logger.Warn("Could not read stored session: %v", err)
		return nil
	}
	return stored
}

func (m *SessionManager) save(ctx context.Context, session *domain.Session) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, session); err != nil {
		logger.Warn("Could not store session: %v", err)
	}
}

// Invalidate drops the cached and stored session after the service rejected it.
func (m *SessionManager) Invalidate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	if m.store != nil {
		if err := m.store.Clear(ctx); err != nil {
			logger.Warn("Could not clear stored session: %v", err)
		}
	}
}
