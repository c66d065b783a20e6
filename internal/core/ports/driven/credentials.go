package driven

import (
	"context"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// CredentialProvider supplies credentials for authentication.
// Implementations may read configuration, the environment or a terminal.
type CredentialProvider interface {
	// Credentials returns complete credentials or an error wrapping
	// domain.ErrAuthRequired.
	Credentials(ctx context.Context) (domain.Credentials, error)
}

// SessionStore persists an authenticated session between runs.
type SessionStore interface {
	// Load returns the stored session, or nil and no error if none exists.
	Load(ctx context.Context) (*domain.Session, error)

	// Save stores the session, replacing any previous one.
	Save(ctx context.Context, session *domain.Session) error

	// Clear removes the stored session.
	Clear(ctx context.Context) error
}
