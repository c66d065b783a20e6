package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// ActivityService is the remote platform activities are uploaded to.
type ActivityService interface {
	// Authenticate exchanges credentials for a session.
	// Rejected credentials wrap domain.ErrAuthInvalid.
	Authenticate(ctx context.Context, creds domain.Credentials) (*domain.Session, error)

	// Renew obtains a new access token for a session whose token expired.
	// Failures wrap domain.ErrAuthExpired.
	Renew(ctx context.Context, session *domain.Session) (*domain.Session, error)

	// Upload sends one encoded activity file read from body.
	// An activity that already exists wraps domain.ErrUploadConflict;
	// an unusable session wraps domain.ErrAuthExpired. A token renewed
	// during the upload is reported in UploadAck.Session.
	Upload(ctx context.Context, session *domain.Session, name string, body io.Reader) (*domain.UploadAck, error)
}
