package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Activity File Errors.

	// ErrDecode indicates the activity file is not a valid FIT container.
	// The file is skipped; the batch continues.
	ErrDecode = errors.New("decode failed")

	// ErrEncode indicates a message sequence could not be serialised.
	ErrEncode = errors.New("encode failed")

	// Upload Errors.

	// ErrUploadConflict indicates the activity already exists remotely.
	// It is a successful terminal state for ledger purposes.
	ErrUploadConflict = errors.New("activity already exists")

	// ErrUploadFailed indicates the activity service rejected an upload.
	ErrUploadFailed = errors.New("upload failed")

	// ErrLedgerIO indicates the upload ledger could not be read or written.
	// Without known dedup state the batch cannot safely continue.
	ErrLedgerIO = errors.New("ledger i/o")

	// Authentication Errors.

	// ErrAuthRequired indicates no credentials or session are available.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the session has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAuthInvalid indicates the credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrSubscriptionClosed indicates the filesystem event stream ended
	// while the watcher was still armed.
	ErrSubscriptionClosed = errors.New("watch subscription closed")
)

// IsSessionError reports whether err invalidates the whole upload session,
// as opposed to a single file.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrAuthRequired) ||
		errors.Is(err, ErrAuthExpired) ||
		errors.Is(err, ErrAuthInvalid)
}
