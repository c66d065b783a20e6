package garmin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// APIError represents a non-success response from the activity service.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("garmin: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Is maps the response status onto domain errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrUploadConflict:
		return e.StatusCode == http.StatusConflict
	case domain.ErrAuthExpired:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case domain.ErrUploadFailed:
		return e.StatusCode != http.StatusConflict &&
			e.StatusCode != http.StatusUnauthorized &&
			e.StatusCode != http.StatusForbidden
	}
	return false
}

// RateLimitError is returned when the service keeps answering 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("garmin: rate limit exceeded, retry after %s", e.RetryAfter)
}

// Is reports rate limiting as a failed upload of the current file.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrUploadFailed
}
