package garmin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
	"github.com/custodia-labs/fitedit/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// MaxRetries is the maximum number of retries for rate-limited uploads.
	MaxRetries = 3

	// RetryDelay is the delay used when a 429 carries no Retry-After.
	RetryDelay = 5 * time.Second

	// UploadPath is the upload service endpoint, relative to the base URL.
	UploadPath = "/upload-service/upload"

	userAgent = "fitedit"

	// mobileUserAgent is what the sign-on and OAuth endpoints expect.
	mobileUserAgent = "com.garmin.android.apps.connectmobile"
)

// Ensure Client implements the interface.
var _ driven.ActivityService = (*Client)(nil)

// Client talks to Garmin Connect: SSO sign-in, the OAuth1 to OAuth2
// exchange and the upload service.
type Client struct {
	baseURL     string
	ssoURL      string
	consumer    *consumer
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client from the service configuration.
func NewClient(cfg domain.GarminConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = domain.DefaultBaseURL
	}
	ssoURL := cfg.SSOURL
	if ssoURL == "" {
		ssoURL = domain.DefaultSSOURL
	}
	consumerURL := cfg.ConsumerURL
	if consumerURL == "" {
		consumerURL = domain.DefaultConsumerURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ssoURL:  strings.TrimRight(ssoURL, "/"),
		consumer: &consumer{
			key:    cfg.ConsumerKey,
			secret: cfg.ConsumerSecret,
			url:    consumerURL,
		},
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		rateLimiter: NewRateLimiter(cfg.UploadsPerMinute),
	}
}

// Upload streams one activity file to the upload service.
// When body implements io.Seeker a rate-limited upload is retried.
// An access token renewed on the way is returned in the ack.
func (c *Client) Upload(
	ctx context.Context,
	session *domain.Session,
	name string,
	body io.Reader,
) (*domain.UploadAck, error) {
	if session == nil || session.AccessToken == "" {
		return nil, fmt.Errorf("%w: no session", domain.ErrAuthRequired)
	}
	if !session.IsUsable() {
		return nil, fmt.Errorf("%w: access token expired and cannot be renewed", domain.ErrAuthExpired)
	}

	source := &renewingSource{ctx: ctx, client: c, session: session}
	httpClient := c.authorizedClient(ctx, session, source)
	seeker, canRetry := body.(io.Seeker)

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		ack, err := c.upload(ctx, httpClient, name, body)
		if ack != nil {
			ack.Session = source.Renewed()
		}
		var rateLimitErr *RateLimitError
		if !errors.As(err, &rateLimitErr) || !canRetry || attempt >= MaxRetries {
			return ack, err
		}

		logger.Warn("Rate limited uploading %q, retrying in %s", name, rateLimitErr.RetryAfter)
		if err := c.rateLimiter.Backoff(ctx, rateLimitErr); err != nil {
			return nil, err
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind %s: %w", name, err)
		}
	}
}

// authorizedClient returns an HTTP client that sends the session's bearer
// token, renewing it through source once it expires.
func (c *Client) authorizedClient(ctx context.Context, session *domain.Session, source oauth2.TokenSource) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tc := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(toOAuth2(session), source))
	tc.Timeout = DefaultTimeout
	return tc
}

func (c *Client) upload(ctx context.Context, httpClient *http.Client, name string, body io.Reader) (*domain.UploadAck, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	done := make(chan struct{})
	go func() {
		defer close(done)
		part, err := mw.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()
	// The writer must be finished with body before a retry rewinds it.
	defer func() {
		pr.Close()
		<-done
	}()

	url := c.baseURL + UploadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			return nil, fmt.Errorf("renew access token: %w", err)
		}
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Status, payload),
			URL:        url,
		}
	}

	return parseAck(payload), nil
}

// uploadResponse is the subset of the upload service's reply that is used.
type uploadResponse struct {
	DetailedImportResult struct {
		UploadID  json.Number `json:"uploadId"`
		Successes []struct {
			InternalID json.Number `json:"internalId"`
		} `json:"successes"`
	} `json:"detailedImportResult"`
}

func parseAck(payload []byte) *domain.UploadAck {
	ack := &domain.UploadAck{}
	var resp uploadResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return ack
	}
	if s := resp.DetailedImportResult.Successes; len(s) > 0 {
		ack.ActivityID = s[0].InternalID.String()
	} else if id := resp.DetailedImportResult.UploadID.String(); id != "" {
		ack.ActivityID = id
	}
	return ack
}

func errorMessage(status string, payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if msg := strings.TrimSpace(string(payload)); msg != "" && len(msg) < 200 {
		return msg
	}
	return status
}

// ParseRetryAfter parses a Retry-After header value in seconds.
func ParseRetryAfter(v string) (time.Duration, bool) {
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
