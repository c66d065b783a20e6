package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dghubble/oauth1"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/logger"
)

const (
	// PreauthorizedPath trades an SSO ticket for an OAuth1 token.
	PreauthorizedPath = "/oauth-service/oauth/preauthorized"

	// ExchangePath trades an OAuth1 token for an OAuth2 access token.
	ExchangePath = "/oauth-service/oauth/exchange/user/2.0"
)

// oauth1Token is the long-lived token issued for a service ticket.
type oauth1Token struct {
	Token    string
	Secret   string
	MFAToken string
}

// consumer holds the OAuth1 consumer credentials, fetched at most once.
type consumer struct {
	key, secret, url string

	once sync.Once
	err  error
}

// consumerConfig returns the OAuth1 consumer configuration.
func (c *Client) consumerConfig(ctx context.Context) (*oauth1.Config, error) {
	c.consumer.once.Do(func() {
		if c.consumer.key != "" && c.consumer.secret != "" {
			return
		}
		c.consumer.key, c.consumer.secret, c.consumer.err = c.fetchConsumer(ctx)
	})
	if c.consumer.err != nil {
		return nil, c.consumer.err
	}
	return oauth1.NewConfig(c.consumer.key, c.consumer.secret), nil
}

func (c *Client) fetchConsumer(ctx context.Context) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.consumer.url, nil)
	if err != nil {
		return "", "", fmt.Errorf("create consumer request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch oauth consumer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch oauth consumer: %s", resp.Status)
	}
	var body struct {
		Key    string `json:"consumer_key"`
		Secret string `json:"consumer_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", fmt.Errorf("decode oauth consumer: %w", err)
	}
	if body.Key == "" || body.Secret == "" {
		return "", "", fmt.Errorf("oauth consumer at %s is incomplete", c.consumer.url)
	}
	return body.Key, body.Secret, nil
}

// signedClient returns an HTTP client signing requests with the consumer
// and token. An empty token signs with the consumer alone.
func (c *Client) signedClient(ctx context.Context, token *oauth1Token) (*http.Client, error) {
	cfg, err := c.consumerConfig(ctx)
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, oauth1.HTTPClient, c.httpClient)
	client := cfg.Client(ctx, oauth1.NewToken(token.Token, token.Secret))
	client.Timeout = DefaultTimeout
	return client, nil
}

// preauthorize trades the service ticket for an OAuth1 token.
func (c *Client) preauthorize(ctx context.Context, ticket string) (*oauth1Token, error) {
	client, err := c.signedClient(ctx, &oauth1Token{})
	if err != nil {
		return nil, err
	}

	target := c.baseURL + PreauthorizedPath + "?" + url.Values{
		"ticket":             {ticket},
		"login-url":          {c.ssoURL + "/embed"},
		"accepts-mfa-tokens": {"true"},
	}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create preauthorize request: %w", err)
	}
	req.Header.Set("User-Agent", mobileUserAgent)

	payload, err := c.doOAuth(client, req)
	if err != nil {
		return nil, fmt.Errorf("preauthorize: %w", err)
	}
	values, err := url.ParseQuery(string(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: preauthorize answer: %w", domain.ErrAuthInvalid, err)
	}
	token := &oauth1Token{
		Token:    values.Get("oauth_token"),
		Secret:   values.Get("oauth_token_secret"),
		MFAToken: values.Get("mfa_token"),
	}
	if token.Token == "" || token.Secret == "" {
		return nil, fmt.Errorf("%w: preauthorize answer carries no oauth token", domain.ErrAuthInvalid)
	}
	return token, nil
}

// exchange trades the OAuth1 token for a fresh OAuth2 access token.
func (c *Client) exchange(ctx context.Context, token *oauth1Token) (*domain.Session, error) {
	client, err := c.signedClient(ctx, token)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	if token.MFAToken != "" {
		form.Set("mfa_token", token.MFAToken)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ExchangePath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", mobileUserAgent)

	payload, err := c.doOAuth(client, req)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: decode exchange answer: %w", domain.ErrAuthInvalid, err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("%w: exchange answer carries no access token", domain.ErrAuthInvalid)
	}

	session := &domain.Session{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		TokenType:    body.TokenType,
		OAuth1Token:  token.Token,
		OAuth1Secret: token.Secret,
	}
	if session.TokenType == "" {
		session.TokenType = "Bearer"
	}
	if body.ExpiresIn > 0 {
		session.Expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	}
	return session, nil
}

// doOAuth sends a signed request. 401 and 403 answers mean the consumer or
// token was rejected.
func (c *Client) doOAuth(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", domain.ErrAuthInvalid, errorMessage(resp.Status, payload))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Status, payload),
			URL:        req.URL.Scheme + "://" + req.URL.Host + req.URL.Path,
		}
	}
	return payload, nil
}

// Renew exchanges the session's OAuth1 token for a new access token.
func (c *Client) Renew(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if !session.CanRenew() {
		return nil, fmt.Errorf("%w: session cannot be renewed", domain.ErrAuthExpired)
	}
	renewed, err := c.exchange(ctx, &oauth1Token{Token: session.OAuth1Token, Secret: session.OAuth1Secret})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
	}
	renewed.Username = session.Username
	logger.Debug("Renewed access token for %q", session.Username)
	return renewed, nil
}

// renewingSource is an oauth2.TokenSource that renews through the OAuth1
// exchange and remembers the last session it produced.
type renewingSource struct {
	ctx     context.Context
	client  *Client
	session *domain.Session

	mu      sync.Mutex
	renewed *domain.Session
}

func (s *renewingSource) Token() (*oauth2.Token, error) {
	renewed, err := s.client.Renew(s.ctx, s.session)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.renewed = renewed
	s.mu.Unlock()
	return toOAuth2(renewed), nil
}

// Renewed returns the session produced by the last renewal, or nil.
func (s *renewingSource) Renewed() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renewed
}

func toOAuth2(s *domain.Session) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}
}
