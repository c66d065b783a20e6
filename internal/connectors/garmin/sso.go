package garmin

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/logger"
)

var (
	csrfPattern   = regexp.MustCompile(`name="_csrf"\s+value="([^"]+)"`)
	titlePattern  = regexp.MustCompile(`<title>([^<]*)</title>`)
	ticketPattern = regexp.MustCompile(`embed\?ticket=([^"]+)"`)
)

// Authenticate signs in through the SSO login form and turns the resulting
// service ticket into a session:
//
//  1. GET  {sso}/embed      sets the SSO cookies
//  2. GET  {sso}/signin     yields the CSRF token
//  3. POST {sso}/signin     returns the service ticket
//  4. GET  preauthorized    trades the ticket for an OAuth1 token
//  5. POST exchange         trades the OAuth1 token for an OAuth2 access token
func (c *Client) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	if !creds.IsComplete() {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrAuthRequired)
	}

	ticket, err := c.signIn(ctx, creds)
	if err != nil {
		return nil, err
	}
	logger.Debug("Obtained SSO ticket for %q", creds.Username)

	token, err := c.preauthorize(ctx, ticket)
	if err != nil {
		return nil, err
	}

	session, err := c.exchange(ctx, token)
	if err != nil {
		return nil, err
	}
	session.Username = creds.Username
	return session, nil
}

// signIn posts the login form and returns the service ticket.
func (c *Client) signIn(ctx context.Context, creds domain.Credentials) (string, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", fmt.Errorf("cookie jar: %w", err)
	}
	browser := &http.Client{
		Transport: c.httpClient.Transport,
		Timeout:   c.httpClient.Timeout,
		Jar:       jar,
	}

	embedURL := c.ssoURL + "/embed"
	embedQuery := url.Values{
		"id":          {"gauth-widget"},
		"embedWidget": {"true"},
		"gauthHost":   {c.ssoURL},
	}
	if _, err := c.fetchPage(ctx, browser, http.MethodGet, embedURL+"?"+embedQuery.Encode(), nil, ""); err != nil {
		return "", err
	}

	signinURL := c.ssoURL + "/signin?" + url.Values{
		"id":                              {"gauth-widget"},
		"embedWidget":                     {"true"},
		"gauthHost":                       {embedURL},
		"service":                         {embedURL},
		"source":                          {embedURL},
		"redirectAfterAccountLoginUrl":    {embedURL},
		"redirectAfterAccountCreationUrl": {embedURL},
	}.Encode()

	page, err := c.fetchPage(ctx, browser, http.MethodGet, signinURL, nil, embedURL)
	if err != nil {
		return "", err
	}
	csrf := csrfPattern.FindStringSubmatch(page)
	if csrf == nil {
		return "", fmt.Errorf("%w: sign-in page carries no CSRF token", domain.ErrAuthInvalid)
	}

	form := url.Values{
		"username": {creds.Username},
		"password": {creds.Password},
		"embed":    {"true"},
		"_csrf":    {csrf[1]},
	}
	page, err = c.fetchPage(ctx, browser, http.MethodPost, signinURL, form, signinURL)
	if err != nil {
		return "", err
	}

	title := ""
	if m := titlePattern.FindStringSubmatch(page); m != nil {
		title = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	if title != "Success" {
		if strings.Contains(strings.ToLower(title), "mfa") {
			return "", fmt.Errorf("%w: account requires multi-factor authentication, which is not supported", domain.ErrAuthInvalid)
		}
		return "", fmt.Errorf("%w: sign-in rejected (%q)", domain.ErrAuthInvalid, title)
	}

	ticket := ticketPattern.FindStringSubmatch(page)
	if ticket == nil {
		return "", fmt.Errorf("%w: sign-in succeeded without a service ticket", domain.ErrAuthInvalid)
	}
	return ticket[1], nil
}

// fetchPage performs one SSO request and returns the body of a 2xx answer.
// A non-nil form is posted url-encoded.
func (c *Client) fetchPage(
	ctx context.Context,
	browser *http.Client,
	method, target string,
	form url.Values,
	referer string,
) (string, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return "", fmt.Errorf("create sso request: %w", err)
	}
	req.Header.Set("User-Agent", mobileUserAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := browser.Do(req)
	if err != nil {
		return "", fmt.Errorf("sso request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read sso response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Status, payload),
			URL:        req.URL.Scheme + "://" + req.URL.Host + req.URL.Path,
		}
	}
	return string(payload), nil
}
