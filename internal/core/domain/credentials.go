package domain

import "time"

// Credentials are the username and password used to open an upload session.
type Credentials struct {
	Username string
	Password string
}

// IsComplete returns true if both username and password are set.
func (c Credentials) IsComplete() bool {
	return c.Username != "" && c.Password != ""
}

// Session is an authenticated upload session.
type Session struct {
	// Username is the account the session belongs to.
	Username string `json:"username,omitempty"`
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is the OAuth2 refresh token issued with AccessToken.
	RefreshToken string `json:"refresh_token,omitempty"`
	// OAuth1Token and OAuth1Secret are the long-lived credentials from the
	// sign-on ticket; they are exchanged for new access tokens.
	OAuth1Token  string `json:"oauth1_token,omitempty"`
	OAuth1Secret string `json:"oauth1_token_secret,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the access token has expired.
func (s *Session) IsExpired() bool {
	if s.Expiry.IsZero() {
		return false
	}
	return time.Now().After(s.Expiry)
}

// CanRenew reports whether an expired access token can be exchanged for a
// new one without signing in again.
func (s *Session) CanRenew() bool {
	return s != nil && s.OAuth1Token != "" && s.OAuth1Secret != ""
}

// IsUsable returns true if the session can be used directly or renewed.
func (s *Session) IsUsable() bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return !s.IsExpired() || s.CanRenew()
}

// UploadAck is the activity service's acknowledgement of an upload.
type UploadAck struct {
	// ActivityID is the remote identifier, when the service reports one.
	ActivityID string
	// Conflict is set when the activity already existed.
	Conflict bool
	// Session is set when the access token was renewed during the upload.
	Session *Session
}
