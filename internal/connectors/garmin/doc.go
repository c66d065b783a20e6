// Package garmin implements the activity service client for Garmin Connect.
//
// # Authentication
//
// Sessions are obtained the way the Garmin Connect mobile app signs in:
// the SSO login form yields a service ticket, the ticket is traded for a
// long-lived OAuth1 token (signed with the app's consumer key), and the
// OAuth1 token is exchanged for a short-lived OAuth 2.0 access token. Both
// tokens are kept in the [domain.Session]; an expired access token is renewed
// by repeating the exchange, so no password is needed until the OAuth1 token
// itself is revoked. Accounts with multi-factor authentication are rejected.
//
// # Uploads
//
// Activities are streamed as multipart/form-data to the upload service.
// The service's responses map onto domain errors:
//
//   - 409 Conflict: the activity already exists, [domain.ErrUploadConflict]
//   - 401/403: the session is no longer valid, [domain.ErrAuthExpired]
//   - 429: rate limited; retried after Retry-After
//   - any other non-2xx: [domain.ErrUploadFailed]
//
// # Rate Limiting
//
// Uploads are throttled with a token bucket (uploads_per_minute) so large
// backlogs do not trip the service's abuse detection.
package garmin
