package interfaces

import "context"

// Credentials are extracted per request from the basic auth header and never
// persisted.
type Credentials struct {
	Username string
	Password string
}

// SessionService owns the single live IMAP connection plus outbound SMTP
// client. Both handles are created together on the first successful
// authentication and destroyed together on logout.
type SessionService interface {
	// EnsureSession lazily establishes the connection and outbound client if
	// absent. If a connection already exists it is reused even when the
	// credentials differ: last-authenticated identity wins.
	EnsureSession(ctx context.Context, creds Credentials) error
	Authenticated() bool
	Logout(ctx context.Context) error
}
