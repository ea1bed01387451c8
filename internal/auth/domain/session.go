package domain

import "time"

// Session marks a client as authenticated. The plaintext token lives only in
// the client's cookie; stores index sessions by the token fingerprint.
type Session struct {
	ID        string // ULID
	TokenHash string
	UserID    int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpiredAt reports whether the session is no longer valid at t.
func (s Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
