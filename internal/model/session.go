package model

import "time"

// Session maps an opaque token to a user, with an explicit expiry.
// Sessions live in a SessionStore rather than any framework session object.
type Session struct {
	Token     string
	UserID    UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ExpiredAt reports whether the session has expired at now
func (s *Session) ExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
