package models

import (
	"database/sql"
	"time"
)

// Session anchors one logical login. Token pairs reference the session; the
// session references its owner. Sessions are never deleted, only invalidated.
type Session struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserAgent string `json:"user_agent"`

	// Valid and InvalidatedAt are hidden from clients and from default
	// queries; callers reasoning about validity must opt in explicitly.
	Valid         bool         `json:"-"`
	InvalidatedAt sql.NullTime `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Stored is true once the session has been loaded from or written to the
	// database. A brand-new struct never gets an invalidation timestamp.
	Stored bool `json:"-"`
}

// Invalidate flips the session to invalid. The invalidation timestamp is
// stamped only when a stored session actually transitions from valid to
// invalid: never on creation, never on a no-op.
func (s *Session) Invalidate() bool {
	if !s.Stored || !s.Valid {
		return false
	}
	s.Valid = false
	s.InvalidatedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	return true
}
