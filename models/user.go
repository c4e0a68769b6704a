package models

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID                 string         `json:"id"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Email              string         `json:"email"`
	PasswordHash       string         `json:"-"`
	Role               string         `json:"role"`
	Photo              string         `json:"photo,omitempty"`
	Verified           bool           `json:"-"`
	Active             bool           `json:"-"`
	VerificationCode   sql.NullString `json:"-"`
	PasswordResetToken sql.NullString `json:"-"`
	PasswordResetAt    sql.NullTime   `json:"-"`
	PasswordChangedAt  sql.NullTime   `json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// ComparePassword checks a candidate password against the stored bcrypt hash.
func (u *User) ComparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// PasswordChangedAfter reports whether the password was changed strictly
// after the given token issue time. Any token issued before the most recent
// password change is permanently unusable.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if !u.PasswordChangedAt.Valid {
		return false
	}
	// Compare at second granularity, matching the token's iat precision.
	return u.PasswordChangedAt.Time.Truncate(time.Second).After(issuedAt.Truncate(time.Second))
}
