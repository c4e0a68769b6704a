package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gotours/config"
	"gotours/models"
	"gotours/utils"
)

// Default session projection. The valid and invalidated_at columns are
// deliberately absent: callers that reason about validity must use
// FindSession, which opts in to the hidden fields.
const sessionColumns = `id, user_id, user_agent, created_at, updated_at`

// CreateSession inserts a new valid session for the user. A user may hold
// any number of concurrent sessions (multi-device).
func CreateSession(userID, userAgent string) (*models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserAgent: userAgent,
		Valid:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	insertQuery := `INSERT INTO sessions (id, user_id, user_agent, valid, created_at, updated_at)
					VALUES (?, ?, ?, 1, ?, ?)`
	if _, err := config.DB.Exec(insertQuery, session.ID, session.UserID, session.UserAgent, now, now); err != nil {
		return nil, err
	}

	session.Stored = true
	return session, nil
}

// SignTokenPair creates a fresh session and signs the access/refresh token
// pair for it. Called exactly once per successful login or explicit
// re-authentication; tokens are never reused across sessions.
func SignTokenPair(user *models.User, userAgent string) (accessToken, refreshToken string, err error) {
	session, err := CreateSession(user.ID, userAgent)
	if err != nil {
		return "", "", err
	}

	accessToken, err = utils.SignAccessToken(user.ID, session.ID, config.C.Keys.AccessPrivate, config.C.AccessTTL())
	if err != nil {
		return "", "", err
	}

	refreshToken, err = utils.SignRefreshToken(session.ID, config.C.Keys.RefreshPrivate, config.C.RefreshTTL())
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ReissueAccessToken verifies a refresh token and signs a new access token
// for its session. The owner is always re-derived from the live session row,
// never from the refresh token's claims, so revoking a session immediately
// blocks re-issuance even while the refresh token stays cryptographically
// valid. Returns ("", false) on any failure.
func ReissueAccessToken(refreshToken string) (string, bool) {
	claims := utils.VerifyRefreshToken(refreshToken, config.C.Keys.RefreshPublic)
	if claims == nil {
		return "", false
	}

	session, err := FindSession(claims.SessionID)
	if err != nil || session == nil || !session.Valid {
		return "", false
	}

	user, err := FindUserByID(session.UserID)
	if err != nil || user == nil {
		return "", false
	}

	accessToken, err := utils.SignAccessToken(user.ID, session.ID, config.C.Keys.AccessPrivate, config.C.AccessTTL())
	if err != nil {
		return "", false
	}
	return accessToken, true
}

// FindSession loads a single session including the hidden valid and
// invalidated_at fields. Returns (nil, nil) when no session exists.
func FindSession(sessionID string) (*models.Session, error) {
	selectQuery := `SELECT id, user_id, user_agent, valid, invalidated_at, created_at, updated_at
					FROM sessions WHERE id = ?`

	var session models.Session
	err := config.DB.QueryRow(selectQuery, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.UserAgent,
		&session.Valid,
		&session.InvalidatedAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	session.Stored = true
	return &session, nil
}

// FindSessionsForUser lists the user's sessions with default-query semantics:
// invalidated sessions are excluded and hidden fields are not selected.
func FindSessionsForUser(userID string) ([]models.Session, error) {
	selectQuery := `SELECT ` + sessionColumns + ` FROM sessions
					WHERE user_id = ? AND valid = 1 ORDER BY created_at`

	rows, err := config.DB.Query(selectQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.UserAgent,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		session.Stored = true
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// InvalidateSession persists the valid true->false transition. The model
// guards the transition rule; the WHERE clause keeps a concurrent repeat
// invalidation from restamping the timestamp.
func InvalidateSession(session *models.Session) error {
	if !session.Invalidate() {
		return nil
	}

	updateQuery := `UPDATE sessions SET valid = 0, invalidated_at = ?, updated_at = ?
					WHERE id = ? AND valid = 1`
	_, err := config.DB.Exec(updateQuery, session.InvalidatedAt.Time, time.Now().UTC(), session.ID)
	return err
}

// InvalidateSessionsForUser invalidates every valid session the user holds.
// Used on password change and account deactivation.
func InvalidateSessionsForUser(userID string) error {
	now := time.Now().UTC()
	updateQuery := `UPDATE sessions SET valid = 0, invalidated_at = ?, updated_at = ?
					WHERE user_id = ? AND valid = 1`
	_, err := config.DB.Exec(updateQuery, now, now, userID)
	return err
}
