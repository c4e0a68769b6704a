package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gotours/config"
	"gotours/models"
	"gotours/utils"
)

const userColumns = `id, first_name, last_name, email, password_hash, role, photo,
	verified, active, verification_code, password_reset_token, password_reset_at,
	password_changed_at, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Photo,
		&user.Verified,
		&user.Active,
		&user.VerificationCode,
		&user.PasswordResetToken,
		&user.PasswordResetAt,
		&user.PasswordChangedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts an unverified user and returns it together with the raw
// verification code. Only the SHA-256 digest of the code is stored.
func CreateUser(firstName, lastName, email, password string) (*models.User, string, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	verificationCode, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	insertQuery := `INSERT INTO users
					(id, first_name, last_name, email, password_hash, role, verified, active, verification_code, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, 0, 1, ?, ?, ?)`
	_, err = config.DB.Exec(insertQuery,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.Role, utils.Sha256Hex(verificationCode), now, now)
	if err != nil {
		return nil, "", err
	}

	return user, verificationCode, nil
}

func FindUserByID(id string) (*models.User, error) {
	selectQuery := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(config.DB.QueryRow(selectQuery, id))
}

func FindUserByEmail(email string) (*models.User, error) {
	selectQuery := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(config.DB.QueryRow(selectQuery, email))
}

// VerifyUser marks the user carrying this verification code as verified and
// clears the code. Reports whether any user matched.
func VerifyUser(code string) (bool, error) {
	updateQuery := `UPDATE users SET verified = 1, verification_code = NULL, updated_at = ?
					WHERE verification_code = ?`
	res, err := config.DB.Exec(updateQuery, time.Now().UTC(), utils.Sha256Hex(code))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetPasswordResetToken stores the hashed reset token with its expiry.
func SetPasswordResetToken(userID, token string, expiresAt time.Time) error {
	updateQuery := `UPDATE users SET password_reset_token = ?, password_reset_at = ?, updated_at = ?
					WHERE id = ?`
	_, err := config.DB.Exec(updateQuery, utils.Sha256Hex(token), expiresAt, time.Now().UTC(), userID)
	return err
}

// ClearPasswordResetToken removes a previously issued reset token, e.g. when
// the reset email could not be sent.
func ClearPasswordResetToken(userID string) error {
	updateQuery := `UPDATE users SET password_reset_token = NULL, password_reset_at = NULL, updated_at = ?
					WHERE id = ?`
	_, err := config.DB.Exec(updateQuery, time.Now().UTC(), userID)
	return err
}

// FindUserByResetToken resolves a raw reset token to its user, honouring the
// expiry. Returns (nil, nil) for unknown or expired tokens.
func FindUserByResetToken(token string) (*models.User, error) {
	selectQuery := `SELECT ` + userColumns + ` FROM users
					WHERE password_reset_token = ? AND password_reset_at > ?`
	return scanUser(config.DB.QueryRow(selectQuery, utils.Sha256Hex(token), time.Now().UTC()))
}

// UpdatePassword replaces the password hash, stamps password_changed_at and
// clears any pending reset token. Every access token issued before this
// moment stops resolving an identity.
func UpdatePassword(userID, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	updateQuery := `UPDATE users SET password_hash = ?, password_changed_at = ?,
					password_reset_token = NULL, password_reset_at = NULL, updated_at = ?
					WHERE id = ?`
	_, err = config.DB.Exec(updateQuery, hash, now, now, userID)
	return err
}

// UpdateMe changes the user's own profile fields. Empty arguments leave the
// stored value untouched.
func UpdateMe(userID, firstName, lastName, photo string) error {
	updateQuery := `UPDATE users SET
					first_name = COALESCE(NULLIF(?, ''), first_name),
					last_name = COALESCE(NULLIF(?, ''), last_name),
					photo = COALESCE(NULLIF(?, ''), photo),
					updated_at = ?
					WHERE id = ?`
	_, err := config.DB.Exec(updateQuery, firstName, lastName, photo, time.Now().UTC(), userID)
	return err
}

// DeactivateUser soft-deletes the account.
func DeactivateUser(userID string) error {
	updateQuery := `UPDATE users SET active = 0, updated_at = ? WHERE id = ?`
	_, err := config.DB.Exec(updateQuery, time.Now().UTC(), userID)
	return err
}
