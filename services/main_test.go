package services

import (
	"crypto/rand"
	"crypto/rsa"
	"database/sql"
	"testing"

	"gotours/config"
	"gotours/models"
)

// setupTest points the package globals at an in-memory database and a fresh
// test key registry. Each test gets its own schema.
func setupTest(t *testing.T) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second pool connection would see a different in-memory database.
	db.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db
	t.Cleanup(func() { db.Close() })

	accessKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate access key: %v", err)
	}
	refreshKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate refresh key: %v", err)
	}

	config.C = &config.Config{
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "8760h",
		Keys: &config.KeyRegistry{
			AccessPrivate:  accessKey,
			AccessPublic:   &accessKey.PublicKey,
			RefreshPrivate: refreshKey,
			RefreshPublic:  &refreshKey.PublicKey,
		},
	}
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()

	user, _, err := CreateUser("Jo", "Doe", email, "correct-horse-battery")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := config.DB.Exec(`UPDATE users SET verified = 1 WHERE id = ?`, user.ID); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	user.Verified = true
	return user
}
