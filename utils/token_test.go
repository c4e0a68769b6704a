package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testKeyPair(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return key
}

func TestAccessTokenRoundTrip(t *testing.T) {
	key := testKeyPair(t)

	token, err := SignAccessToken("user-1", "session-1", key, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}

	claims := VerifyAccessToken(token, &key.PublicKey)
	if claims == nil {
		t.Fatal("VerifyAccessToken returned nil for a freshly signed token")
	}
	if claims.UserID != "user-1" || claims.SessionID != "session-1" {
		t.Errorf("claims = {user: %q, session: %q}, want {user-1, session-1}", claims.UserID, claims.SessionID)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatal("iat or exp missing from claims")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 15*time.Minute {
		t.Errorf("token lifetime = %v, want 15m", got)
	}
}

func TestRefreshTokenCarriesOnlySession(t *testing.T) {
	key := testKeyPair(t)

	token, err := SignRefreshToken("session-1", key, time.Hour)
	if err != nil {
		t.Fatalf("SignRefreshToken: %v", err)
	}

	claims := VerifyRefreshToken(token, &key.PublicKey)
	if claims == nil {
		t.Fatal("VerifyRefreshToken returned nil for a freshly signed token")
	}
	if claims.SessionID != "session-1" {
		t.Errorf("session claim = %q, want session-1", claims.SessionID)
	}

	// The payload must not reference the user; identity is always re-resolved
	// from the session's current owner.
	raw := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, raw); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if _, ok := raw["user"]; ok {
		t.Error("refresh token payload carries a user claim")
	}
}

func TestVerifyCollapsesFailuresToNil(t *testing.T) {
	key := testKeyPair(t)

	expired, err := SignAccessToken("user-1", "session-1", key, -time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not.a.token",
		"truncated": expired[:len(expired)/2],
		"expired":   expired,
	}
	for name, token := range cases {
		if got := VerifyAccessToken(token, &key.PublicKey); got != nil {
			t.Errorf("%s: VerifyAccessToken = %+v, want nil", name, got)
		}
		if got := VerifyRefreshToken(token, &key.PublicKey); got != nil {
			t.Errorf("%s: VerifyRefreshToken = %+v, want nil", name, got)
		}
	}
}

func TestKeyRoleIsolation(t *testing.T) {
	accessKey := testKeyPair(t)
	refreshKey := testKeyPair(t)

	accessToken, err := SignAccessToken("user-1", "session-1", accessKey, time.Hour)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	refreshToken, err := SignRefreshToken("session-1", refreshKey, time.Hour)
	if err != nil {
		t.Fatalf("SignRefreshToken: %v", err)
	}

	if got := VerifyAccessToken(accessToken, &refreshKey.PublicKey); got != nil {
		t.Error("access token verified under the refresh public key")
	}
	if got := VerifyRefreshToken(refreshToken, &accessKey.PublicKey); got != nil {
		t.Error("refresh token verified under the access public key")
	}
}

func TestWrongKeyFailsVerification(t *testing.T) {
	key := testKeyPair(t)
	other := testKeyPair(t)

	token, err := SignAccessToken("user-1", "session-1", key, time.Hour)
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	if got := VerifyAccessToken(token, &other.PublicKey); got != nil {
		t.Error("token verified under an unrelated public key")
	}
}
