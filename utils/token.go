package utils

import (
	"crypto/rsa"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims are carried by short-lived access tokens. They reference both
// the user and the session anchoring the login.
type AccessClaims struct {
	UserID    string `json:"user"`
	SessionID string `json:"session"`
	jwt.RegisteredClaims
}

// RefreshClaims are carried by long-lived refresh tokens. They deliberately
// reference only the session: the owner is always re-resolved from the live
// session record when a new access token is issued.
type RefreshClaims struct {
	SessionID string `json:"session"`
	jwt.RegisteredClaims
}

// SignAccessToken signs an RS256 access token for the given user and session.
func SignAccessToken(userID, sessionID string, key *rsa.PrivateKey, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

// SignRefreshToken signs an RS256 refresh token referencing only the session.
func SignRefreshToken(sessionID string, key *rsa.PrivateKey, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := RefreshClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

// VerifyAccessToken verifies signature and expiry against the access public
// key. Every failure mode collapses to nil so callers branch on a single
// condition instead of inspecting errors.
func VerifyAccessToken(tokenString string, key *rsa.PublicKey) *AccessClaims {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}

// VerifyRefreshToken verifies signature and expiry against the refresh public
// key. Returns nil on any failure.
func VerifyRefreshToken(tokenString string, key *rsa.PublicKey) *RefreshClaims {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}
