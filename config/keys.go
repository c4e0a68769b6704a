package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"strings"
)

// ErrInvalidKey is returned when PEM content or the key type is invalid.
var ErrInvalidKey = errors.New("config: invalid key")

// KeyRegistry holds the parsed RSA key material for both token roles.
// Access and refresh tokens are signed and verified with separate pairs so a
// token issued for one role can never verify under the other.
type KeyRegistry struct {
	AccessPrivate  *rsa.PrivateKey
	AccessPublic   *rsa.PublicKey
	RefreshPrivate *rsa.PrivateKey
	RefreshPublic  *rsa.PublicKey
}

// NewKeyRegistry parses the four PEM-encoded keys. Each argument may be
// inline PEM or a path to a PEM file.
func NewKeyRegistry(accessPriv, accessPub, refreshPriv, refreshPub string) (*KeyRegistry, error) {
	var (
		r   KeyRegistry
		err error
	)
	if r.AccessPrivate, err = ParseRSAPrivateKey(accessPriv); err != nil {
		return nil, err
	}
	if r.AccessPublic, err = ParseRSAPublicKey(accessPub); err != nil {
		return nil, err
	}
	if r.RefreshPrivate, err = ParseRSAPrivateKey(refreshPriv); err != nil {
		return nil, err
	}
	if r.RefreshPublic, err = ParseRSAPublicKey(refreshPub); err != nil {
		return nil, err
	}
	return &r, nil
}

// loadPEM returns s as bytes when it looks like inline PEM, otherwise reads
// the file at s.
func loadPEM(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidKey
	}
	if strings.HasPrefix(s, "-----BEGIN") {
		return []byte(s), nil
	}
	return os.ReadFile(s)
}

// ParseRSAPrivateKey parses a PEM-encoded RSA private key (PKCS#1 or PKCS#8).
func ParseRSAPrivateKey(s string) (*rsa.PrivateKey, error) {
	pemBytes, err := loadPEM(s)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrInvalidKey
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrInvalidKey
		}
		return rsaKey, nil
	default:
		return nil, ErrInvalidKey
	}
}

// ParseRSAPublicKey parses a PEM-encoded RSA public key (PKCS#1 or PKIX).
func ParseRSAPublicKey(s string) (*rsa.PublicKey, error) {
	pemBytes, err := loadPEM(s)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrInvalidKey
	}
	switch block.Type {
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, ErrInvalidKey
		}
		return rsaKey, nil
	default:
		return nil, ErrInvalidKey
	}
}
