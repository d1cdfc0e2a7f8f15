package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/algonex/license-portal/internal/domain"
)

const adminTokenSubject = "admin"

// AdminTokenSigner issues and verifies HS256-signed admin session tokens.
// Tokens are stateless; expiry is the only thing verification checks
// beyond the signature, so no server-side session table is needed.
type AdminTokenSigner struct {
	secret []byte
}

// NewAdminTokenSigner builds a signer from a shared secret. The secret
// must be at least 32 bytes so the HMAC key is not trivially brute-forced.
func NewAdminTokenSigner(secret string) (*AdminTokenSigner, error) {
	if len(secret) < 32 {
		return nil, errors.New("admin session secret must be at least 32 bytes")
	}
	return &AdminTokenSigner{secret: []byte(secret)}, nil
}

// NewEphemeralAdminTokenSigner generates a random secret for local/dev
// use. Tokens issued by one process are invalid after a restart.
func NewEphemeralAdminTokenSigner() (*AdminTokenSigner, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return &AdminTokenSigner{secret: []byte(hex.EncodeToString(raw))}, nil
}

func (s *AdminTokenSigner) Issue(now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   adminTokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *AdminTokenSigner) Verify(token string, now time.Time) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrSessionExpired
		}
		return domain.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != adminTokenSubject {
		return domain.ErrUnauthorized
	}
	return nil
}
