package ports

import "time"

// PasswordHasher abstracts the password KDF so the application layer
// stays crypto-library agnostic.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AdminTokenIssuer issues and verifies stateless admin session tokens.
// Verification is a local check only; no session store is consulted.
type AdminTokenIssuer interface {
	Issue(now time.Time, ttl time.Duration) (token string, expiresAt time.Time, err error)
	// Verify returns domain.ErrSessionExpired for expired tokens and
	// domain.ErrUnauthorized for everything else that fails.
	Verify(token string, now time.Time) error
}
