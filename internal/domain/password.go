package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minPasswordLength = 8
	// bcrypt only consumes the first 72 bytes of input, so anything
	// longer is rejected up front rather than silently truncated.
	maxPasswordLength = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidatePassword enforces the portal signup password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d characters long", ErrValidation, maxPasswordLength)
	}
	return nil
}

// NormalizeEmail lower-cases and validates an email address. Emails are
// stored and compared case-folded.
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: please enter a valid email address", ErrValidation)
	}
	return normalized, nil
}
