package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("longenough"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
	if err := ValidatePassword("short12"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("x", 73)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for oversized password, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	got, err := NormalizeEmail("  Trader@Example.COM ")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if got != "trader@example.com" {
		t.Fatalf("normalized = %q", got)
	}

	for _, bad := range []string{"", "no-at-sign", "a@b", "spaces in@mail.com"} {
		if _, err := NormalizeEmail(bad); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error for %q, got %v", bad, err)
		}
	}
}
