package domain

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewLicenseKeyFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ALGO-[0-9A-F]{16}-[0-9A-Z]+$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := NewLicenseKey(now)
		if !pattern.MatchString(key) {
			t.Fatalf("key %q does not match expected format", key)
		}
		if seen[key] {
			t.Fatalf("key %q generated twice", key)
		}
		seen[key] = true
	}
}

func TestNewLicenseKeyTimestampSegment(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	key := NewLicenseKey(now)
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d in %q", len(parts), key)
	}
	want := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	if parts[2] != want {
		t.Fatalf("timestamp segment = %q, want %q", parts[2], want)
	}
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []string{StatusPending, StatusActive, StatusRejected, StatusInactive} {
		if !ValidStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	for _, status := range []string{"", "deleted", "ACTIVE"} {
		if ValidStatus(status) {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}

func TestIsLive(t *testing.T) {
	t.Parallel()

	if !(License{Status: StatusActive}).IsLive() || !(License{Status: StatusPending}).IsLive() {
		t.Fatalf("active and pending must be live")
	}
	if (License{Status: StatusRejected}).IsLive() || (License{Status: StatusInactive}).IsLive() {
		t.Fatalf("rejected and inactive must not be live")
	}
}
