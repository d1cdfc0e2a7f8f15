package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// License statuses. "active" and "pending" are the only live states;
// a live (account_id, hardware_id) binding must be unique across them.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
	StatusInactive = "inactive"
)

// LiveStatuses are the statuses that participate in binding uniqueness.
var LiveStatuses = []string{StatusActive, StatusPending}

// ValidStatus reports whether s is one of the known license statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected, StatusInactive:
		return true
	}
	return false
}

// License binds a license key to an (account, hardware) pair with a
// status and expiry. RequestedBy/RequestedEmail are set only when the
// record originated from a client request.
type License struct {
	LicenseKey     string    `json:"license_key"`
	AccountID      string    `json:"account_id"`
	AccountServer  string    `json:"account_server"`
	HardwareID     string    `json:"hardware_id"`
	EAName         string    `json:"ea_name"`
	ExpiryDate     *Date     `json:"expiry_date"`
	Status         string    `json:"status"`
	RequestedBy    string    `json:"requested_by,omitempty"`
	RequestedEmail string    `json:"requested_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsLive reports whether the record blocks other licenses for the same
// binding.
func (l License) IsLive() bool {
	return l.Status == StatusActive || l.Status == StatusPending
}

const licenseKeyPrefix = "ALGO"

// NewLicenseKey generates a server-issued license key of the form
// ALGO-<16 uppercase hex>-<base36 unix-ms>. The random part makes keys
// collision-resistant; the timestamp part keeps them roughly sortable
// without a central counter.
func NewLicenseKey(now time.Time) string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	random := strings.ToUpper(hex.EncodeToString(buf))
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return licenseKeyPrefix + "-" + random + "-" + stamp
}
