package application

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/algonex/license-portal/internal/domain"
)

// Config carries the tunable behavior of the service layer.
type Config struct {
	// AdminPasswordHash is the bcrypt hash the admin login compares
	// against. Empty means the deployment is not configured for admin
	// access and login fails with a configuration error.
	AdminPasswordHash string
	AdminSessionTTL   time.Duration
	ClientSessionTTL  time.Duration

	FailedLoginThreshold int
	LockoutDuration      time.Duration
}

// FlexString decodes JSON strings and bare numbers into a string.
// Account identifiers arrive both ways depending on the caller and are
// always compared as strings.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}

// CreateLicenseRequest is the admin-direct creation payload. All fields
// but status are required (the richer field set with account_server and
// ea_name is the canonical one).
type CreateLicenseRequest struct {
	LicenseKey    string     `json:"licenseKey" validate:"required"`
	AccountID     FlexString `json:"accountId" validate:"required"`
	AccountServer string     `json:"accountServer" validate:"required"`
	HardwareID    string     `json:"hardwareId" validate:"required"`
	EAName        string     `json:"ea_name" validate:"required"`
	ExpiryDate    string     `json:"expiryDate" validate:"required"`
	Status        string     `json:"status" validate:"omitempty,oneof=pending active rejected inactive"`
}

// UpdateLicenseRequest applies all supplied fields to an existing
// record; status defaults to active when omitted.
type UpdateLicenseRequest struct {
	LicenseKey    string     `json:"licenseKey" validate:"required"`
	AccountID     FlexString `json:"accountId" validate:"required"`
	AccountServer string     `json:"accountServer"`
	HardwareID    string     `json:"hardwareId" validate:"required"`
	EAName        string     `json:"ea_name"`
	ExpiryDate    string     `json:"expiryDate" validate:"required"`
	Status        string     `json:"status" validate:"omitempty,oneof=pending active rejected inactive"`
}

// ApproveLicenseRequest approves a pending request with an expiry date.
type ApproveLicenseRequest struct {
	LicenseKey string `json:"licenseKey"`
	ExpiryDate string `json:"expiryDate"`
}

// RejectLicenseRequest rejects a pending request.
type RejectLicenseRequest struct {
	LicenseKey string `json:"licenseKey"`
}

// RequestLicenseRequest is the client-portal request payload; the
// license key is always server-generated on this path.
type RequestLicenseRequest struct {
	AccountID     FlexString `json:"accountId" validate:"required"`
	AccountServer string     `json:"accountServer" validate:"required"`
	EAName        string     `json:"ea_name" validate:"required"`
	HardwareID    string     `json:"hardwareId" validate:"required"`
}

// ValidateLicenseRequest is the product-to-server check payload.
type ValidateLicenseRequest struct {
	LicenseKey string     `json:"licenseKey"`
	AccountID  FlexString `json:"accountId"`
	HardwareID string     `json:"hardwareId"`
}

// ValidateLicenseResult deliberately carries nothing beyond the expiry;
// the validation endpoint must not leak other record fields.
type ValidateLicenseResult struct {
	ExpiryDate domain.Date
}

// RequestLicenseResult returns the generated key with the stored record.
type RequestLicenseResult struct {
	LicenseKey string
	License    domain.License
}

// SignupRequest creates a portal account.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest carries client credentials plus caller metadata for
// lockout accounting.
type LoginRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
}

// AdminLoginRequest carries the shared admin password.
type AdminLoginRequest struct {
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
}

// AdminLoginResult is a stateless signed session token with its expiry.
type AdminLoginResult struct {
	SessionToken string
	ExpiresAt    time.Time
}

// ClientAuthResult is a persisted opaque session with the account it
// belongs to.
type ClientAuthResult struct {
	SessionToken string
	ExpiresAt    time.Time
	Client       domain.Client
}
