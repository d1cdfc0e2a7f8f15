package domain

import "errors"

var (
	// ErrNotFound is returned when the referenced record does not exist.
	// Keeping this sentinel in domain lets adapters map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation covers missing or malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrInvalidCredentials hides whether the account or the password failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrAccountLocked      = errors.New("account locked")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionExpired     = errors.New("session expired")

	// ErrDuplicateKey signals a license_key collision on insert.
	ErrDuplicateKey = errors.New("duplicate license key")
	// ErrDuplicateBinding signals a live (account_id, hardware_id) collision.
	ErrDuplicateBinding = errors.New("duplicate account/hardware binding")
	// ErrDuplicatePending is the binding collision against a pending request.
	ErrDuplicatePending = errors.New("duplicate pending request")
	ErrDuplicateEmail   = errors.New("email already registered")

	// ErrLicenseInvalid and ErrLicenseExpired are the two terminal outcomes
	// of the product-facing validation check.
	ErrLicenseInvalid = errors.New("license invalid")
	ErrLicenseExpired = errors.New("license expired or inactive")

	// ErrServerConfiguration signals missing runtime credentials or secrets.
	ErrServerConfiguration = errors.New("server configuration error")
)

// BindingConflictError carries the record that blocks a create, request,
// or approval for an (account, hardware) binding. AutoRejected is set
// when an approval was converted into a rejection to preserve binding
// uniqueness.
type BindingConflictError struct {
	sentinel       error
	Message        string
	ExistingKey    string
	ExistingStatus string
	AutoRejected   bool
}

// NewBindingConflict builds a conflict error wrapping the given
// sentinel (ErrDuplicateBinding or ErrDuplicatePending).
func NewBindingConflict(sentinel error, message, existingKey, existingStatus string) *BindingConflictError {
	return &BindingConflictError{
		sentinel:       sentinel,
		Message:        message,
		ExistingKey:    existingKey,
		ExistingStatus: existingStatus,
	}
}

func (e *BindingConflictError) Error() string { return e.Message }

func (e *BindingConflictError) Unwrap() error { return e.sentinel }
