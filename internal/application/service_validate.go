package application

import (
	"context"
	"errors"
	"strings"

	"github.com/algonex/license-portal/internal/domain"
)

// ValidateLicense is the product-facing check. It matches the record on
// all three identity fields exactly; any mismatch is indistinguishable
// from an absent license. The comparison against the expiry is
// date-only, so a license stays valid through its whole expiry day.
func (s *Service) ValidateLicense(ctx context.Context, req ValidateLicenseRequest) (ValidateLicenseResult, error) {
	key := strings.TrimSpace(req.LicenseKey)
	accountID := strings.TrimSpace(string(req.AccountID))
	hardwareID := strings.TrimSpace(req.HardwareID)
	if key == "" || accountID == "" || hardwareID == "" {
		return ValidateLicenseResult{}, domain.ErrLicenseInvalid
	}

	license, err := s.licenses.FindExact(ctx, key, accountID, hardwareID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ValidateLicenseResult{}, domain.ErrLicenseInvalid
		}
		return ValidateLicenseResult{}, err
	}

	if license.Status != domain.StatusActive || license.ExpiryDate == nil {
		return ValidateLicenseResult{}, domain.ErrLicenseExpired
	}
	if license.ExpiryDate.Before(domain.DateOf(s.nowFn())) {
		return ValidateLicenseResult{}, domain.ErrLicenseExpired
	}

	return ValidateLicenseResult{ExpiryDate: *license.ExpiryDate}, nil
}
