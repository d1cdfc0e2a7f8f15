package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/algonex/license-portal/internal/domain"
)

// RequestLicense inserts a pending record on behalf of a logged-in
// client. The key is always server-generated; the expiry stays unset
// until an admin approves.
func (s *Service) RequestLicense(ctx context.Context, req RequestLicenseRequest, requester domain.Client) (RequestLicenseResult, error) {
	accountID := strings.TrimSpace(string(req.AccountID))
	hardwareID := strings.TrimSpace(req.HardwareID)
	if accountID == "" || strings.TrimSpace(req.AccountServer) == "" ||
		strings.TrimSpace(req.EAName) == "" || hardwareID == "" {
		return RequestLicenseResult{}, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}

	existing, err := s.licenses.FindLiveBinding(ctx, accountID, hardwareID, "")
	if err == nil {
		if existing.Status == domain.StatusPending {
			return RequestLicenseResult{}, domain.NewBindingConflict(
				domain.ErrDuplicatePending,
				fmt.Sprintf("a pending license request with account ID %q and hardware ID %q already exists; please wait for admin approval", accountID, hardwareID),
				existing.LicenseKey, existing.Status,
			)
		}
		return RequestLicenseResult{}, domain.NewBindingConflict(
			domain.ErrDuplicateBinding,
			fmt.Sprintf("a license with account ID %q and hardware ID %q already exists and is active (key %s)", accountID, hardwareID, existing.LicenseKey),
			existing.LicenseKey, existing.Status,
		)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return RequestLicenseResult{}, err
	}

	now := s.nowFn()
	key := s.keyFn(now)
	created, err := s.licenses.Insert(ctx, domain.License{
		LicenseKey:     key,
		AccountID:      accountID,
		AccountServer:  strings.TrimSpace(req.AccountServer),
		HardwareID:     hardwareID,
		EAName:         strings.TrimSpace(req.EAName),
		ExpiryDate:     nil,
		Status:         domain.StatusPending,
		RequestedBy:    requester.ID.String(),
		RequestedEmail: requester.Email,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return RequestLicenseResult{}, err
	}

	serviceLogger().InfoContext(ctx, "license requested",
		"operation", "request_license",
		"outcome", "success",
		"license_key", key,
		"requested_by", requester.ID.String(),
	)
	return RequestLicenseResult{LicenseKey: key, License: created}, nil
}

// MyLicenses lists the records attributed to the requesting client,
// matched by client id or email so records survive account changes.
func (s *Service) MyLicenses(ctx context.Context, requester domain.Client) ([]domain.License, error) {
	return s.licenses.ListForRequester(ctx, requester.ID.String(), requester.Email)
}
