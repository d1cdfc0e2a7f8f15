package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/algonex/license-portal/internal/domain"
)

// CreateLicense inserts a new record on the admin-direct path. Binding
// uniqueness is checked against live (active/pending) records, the same
// scope the store constraint enforces, so the pre-check and the
// constraint cannot disagree.
func (s *Service) CreateLicense(ctx context.Context, req CreateLicenseRequest) (domain.License, error) {
	key := strings.TrimSpace(req.LicenseKey)
	accountID := strings.TrimSpace(string(req.AccountID))
	hardwareID := strings.TrimSpace(req.HardwareID)
	if key == "" || accountID == "" || strings.TrimSpace(req.AccountServer) == "" ||
		hardwareID == "" || strings.TrimSpace(req.EAName) == "" || strings.TrimSpace(req.ExpiryDate) == "" {
		return domain.License{}, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}

	expiry, err := domain.ParseDate(req.ExpiryDate)
	if err != nil {
		return domain.License{}, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !domain.ValidStatus(status) {
		return domain.License{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	if _, err := s.licenses.GetByKey(ctx, key); err == nil {
		return domain.License{}, fmt.Errorf("%w: license key %q already exists", domain.ErrDuplicateKey, key)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.License{}, err
	}

	if existing, err := s.licenses.FindLiveBinding(ctx, accountID, hardwareID, ""); err == nil {
		return domain.License{}, domain.NewBindingConflict(
			domain.ErrDuplicateBinding,
			fmt.Sprintf("combination of hardware ID %q and account ID %q already exists", hardwareID, accountID),
			existing.LicenseKey, existing.Status,
		)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.License{}, err
	}

	now := s.nowFn()
	created, err := s.licenses.Insert(ctx, domain.License{
		LicenseKey:    key,
		AccountID:     accountID,
		AccountServer: strings.TrimSpace(req.AccountServer),
		HardwareID:    hardwareID,
		EAName:        strings.TrimSpace(req.EAName),
		ExpiryDate:    &expiry,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return domain.License{}, err
	}

	serviceLogger().InfoContext(ctx, "license created",
		"operation", "create_license",
		"outcome", "success",
		"license_key", created.LicenseKey,
		"status", created.Status,
	)
	return created, nil
}

// ApproveLicense transitions a pending request to active. When another
// live record already holds the same binding, the pending request is
// auto-rejected instead, so two live bindings for the same
// (account, hardware) can never coexist even at approval time.
func (s *Service) ApproveLicense(ctx context.Context, req ApproveLicenseRequest) (domain.License, error) {
	key := strings.TrimSpace(req.LicenseKey)
	if key == "" {
		return domain.License{}, fmt.Errorf("%w: license key is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.ExpiryDate) == "" {
		return domain.License{}, fmt.Errorf("%w: expiry date is required", domain.ErrValidation)
	}
	expiry, err := domain.ParseDate(req.ExpiryDate)
	if err != nil {
		return domain.License{}, err
	}

	pending, err := s.licenses.GetByKey(ctx, key)
	if err != nil || pending.Status != domain.StatusPending {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.License{}, err
		}
		return domain.License{}, fmt.Errorf("%w: pending license request not found", domain.ErrNotFound)
	}

	existing, err := s.licenses.FindLiveBinding(ctx, pending.AccountID, pending.HardwareID, key)
	if err == nil {
		if _, rejectErr := s.licenses.Transition(ctx, key, domain.StatusPending, domain.StatusRejected, nil); rejectErr != nil && !errors.Is(rejectErr, domain.ErrNotFound) {
			return domain.License{}, rejectErr
		}
		serviceLogger().WarnContext(ctx, "pending request auto-rejected on approval conflict",
			"operation", "approve_license",
			"outcome", "auto_rejected",
			"license_key", key,
			"existing_license_key", existing.LicenseKey,
			"existing_status", existing.Status,
		)
		conflict := domain.NewBindingConflict(
			domain.ErrDuplicateBinding,
			fmt.Sprintf("cannot approve: a license with account ID %q and hardware ID %q already exists (status %s, key %s)",
				pending.AccountID, pending.HardwareID, existing.Status, existing.LicenseKey),
			existing.LicenseKey, existing.Status,
		)
		conflict.AutoRejected = true
		return domain.License{}, conflict
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.License{}, err
	}

	approved, err := s.licenses.Transition(ctx, key, domain.StatusPending, domain.StatusActive, &expiry)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.License{}, fmt.Errorf("%w: pending license request not found", domain.ErrNotFound)
		}
		return domain.License{}, err
	}

	serviceLogger().InfoContext(ctx, "license approved",
		"operation", "approve_license",
		"outcome", "success",
		"license_key", key,
		"expiry_date", expiry.String(),
	)
	return approved, nil
}

// RejectLicense transitions a pending request to rejected. Rejection is
// terminal; the freed binding no longer blocks new requests.
func (s *Service) RejectLicense(ctx context.Context, req RejectLicenseRequest) (domain.License, error) {
	key := strings.TrimSpace(req.LicenseKey)
	if key == "" {
		return domain.License{}, fmt.Errorf("%w: license key is required", domain.ErrValidation)
	}

	rejected, err := s.licenses.Transition(ctx, key, domain.StatusPending, domain.StatusRejected, nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.License{}, fmt.Errorf("%w: pending license request not found", domain.ErrNotFound)
		}
		return domain.License{}, err
	}

	serviceLogger().InfoContext(ctx, "license request rejected",
		"operation", "reject_license",
		"outcome", "success",
		"license_key", key,
	)
	return rejected, nil
}

// UpdateLicense applies all supplied fields in place. Unlike approval
// there is no transition restriction; an update may move the record to
// or from any status directly.
func (s *Service) UpdateLicense(ctx context.Context, req UpdateLicenseRequest) (domain.License, error) {
	key := strings.TrimSpace(req.LicenseKey)
	accountID := strings.TrimSpace(string(req.AccountID))
	hardwareID := strings.TrimSpace(req.HardwareID)
	if key == "" || accountID == "" || hardwareID == "" || strings.TrimSpace(req.ExpiryDate) == "" {
		return domain.License{}, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}
	expiry, err := domain.ParseDate(req.ExpiryDate)
	if err != nil {
		return domain.License{}, err
	}
	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !domain.ValidStatus(status) {
		return domain.License{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	current, err := s.licenses.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.License{}, fmt.Errorf("%w: license not found", domain.ErrNotFound)
		}
		return domain.License{}, err
	}

	if existing, err := s.licenses.FindLiveBinding(ctx, accountID, hardwareID, key); err == nil {
		return domain.License{}, domain.NewBindingConflict(
			domain.ErrDuplicateBinding,
			fmt.Sprintf("combination of hardware ID %q and account ID %q already exists in another license", hardwareID, accountID),
			existing.LicenseKey, existing.Status,
		)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.License{}, err
	}

	current.AccountID = accountID
	current.HardwareID = hardwareID
	current.ExpiryDate = &expiry
	current.Status = status
	if server := strings.TrimSpace(req.AccountServer); server != "" {
		current.AccountServer = server
	}
	if name := strings.TrimSpace(req.EAName); name != "" {
		current.EAName = name
	}
	current.UpdatedAt = s.nowFn()

	updated, err := s.licenses.Update(ctx, current)
	if err != nil {
		return domain.License{}, err
	}

	serviceLogger().InfoContext(ctx, "license updated",
		"operation", "update_license",
		"outcome", "success",
		"license_key", key,
		"status", updated.Status,
	)
	return updated, nil
}

// DeleteLicense removes the record by key. The contract is idempotent:
// an absent key is not an error.
func (s *Service) DeleteLicense(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: license key is required", domain.ErrValidation)
	}
	if err := s.licenses.DeleteByKey(ctx, key); err != nil {
		return err
	}
	serviceLogger().InfoContext(ctx, "license deleted",
		"operation", "delete_license",
		"outcome", "success",
		"license_key", key,
	)
	return nil
}

// ListLicenses returns all records, newest first.
func (s *Service) ListLicenses(ctx context.Context) ([]domain.License, error) {
	return s.licenses.List(ctx)
}

// ListPending returns pending requests, newest first.
func (s *Service) ListPending(ctx context.Context) ([]domain.License, error) {
	return s.licenses.ListByStatus(ctx, domain.StatusPending)
}
