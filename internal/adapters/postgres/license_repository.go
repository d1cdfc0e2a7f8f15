package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/algonex/license-portal/internal/domain"
)

type licenseRepository struct {
	db *gorm.DB
}

func (r *licenseRepository) Insert(ctx context.Context, license domain.License) (domain.License, error) {
	rec := toLicenseModel(license)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.License{}, r.classifyDuplicate(ctx, license.LicenseKey)
		}
		return domain.License{}, err
	}
	return toDomainLicense(rec), nil
}

func (r *licenseRepository) GetByKey(ctx context.Context, key string) (domain.License, error) {
	var rec licenseModel
	err := r.db.WithContext(ctx).Where("license_key = ?", key).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.License{}, domain.ErrNotFound
		}
		return domain.License{}, err
	}
	return toDomainLicense(rec), nil
}

func (r *licenseRepository) FindLiveBinding(ctx context.Context, accountID, hardwareID, excludeKey string) (domain.License, error) {
	q := r.db.WithContext(ctx).
		Where("account_id = ? AND hardware_id = ?", accountID, hardwareID).
		Where("status IN ?", domain.LiveStatuses)
	if excludeKey != "" {
		q = q.Where("license_key <> ?", excludeKey)
	}
	var rec licenseModel
	if err := q.Order("created_at DESC").Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.License{}, domain.ErrNotFound
		}
		return domain.License{}, err
	}
	return toDomainLicense(rec), nil
}

func (r *licenseRepository) FindExact(ctx context.Context, key, accountID, hardwareID string) (domain.License, error) {
	var rec licenseModel
	err := r.db.WithContext(ctx).
		Where("license_key = ? AND account_id = ? AND hardware_id = ?", key, accountID, hardwareID).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.License{}, domain.ErrNotFound
		}
		return domain.License{}, err
	}
	return toDomainLicense(rec), nil
}

func (r *licenseRepository) Update(ctx context.Context, license domain.License) (domain.License, error) {
	rec := toLicenseModel(license)
	result := r.db.WithContext(ctx).
		Model(&licenseModel{}).
		Where("license_key = ?", license.LicenseKey).
		Updates(map[string]any{
			"account_id":     rec.AccountID,
			"account_server": rec.AccountServer,
			"hardware_id":    rec.HardwareID,
			"ea_name":        rec.EAName,
			"expiry_date":    rec.ExpiryDate,
			"status":         rec.Status,
			"updated_at":     rec.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.License{}, domain.ErrDuplicateBinding
		}
		return domain.License{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.License{}, domain.ErrNotFound
	}
	return r.GetByKey(ctx, license.LicenseKey)
}

func (r *licenseRepository) Transition(ctx context.Context, key, fromStatus, toStatus string, expiry *domain.Date) (domain.License, error) {
	result := r.db.WithContext(ctx).
		Model(&licenseModel{}).
		Where("license_key = ? AND status = ?", key, fromStatus).
		Updates(map[string]any{
			"status":      toStatus,
			"expiry_date": dateToTime(expiry),
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return domain.License{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.License{}, domain.ErrNotFound
	}
	return r.GetByKey(ctx, key)
}

func (r *licenseRepository) DeleteByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("license_key = ?", key).Delete(&licenseModel{}).Error
}

func (r *licenseRepository) List(ctx context.Context) ([]domain.License, error) {
	var rows []licenseModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLicenses(rows), nil
}

func (r *licenseRepository) ListByStatus(ctx context.Context, status string) ([]domain.License, error) {
	var rows []licenseModel
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLicenses(rows), nil
}

func (r *licenseRepository) ListForRequester(ctx context.Context, clientID, email string) ([]domain.License, error) {
	q := r.db.WithContext(ctx)
	switch {
	case clientID != "" && email != "":
		q = q.Where("requested_by = ? OR requested_email = ?", clientID, email)
	case clientID != "":
		q = q.Where("requested_by = ?", clientID)
	case email != "":
		q = q.Where("requested_email = ?", email)
	default:
		return []domain.License{}, nil
	}
	var rows []licenseModel
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLicenses(rows), nil
}

// classifyDuplicate decides which uniqueness constraint an insert tripped.
// A row already holding the key means the primary key fired; otherwise it
// was the live-binding index.
func (r *licenseRepository) classifyDuplicate(ctx context.Context, key string) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&licenseModel{}).
		Where("license_key = ?", key).
		Count(&count).Error
	if err == nil && count > 0 {
		return domain.ErrDuplicateKey
	}
	return domain.ErrDuplicateBinding
}
