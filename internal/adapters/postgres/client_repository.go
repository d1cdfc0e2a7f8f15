package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/algonex/license-portal/internal/domain"
)

type clientRepository struct {
	db *gorm.DB
}

func (r *clientRepository) Insert(ctx context.Context, client domain.Client) (domain.Client, error) {
	rec := clientModel{
		ID:           client.ID,
		Email:        client.Email,
		PasswordHash: client.PasswordHash,
		Name:         client.Name,
		Status:       client.Status,
		CreatedAt:    client.CreatedAt,
		UpdatedAt:    client.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Client{}, domain.ErrDuplicateEmail
		}
		return domain.Client{}, err
	}
	return toDomainClient(rec), nil
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (domain.Client, error) {
	var rec clientModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Client{}, domain.ErrNotFound
		}
		return domain.Client{}, err
	}
	return toDomainClient(rec), nil
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	var rec clientModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Client{}, domain.ErrNotFound
		}
		return domain.Client{}, err
	}
	return toDomainClient(rec), nil
}
