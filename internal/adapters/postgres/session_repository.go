package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/algonex/license-portal/internal/domain"
)

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Insert(ctx context.Context, session domain.ClientSession) error {
	rec := clientSessionModel{
		ID:           session.ID,
		ClientID:     session.ClientID,
		SessionToken: session.SessionToken,
		ExpiresAt:    session.ExpiresAt,
		CreatedAt:    session.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *sessionRepository) GetActiveByToken(ctx context.Context, token string, now time.Time) (domain.ClientSession, error) {
	var rec clientSessionModel
	err := r.db.WithContext(ctx).
		Where("session_token = ? AND expires_at > ?", token, now).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ClientSession{}, domain.ErrNotFound
		}
		return domain.ClientSession{}, err
	}
	return toDomainSession(rec), nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&clientSessionModel{})
	return result.RowsAffected, result.Error
}
