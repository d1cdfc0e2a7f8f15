package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/algonex/license-portal/internal/domain"
)

// LicenseRepository is the License Store. Implementations must enforce
// key uniqueness and live-binding uniqueness at the store layer and
// surface violations as domain.ErrDuplicateKey / domain.ErrDuplicateBinding,
// so the invariants hold even when two writers race past the pre-checks.
type LicenseRepository interface {
	// Insert stores a new record and returns it as stored.
	Insert(ctx context.Context, license domain.License) (domain.License, error)
	GetByKey(ctx context.Context, key string) (domain.License, error)
	// FindLiveBinding looks up a record sharing (accountID, hardwareID)
	// with status in domain.LiveStatuses, excluding excludeKey when
	// non-empty. Returns domain.ErrNotFound when no such record exists.
	FindLiveBinding(ctx context.Context, accountID, hardwareID, excludeKey string) (domain.License, error)
	// FindExact matches all three identity fields, as the product-facing
	// validation check requires.
	FindExact(ctx context.Context, key, accountID, hardwareID string) (domain.License, error)
	// Update replaces the mutable fields of the record with the given key.
	Update(ctx context.Context, license domain.License) (domain.License, error)
	// Transition moves a record from one status to another in place,
	// setting (or clearing) the expiry date. Returns domain.ErrNotFound
	// when no record with the key currently holds fromStatus.
	Transition(ctx context.Context, key, fromStatus, toStatus string, expiry *domain.Date) (domain.License, error)
	// DeleteByKey is idempotent: deleting an absent key is not an error.
	DeleteByKey(ctx context.Context, key string) error
	List(ctx context.Context) ([]domain.License, error)
	ListByStatus(ctx context.Context, status string) ([]domain.License, error)
	// ListForRequester matches requested_by == clientID OR
	// requested_email == email; either criterion alone is accepted when
	// the other is empty.
	ListForRequester(ctx context.Context, clientID, email string) ([]domain.License, error)
}

// ClientRepository stores portal accounts. Insert surfaces email
// uniqueness violations as domain.ErrDuplicateEmail.
type ClientRepository interface {
	Insert(ctx context.Context, client domain.Client) (domain.Client, error)
	GetByEmail(ctx context.Context, email string) (domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error)
}

// SessionRepository stores client sessions. Rows are insert-only.
type SessionRepository interface {
	Insert(ctx context.Context, session domain.ClientSession) error
	// GetActiveByToken returns the session for the token when it has not
	// expired as of now, domain.ErrNotFound otherwise.
	GetActiveByToken(ctx context.Context, token string, now time.Time) (domain.ClientSession, error)
	// DeleteExpired removes sessions whose expiry is before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
