// Package memory provides mutex-guarded in-memory implementations of
// the store ports. They enforce the same uniqueness rules as the
// Postgres schema and back the unit and contract tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/algonex/license-portal/internal/domain"
)

type Repositories struct {
	Licenses *LicenseRepository
	Clients  *ClientRepository
	Sessions *SessionRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Licenses: &LicenseRepository{rows: map[string]domain.License{}},
		Clients:  &ClientRepository{rows: map[uuid.UUID]domain.Client{}},
		Sessions: &SessionRepository{rows: map[string]domain.ClientSession{}},
	}
}

type LicenseRepository struct {
	mu   sync.Mutex
	rows map[string]domain.License
}

func (r *LicenseRepository) Insert(_ context.Context, license domain.License) (domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[license.LicenseKey]; ok {
		return domain.License{}, domain.ErrDuplicateKey
	}
	if license.IsLive() {
		for _, row := range r.rows {
			if row.IsLive() && row.AccountID == license.AccountID && row.HardwareID == license.HardwareID {
				return domain.License{}, domain.ErrDuplicateBinding
			}
		}
	}
	r.rows[license.LicenseKey] = license
	return license, nil
}

func (r *LicenseRepository) GetByKey(_ context.Context, key string) (domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	if !ok {
		return domain.License{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *LicenseRepository) FindLiveBinding(_ context.Context, accountID, hardwareID, excludeKey string) (domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.LicenseKey == excludeKey {
			continue
		}
		if row.IsLive() && row.AccountID == accountID && row.HardwareID == hardwareID {
			return row, nil
		}
	}
	return domain.License{}, domain.ErrNotFound
}

func (r *LicenseRepository) FindExact(_ context.Context, key, accountID, hardwareID string) (domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	if !ok || row.AccountID != accountID || row.HardwareID != hardwareID {
		return domain.License{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *LicenseRepository) Update(_ context.Context, license domain.License) (domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.rows[license.LicenseKey]
	if !ok {
		return domain.License{}, domain.ErrNotFound
	}
	if license.IsLive() {
		for _, row := range r.rows {
			if row.LicenseKey == license.LicenseKey {
				continue
			}
			if row.IsLive() && row.AccountID == license.AccountID && row.HardwareID == license.HardwareID {
				return domain.License{}, domain.ErrDuplicateBinding
			}
		}
	}
	license.CreatedAt = current.CreatedAt
	r.rows[license.LicenseKey] = license
	return license, nil
}

func (r *LicenseRepository) Transition(_ context.Context, key, fromStatus, toStatus string, expiry *domain.Date) (domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	if !ok || row.Status != fromStatus {
		return domain.License{}, domain.ErrNotFound
	}
	row.Status = toStatus
	row.ExpiryDate = expiry
	row.UpdatedAt = time.Now().UTC()
	r.rows[key] = row
	return row, nil
}

func (r *LicenseRepository) DeleteByKey(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, key)
	return nil
}

func (r *LicenseRepository) List(_ context.Context) ([]domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.License, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *LicenseRepository) ListByStatus(_ context.Context, status string) ([]domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.License, 0)
	for _, row := range r.rows {
		if row.Status == status {
			out = append(out, row)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *LicenseRepository) ListForRequester(_ context.Context, clientID, email string) ([]domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.License, 0)
	for _, row := range r.rows {
		if (clientID != "" && row.RequestedBy == clientID) || (email != "" && row.RequestedEmail == email) {
			out = append(out, row)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(rows []domain.License) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].LicenseKey > rows[j].LicenseKey
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

type ClientRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.Client
}

func (r *ClientRepository) Insert(_ context.Context, client domain.Client) (domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == client.Email {
			return domain.Client{}, domain.ErrDuplicateEmail
		}
	}
	r.rows[client.ID] = client
	return client, nil
}

func (r *ClientRepository) GetByEmail(_ context.Context, email string) (domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			return row, nil
		}
	}
	return domain.Client{}, domain.ErrNotFound
}

func (r *ClientRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return domain.Client{}, domain.ErrNotFound
	}
	return row, nil
}

type SessionRepository struct {
	mu   sync.Mutex
	rows map[string]domain.ClientSession
}

func (r *SessionRepository) Insert(_ context.Context, session domain.ClientSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[session.SessionToken] = session
	return nil
}

func (r *SessionRepository) GetActiveByToken(_ context.Context, token string, now time.Time) (domain.ClientSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[token]
	if !ok || !row.ExpiresAt.After(now) {
		return domain.ClientSession{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for token, row := range r.rows {
		if !row.ExpiresAt.After(now) {
			delete(r.rows, token)
			removed++
		}
	}
	return removed, nil
}
