package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/algonex/license-portal/internal/domain"
)

// AdminLogin verifies the shared admin password and issues a stateless
// signed session token. Failures count toward a per-IP lockout.
func (s *Service) AdminLogin(ctx context.Context, req AdminLoginRequest) (AdminLoginResult, error) {
	if strings.TrimSpace(req.Password) == "" {
		return AdminLoginResult{}, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if s.cfg.AdminPasswordHash == "" {
		return AdminLoginResult{}, fmt.Errorf("%w: admin password not configured", domain.ErrServerConfiguration)
	}

	lockKey := "admin:" + req.IPAddress
	if err := s.checkLockout(ctx, lockKey); err != nil {
		return AdminLoginResult{}, err
	}

	if err := s.hasher.Compare(s.cfg.AdminPasswordHash, req.Password); err != nil {
		s.recordLoginFailure(ctx, lockKey, "admin_login")
		return AdminLoginResult{}, fmt.Errorf("%w: incorrect password", domain.ErrInvalidCredentials)
	}
	_ = s.lockouts.Clear(ctx, lockKey)

	token, expiresAt, err := s.admin.Issue(s.nowFn(), s.cfg.AdminSessionTTL)
	if err != nil {
		return AdminLoginResult{}, fmt.Errorf("issue admin token: %w", err)
	}

	serviceLogger().InfoContext(ctx, "admin login",
		"operation", "admin_login",
		"outcome", "success",
	)
	return AdminLoginResult{SessionToken: token, ExpiresAt: expiresAt}, nil
}

// VerifyAdminToken is the stateless admin session check; no store is
// consulted.
func (s *Service) VerifyAdminToken(_ context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return domain.ErrUnauthorized
	}
	return s.admin.Verify(token, s.nowFn())
}

// ClientSignup creates a portal account with a bcrypt password hash.
// Email uniqueness is enforced by the store and surfaced as a conflict.
func (s *Service) ClientSignup(ctx context.Context, req SignupRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return domain.Client{}, fmt.Errorf("%w: name, email, and password are required", domain.ErrValidation)
	}
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return domain.Client{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return domain.Client{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return domain.Client{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	client, err := s.clients.Insert(ctx, domain.Client{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Status:       domain.ClientStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.Client{}, fmt.Errorf("%w: an account with this email already exists", domain.ErrDuplicateEmail)
		}
		return domain.Client{}, err
	}

	serviceLogger().InfoContext(ctx, "client account created",
		"operation", "client_signup",
		"outcome", "success",
		"client_id", client.ID.String(),
	)
	return client, nil
}

// ClientLogin verifies credentials against the stored bcrypt hash and
// starts a persisted session. The invalid-credentials error is uniform
// across unknown accounts and bad passwords.
func (s *Service) ClientLogin(ctx context.Context, req LoginRequest) (ClientAuthResult, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return ClientAuthResult{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return ClientAuthResult{}, err
	}

	lockKey := "client:" + email
	if err := s.checkLockout(ctx, lockKey); err != nil {
		return ClientAuthResult{}, err
	}

	client, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordLoginFailure(ctx, lockKey, "client_login")
			return ClientAuthResult{}, fmt.Errorf("%w: invalid email or password", domain.ErrInvalidCredentials)
		}
		return ClientAuthResult{}, err
	}
	if client.Status != domain.ClientStatusActive {
		return ClientAuthResult{}, fmt.Errorf("%w: your account is not active, please contact the administrator", domain.ErrAccountInactive)
	}
	if err := s.hasher.Compare(client.PasswordHash, req.Password); err != nil {
		s.recordLoginFailure(ctx, lockKey, "client_login")
		return ClientAuthResult{}, fmt.Errorf("%w: invalid email or password", domain.ErrInvalidCredentials)
	}
	_ = s.lockouts.Clear(ctx, lockKey)

	now := s.nowFn()
	session := domain.ClientSession{
		ID:           uuid.New(),
		ClientID:     client.ID,
		SessionToken: domain.NewSessionToken(),
		ExpiresAt:    now.Add(s.cfg.ClientSessionTTL),
		CreatedAt:    now,
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return ClientAuthResult{}, fmt.Errorf("create session: %w", err)
	}

	serviceLogger().InfoContext(ctx, "client login",
		"operation", "client_login",
		"outcome", "success",
		"client_id", client.ID.String(),
	)
	return ClientAuthResult{
		SessionToken: session.SessionToken,
		ExpiresAt:    session.ExpiresAt,
		Client:       client,
	}, nil
}

// VerifyClientSession resolves an opaque token to the owning account,
// requiring a non-expired session row.
func (s *Service) VerifyClientSession(ctx context.Context, token string) (domain.Client, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Client{}, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetActiveByToken(ctx, token, s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Client{}, fmt.Errorf("%w: session expired or invalid", domain.ErrSessionExpired)
		}
		return domain.Client{}, err
	}

	client, err := s.clients.GetByID(ctx, session.ClientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Client{}, fmt.Errorf("%w: session expired or invalid", domain.ErrSessionExpired)
		}
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) checkLockout(ctx context.Context, key string) error {
	state, err := s.lockouts.Get(ctx, key)
	if err != nil {
		// A lockout-store outage must not take logins down with it.
		serviceLogger().WarnContext(ctx, "lockout store unavailable",
			"operation", "check_lockout",
			"outcome", "degraded",
			"error", err.Error(),
		)
		return nil
	}
	if state.LockedUntil != nil && state.LockedUntil.After(s.nowFn()) {
		return fmt.Errorf("%w: too many failed attempts, try again later", domain.ErrAccountLocked)
	}
	return nil
}

func (s *Service) recordLoginFailure(ctx context.Context, key, operation string) {
	state, err := s.lockouts.RecordFailure(ctx, key, s.nowFn(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
	if err != nil {
		serviceLogger().WarnContext(ctx, "failed to record login failure",
			"operation", operation,
			"outcome", "degraded",
			"error", err.Error(),
		)
		return
	}
	if state.LockedUntil != nil {
		serviceLogger().WarnContext(ctx, "login lockout engaged",
			"operation", operation,
			"outcome", "locked",
			"failed_count", state.FailedCount,
			"locked_until", state.LockedUntil.Format(time.RFC3339),
		)
	}
}
