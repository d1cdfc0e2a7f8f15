package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/algonex/license-portal/internal/adapters/memory"
	"github.com/algonex/license-portal/internal/adapters/security"
	"github.com/algonex/license-portal/internal/application"
	"github.com/algonex/license-portal/internal/domain"
)

func TestAdminLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	res, err := f.service.AdminLogin(ctx, application.AdminLoginRequest{
		Password:  testAdminPassword,
		IPAddress: "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if res.SessionToken == "" || !res.ExpiresAt.After(time.Now()) {
		t.Fatalf("unexpected login result: %+v", res)
	}
	if err := f.service.VerifyAdminToken(ctx, res.SessionToken); err != nil {
		t.Fatalf("verify issued token failed: %v", err)
	}

	if _, err := f.service.AdminLogin(ctx, application.AdminLoginRequest{
		Password:  "wrong",
		IPAddress: "10.0.0.1",
	}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	if _, err := f.service.AdminLogin(ctx, application.AdminLoginRequest{IPAddress: "10.0.0.1"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}
}

func TestAdminLoginUnconfigured(t *testing.T) {
	t.Parallel()

	svc := application.NewService(application.Dependencies{
		Licenses: memory.NewRepositories().Licenses,
		Lockouts: memory.NewLockoutStore(),
		Hasher:   security.NewBcryptHasher(4),
	})

	_, err := svc.AdminLogin(context.Background(), application.AdminLoginRequest{Password: "anything"})
	if !errors.Is(err, domain.ErrServerConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAdminLoginLockout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	// Threshold is 3 in the fixture.
	for i := 0; i < 3; i++ {
		if _, err := f.service.AdminLogin(ctx, application.AdminLoginRequest{
			Password:  "wrong",
			IPAddress: "10.1.1.1",
		}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i, err)
		}
	}

	if _, err := f.service.AdminLogin(ctx, application.AdminLoginRequest{
		Password:  testAdminPassword,
		IPAddress: "10.1.1.1",
	}); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected lockout even with the right password, got %v", err)
	}

	// A different IP is unaffected.
	if _, err := f.service.AdminLogin(ctx, application.AdminLoginRequest{
		Password:  testAdminPassword,
		IPAddress: "10.2.2.2",
	}); err != nil {
		t.Fatalf("login from another ip failed: %v", err)
	}
}

func TestVerifyAdminTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if err := f.service.VerifyAdminToken(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
	if err := f.service.VerifyAdminToken(ctx, "not-a-token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for malformed token, got %v", err)
	}
}

func TestClientSignupAndLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	client, err := f.service.ClientSignup(ctx, application.SignupRequest{
		Name:     "Trader",
		Email:    "Trader@Example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if client.Email != "trader@example.com" {
		t.Fatalf("email not normalized: %q", client.Email)
	}
	if client.Status != domain.ClientStatusActive {
		t.Fatalf("new account status = %q", client.Status)
	}

	if _, err := f.service.ClientSignup(ctx, application.SignupRequest{
		Name:     "Other",
		Email:    "TRADER@example.com",
		Password: "hunter2hunter2",
	}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	if _, err := f.service.ClientSignup(ctx, application.SignupRequest{
		Name:     "Short",
		Email:    "short@example.com",
		Password: "short",
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}

	res, err := f.service.ClientLogin(ctx, application.LoginRequest{
		Email:    "trader@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.SessionToken == "" || res.Client.ID != client.ID {
		t.Fatalf("unexpected login result: %+v", res)
	}

	verified, err := f.service.VerifyClientSession(ctx, res.SessionToken)
	if err != nil {
		t.Fatalf("verify session failed: %v", err)
	}
	if verified.ID != client.ID {
		t.Fatalf("verified wrong client: %s", verified.ID)
	}
}

func TestClientLoginFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.ClientSignup(ctx, application.SignupRequest{
		Name:     "Trader",
		Email:    "trader@example.com",
		Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Unknown account and wrong password fail identically.
	_, unknownErr := f.service.ClientLogin(ctx, application.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter2hunter2",
	})
	_, wrongErr := f.service.ClientLogin(ctx, application.LoginRequest{
		Email:    "trader@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected uniform invalid credentials, got %v / %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("messages must not reveal which part failed: %q vs %q", unknownErr, wrongErr)
	}
}

func TestClientLoginInactiveAccount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	hasher := security.NewBcryptHasher(4)
	hash, _ := hasher.Hash("hunter2hunter2")
	if _, err := f.repos.Clients.Insert(ctx, domain.Client{
		ID:           uuid.New(),
		Email:        "suspended@example.com",
		PasswordHash: hash,
		Name:         "Suspended",
		Status:       domain.ClientStatusInactive,
	}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	if _, err := f.service.ClientLogin(ctx, application.LoginRequest{
		Email:    "suspended@example.com",
		Password: "hunter2hunter2",
	}); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected inactive account error, got %v", err)
	}
}

func TestClientLoginLockout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.ClientSignup(ctx, application.SignupRequest{
		Name:     "Trader",
		Email:    "locked@example.com",
		Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := f.service.ClientLogin(ctx, application.LoginRequest{
			Email:    "locked@example.com",
			Password: "wrong-password",
		}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i, err)
		}
	}

	if _, err := f.service.ClientLogin(ctx, application.LoginRequest{
		Email:    "locked@example.com",
		Password: "hunter2hunter2",
	}); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected lockout, got %v", err)
	}
}

func TestVerifyClientSessionExpired(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	client, err := f.service.ClientSignup(ctx, application.SignupRequest{
		Name:     "Trader",
		Email:    "expired@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token := domain.NewSessionToken()
	if err := f.repos.Sessions.Insert(ctx, domain.ClientSession{
		ID:           uuid.New(),
		ClientID:     client.ID,
		SessionToken: token,
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
		CreatedAt:    time.Now().UTC().Add(-25 * time.Hour),
	}); err != nil {
		t.Fatalf("seed session failed: %v", err)
	}

	if _, err := f.service.VerifyClientSession(ctx, token); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if _, err := f.service.VerifyClientSession(ctx, "unknown-token"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session expired for unknown token, got %v", err)
	}
}
