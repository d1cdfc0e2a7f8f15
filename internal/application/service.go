// Package application implements the license lifecycle engine and the
// admin/client auth use-cases. Every operation is a single logical
// transaction against the backing store; the engine itself holds no
// mutable state.
package application

import (
	"log/slog"
	"time"

	"github.com/algonex/license-portal/internal/domain"
	"github.com/algonex/license-portal/internal/ports"
)

type Service struct {
	cfg      Config
	licenses ports.LicenseRepository
	clients  ports.ClientRepository
	sessions ports.SessionRepository
	lockouts ports.LockoutStore
	hasher   ports.PasswordHasher
	admin    ports.AdminTokenIssuer

	nowFn func() time.Time
	keyFn func(time.Time) string
}

type Dependencies struct {
	Config      Config
	Licenses    ports.LicenseRepository
	Clients     ports.ClientRepository
	Sessions    ports.SessionRepository
	Lockouts    ports.LockoutStore
	Hasher      ports.PasswordHasher
	AdminTokens ports.AdminTokenIssuer
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		cfg:      deps.Config,
		licenses: deps.Licenses,
		clients:  deps.Clients,
		sessions: deps.Sessions,
		lockouts: deps.Lockouts,
		hasher:   deps.Hasher,
		admin:    deps.AdminTokens,
		nowFn:    func() time.Time { return time.Now().UTC() },
		keyFn:    domain.NewLicenseKey,
	}
	if s.cfg.AdminSessionTTL == 0 {
		s.cfg.AdminSessionTTL = 24 * time.Hour
	}
	if s.cfg.ClientSessionTTL == 0 {
		s.cfg.ClientSessionTTL = 24 * time.Hour
	}
	if s.cfg.FailedLoginThreshold == 0 {
		s.cfg.FailedLoginThreshold = 5
	}
	if s.cfg.LockoutDuration == 0 {
		s.cfg.LockoutDuration = 30 * time.Minute
	}
	return s
}

func serviceLogger() *slog.Logger {
	return slog.Default().With(
		"module", "application",
		"layer", "application",
	)
}
