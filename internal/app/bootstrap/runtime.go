package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/algonex/license-portal/internal/adapters/cache"
	httpadapter "github.com/algonex/license-portal/internal/adapters/http"
	"github.com/algonex/license-portal/internal/adapters/maintenance"
	"github.com/algonex/license-portal/internal/adapters/postgres"
	"github.com/algonex/license-portal/internal/adapters/security"
	"github.com/algonex/license-portal/internal/application"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	sweeper    *maintenance.SessionSweeper
	cleanupFn  func()
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger = logger.With("service", cfg.ServiceID)
	slog.SetDefault(logger)
	logger.Info("bootstrapping license portal", "http_port", cfg.HTTPPort)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	adminHash := cfg.AdminPasswordHash
	if adminHash == "" && cfg.AdminPassword != "" {
		adminHash, err = hasher.Hash(cfg.AdminPassword)
		if err != nil {
			_ = sqlDB.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}
	if adminHash == "" {
		logger.Warn("no admin password configured, admin login is disabled")
	}

	var signer *security.AdminTokenSigner
	if cfg.AdminSessionSecret != "" {
		signer, err = security.NewAdminTokenSigner(cfg.AdminSessionSecret)
	} else {
		logger.Warn("using ephemeral admin session secret, admin sessions will not survive restarts")
		signer, err = security.NewEphemeralAdminTokenSigner()
	}
	if err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init admin token signer: %w", err)
	}

	repos := postgres.NewRepositories(db)

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			AdminPasswordHash:    adminHash,
			AdminSessionTTL:      cfg.AdminSessionTTL,
			ClientSessionTTL:     cfg.ClientSessionTTL,
			FailedLoginThreshold: cfg.FailedThreshold,
			LockoutDuration:      cfg.LockoutDuration,
		},
		Licenses:    repos.Licenses,
		Clients:     repos.Clients,
		Sessions:    repos.Sessions,
		Lockouts:    cacheadapter.NewRedisLockoutStore(redisClient),
		Hasher:      hasher,
		AdminTokens: signer,
	})

	handler := httpadapter.NewHandler(svc, httpadapter.Options{CookieSecure: cfg.CookieSecure})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweeper := maintenance.NewSessionSweeper(logger, repos.Sessions, cfg.SessionSweepInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		sweeper:    sweeper,
		cleanupFn: func() {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

// Run serves HTTP and the session sweeper until a shutdown signal.
func (r *Runtime) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go func() {
		if err := r.sweeper.Run(sweepCtx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("session sweeper stopped", "error", err.Error())
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err.Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn()
	return nil
}
