package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
// It merges file defaults and environment overrides so local and
// deployed runs share one code path.
type Config struct {
	ServiceID string
	HTTPPort  int

	DatabaseURL string
	RedisURL    string

	// AdminPassword is hashed at boot when AdminPasswordHash is unset.
	AdminPassword     string
	AdminPasswordHash string

	// AdminSessionSecret signs stateless admin tokens. When unset and
	// AllowEphemeralSecret is true, a random per-process secret is used.
	AdminSessionSecret   string
	AllowEphemeralSecret bool

	BcryptCost int

	AdminSessionTTL  time.Duration
	ClientSessionTTL time.Duration
	LockoutDuration  time.Duration
	FailedThreshold  int

	SessionSweepInterval time.Duration

	MaxDBConns   int32
	CookieSecure bool
}

// configFile mirrors the YAML schema used by configs/default.yaml.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	HTTP struct {
		CookieSecure bool `yaml:"cookie_secure"`
	} `yaml:"http"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:            "license-portal",
		HTTPPort:             8080,
		AllowEphemeralSecret: true,
		BcryptCost:           12,
		AdminSessionTTL:      24 * time.Hour,
		ClientSessionTTL:     24 * time.Hour,
		LockoutDuration:      30 * time.Minute,
		FailedThreshold:      5,
		SessionSweepInterval: time.Hour,
		MaxDBConns:           20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.HTTP.CookieSecure {
			cfg.CookieSecure = true
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.AdminPassword = envOrDefault("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.AdminPasswordHash = envOrDefault("ADMIN_PASSWORD_HASH", cfg.AdminPasswordHash)
	cfg.AdminSessionSecret = envOrDefault("ADMIN_SESSION_SECRET", cfg.AdminSessionSecret)
	cfg.AllowEphemeralSecret = envBool("ADMIN_SESSION_SECRET_ALLOW_EPHEMERAL", cfg.AllowEphemeralSecret)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedThreshold)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.CookieSecure = envBool("COOKIE_SECURE", cfg.CookieSecure)

	cfg.AdminSessionTTL = time.Duration(envInt("ADMIN_SESSION_HOURS", int(cfg.AdminSessionTTL.Hours()))) * time.Hour
	cfg.ClientSessionTTL = time.Duration(envInt("CLIENT_SESSION_HOURS", int(cfg.ClientSessionTTL.Hours()))) * time.Hour
	cfg.LockoutDuration = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutDuration.Minutes()))) * time.Minute
	cfg.SessionSweepInterval = time.Duration(envInt("SESSION_SWEEP_MINUTES", int(cfg.SessionSweepInterval.Minutes()))) * time.Minute

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.AdminSessionSecret == "" && !cfg.AllowEphemeralSecret {
		return Config{}, fmt.Errorf("missing ADMIN_SESSION_SECRET")
	}

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
