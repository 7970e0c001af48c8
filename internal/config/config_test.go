package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
env: staging
storage:
  driver: postgres
auth:
  jwt_secret: from-yaml
  reset_token_ttl: 20m
rate_limit:
  scopes:
    login:
      limit: 3
      window: 1m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Env != "staging" {
		t.Fatalf("unexpected env: %s", cfg.Env)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Fatalf("unexpected storage driver: %s", cfg.Storage.Driver)
	}
	if cfg.Auth.JWTSecret != "from-yaml" {
		t.Fatalf("unexpected jwt secret: %s", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.ResetTokenTTL != 20*time.Minute {
		t.Fatalf("unexpected reset token ttl: %s", cfg.Auth.ResetTokenTTL)
	}
	if got := cfg.RateLimit.Scopes["login"]; got.Limit != 3 || got.Window != time.Minute {
		t.Fatalf("unexpected login scope: %+v", got)
	}
	if got := cfg.RateLimit.Scopes["forgot-password"]; got.Limit != 5 {
		t.Fatalf("forgot-password default should stay 5, got %d", got.Limit)
	}
	if cfg.Auth.JWTAccessTTL != 15*time.Minute {
		t.Fatalf("access ttl default should stay 15m, got %s", cfg.Auth.JWTAccessTTL)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Storage.Driver != DriverMongo {
		t.Fatalf("unexpected default driver: %s", cfg.Storage.Driver)
	}
	if cfg.RateLimit.Default.Limit != 100 || cfg.RateLimit.Default.Window != 15*time.Minute {
		t.Fatalf("unexpected default rate limit: %+v", cfg.RateLimit.Default)
	}
	if cfg.Auth.JWTRefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected refresh ttl: %s", cfg.Auth.JWTRefreshTTL)
	}
	if cfg.IsProduction() {
		t.Fatalf("dev config must not be production")
	}
	if len(cfg.HTTP.TrustedProxies) != 0 {
		t.Fatalf("no proxy should be trusted by default: %v", cfg.HTTP.TrustedProxies)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("FROM_EMAIL", "noreply@apnisec.test")
	t.Setenv("POSTGRES_MIGRATE", "true")
	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1 ,")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("unexpected jwt secret: %s", cfg.Auth.JWTSecret)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Fatalf("unexpected driver: %s", cfg.Storage.Driver)
	}
	if cfg.RateLimit.Backend != RateBackendRedis {
		t.Fatalf("unexpected rate backend: %s", cfg.RateLimit.Backend)
	}
	if cfg.Email.ResendAPIKey != "re_123" || cfg.Email.From != "noreply@apnisec.test" {
		t.Fatalf("unexpected email config: %+v", cfg.Email)
	}
	if !cfg.Postgres.MigrateOnStart {
		t.Fatalf("expected migrate on start")
	}
	if got := cfg.HTTP.TrustedProxies; len(got) != 2 || got[0] != "10.0.0.0/8" || got[1] != "127.0.0.1" {
		t.Fatalf("unexpected trusted proxies: %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "soon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed JWT_ACCESS_TTL")
	}
}

func TestValidateRequiresSecret(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when jwt secret is empty")
	}

	cfg.Auth.JWTSecret = "s"
	cfg.Storage.Driver = "sqlite"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}

	cfg.Storage.Driver = DriverMongo
	cfg.Mongo.URI = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty mongo uri")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"HTTP_REQUEST_TIMEOUT",
		"HTTP_STATIC_DIR",
		"HTTP_TRUSTED_PROXIES",
		"LOG_LEVEL",
		"STORAGE_DRIVER",
		"MONGODB_URI",
		"MONGODB_DATABASE",
		"POSTGRES_DSN",
		"POSTGRES_MIGRATE",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"JWT_REFRESH_TTL",
		"RESET_TOKEN_TTL",
		"RATE_LIMIT_BACKEND",
		"RESEND_API_KEY",
		"FROM_EMAIL",
		"APP_BASE_URL",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_INSECURE",
		"CLEANUP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}
