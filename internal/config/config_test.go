package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "REDIS_ADDR", "JWT_SECRET", "FRONTEND_URL",
		"UPLOAD_DIR", "RESEND_API_KEY", "MAIL_FROM", "REMINDER_INTERVAL", "ROLE_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTSecret != "" {
		t.Errorf("JWTSecret = %q, want empty when unset", cfg.JWTSecret)
	}
	if cfg.ReminderInterval != 24*time.Hour {
		t.Errorf("ReminderInterval = %v, want 24h", cfg.ReminderInterval)
	}
	if cfg.RoleCacheTTL != time.Minute {
		t.Errorf("RoleCacheTTL = %v, want 1m", cfg.RoleCacheTTL)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REMINDER_INTERVAL", "30m")
	t.Setenv("ROLE_CACHE_TTL", "5m")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q, want s3cret", cfg.JWTSecret)
	}
	if cfg.ReminderInterval != 30*time.Minute {
		t.Errorf("ReminderInterval = %v, want 30m", cfg.ReminderInterval)
	}
	if cfg.RoleCacheTTL != 5*time.Minute {
		t.Errorf("RoleCacheTTL = %v, want 5m", cfg.RoleCacheTTL)
	}
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "tomorrow")

	cfg := Load()
	if cfg.ReminderInterval != 24*time.Hour {
		t.Errorf("ReminderInterval = %v, want 24h fallback", cfg.ReminderInterval)
	}
}
