package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	FrontendURL string
	UploadDir   string

	ResendAPIKey string
	MailFrom     string

	ReminderInterval time.Duration
	RoleCacheTTL     time.Duration
}

// Load reads .env (if present) and assembles the config. Missing optional
// values get dev defaults. JWTSecret has no default; token issuance fails
// with a config error when it is unset.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      getenv("DATABASE_URL", "postgres://localhost:5432/stm"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		FrontendURL:      getenv("FRONTEND_URL", "http://localhost:3000"),
		UploadDir:        getenv("UPLOAD_DIR", "uploads/profile"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		MailFrom:         getenv("MAIL_FROM", "Task Manager <onboarding@resend.dev>"),
		ReminderInterval: getduration("REMINDER_INTERVAL", 24*time.Hour),
		RoleCacheTTL:     getduration("ROLE_CACHE_TTL", time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
