package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Port     string
	DBDriver string
	DSN      string

	JWTSecret           string
	UserTokenTTL        time.Duration
	CandidateTokenGrace time.Duration
	InviteTokenTTL      time.Duration
	LoginWindowMinutes  int

	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string
	HRNotifyEmail   string

	UploadDir     string
	UploadBaseURL string
	FrontendURL   string
	CloudinaryURL string

	AdminEmail    string
	AdminPassword string
	AdminFullName string

	LogLevel      string
	LogPretty     bool
	ChromeEnabled bool
}

// App is the process-wide configuration. main replaces it with Load(); tests
// mutate the defaults directly.
var App = Defaults()

var loadEnv sync.Once

func Defaults() *AppConfig {
	return &AppConfig{
		Port:                "8080",
		DBDriver:            "postgres",
		JWTSecret:           "change-me",
		UserTokenTTL:        72 * time.Hour,
		CandidateTokenGrace: 15 * time.Minute,
		InviteTokenTTL:      7 * 24 * time.Hour,
		LoginWindowMinutes:  30,
		UploadDir:           "./uploads",
		UploadBaseURL:       "http://localhost:8080/uploads",
		FrontendURL:         "http://localhost:3000",
		LogLevel:            "info",
	}
}

// Config returns a single environment value, loading .env on first use.
func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Warn().Msg(".env file not found, reading from system environment variables")
		}
	})
	return os.Getenv(key)
}

func Load() *AppConfig {
	cfg := Defaults()

	cfg.Port = stringOr("PORT", cfg.Port)
	cfg.DBDriver = stringOr("DB_DRIVER", cfg.DBDriver)
	cfg.DSN = Config("DATABASE_URL")

	cfg.JWTSecret = stringOr("JWT_SECRET", cfg.JWTSecret)
	cfg.UserTokenTTL = durationOr("USER_TOKEN_TTL", cfg.UserTokenTTL)
	cfg.CandidateTokenGrace = durationOr("CANDIDATE_TOKEN_GRACE", cfg.CandidateTokenGrace)
	cfg.InviteTokenTTL = durationOr("INVITE_TOKEN_TTL", cfg.InviteTokenTTL)
	cfg.LoginWindowMinutes = intOr("LOGIN_WINDOW_MINUTES", cfg.LoginWindowMinutes)

	cfg.BrevoAPIKey = Config("BREVO_API_KEY")
	cfg.EmailSender = Config("EMAIL_SENDER")
	cfg.EmailSenderName = Config("EMAIL_SENDER_NAME")
	cfg.HRNotifyEmail = Config("HR_NOTIFY_EMAIL")

	cfg.UploadDir = stringOr("UPLOAD_DIR", cfg.UploadDir)
	cfg.UploadBaseURL = stringOr("UPLOAD_BASE_URL", cfg.UploadBaseURL)
	cfg.FrontendURL = stringOr("FRONTEND_URL", cfg.FrontendURL)
	cfg.CloudinaryURL = Config("CLOUDINARY_URL")

	cfg.AdminEmail = Config("ADMIN_EMAIL")
	cfg.AdminPassword = Config("ADMIN_PASSWORD")
	cfg.AdminFullName = stringOr("ADMIN_FULL_NAME", "Administrator")

	cfg.LogLevel = stringOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = boolOr("LOG_PRETTY", false)
	cfg.ChromeEnabled = boolOr("CHROME_ENABLED", false)

	return cfg
}

func stringOr(key, def string) string {
	if v := Config(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	v := Config(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return def
	}
	return n
}

func boolOr(key string, def bool) bool {
	v := Config(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid boolean, using default")
		return def
	}
	return b
}

func durationOr(key string, def time.Duration) time.Duration {
	v := Config(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return def
	}
	return d
}
