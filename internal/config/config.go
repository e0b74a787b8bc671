package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	Uploads   UploadConfig
	Assistant AssistantConfig
	License   LicenseConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	TimeZone              string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication and registration parameters.
type AuthConfig struct {
	JWTSecret                 string
	SessionTTLMinutes         int
	BcryptCost                int
	AuthCode                  string
	AdminAuthCode             string
	SuperAdminEmail           string
	SuperAdminInitialPassword string
	SessionCookieName         string
}

// SMTPConfig holds outbound mail settings. Sends are skipped when the
// username is empty.
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	FeedbackEmail string
}

// UploadConfig controls attachment and log export storage.
type UploadConfig struct {
	Dir               string
	AllowedExtensions []string
	MaxBodyMB         int
}

// MaxBodyBytes returns the request body limit in bytes.
func (u UploadConfig) MaxBodyBytes() int {
	if u.MaxBodyMB <= 0 {
		return 16 * 1024 * 1024
	}
	return u.MaxBodyMB * 1024 * 1024
}

// AssistantConfig configures the Gemini question-answering endpoint.
type AssistantConfig struct {
	APIKey   string
	Model    string
	Endpoint string
}

// LicenseConfig configures the license expiration gate.
type LicenseConfig struct {
	URL             string
	DefaultDate     string
	CacheTTLMinutes int
	FetchTimeoutSec int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			TimeZone:              getEnv("APP_TIMEZONE", "America/Indiana/Indianapolis"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:                 getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTTLMinutes:         getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 720),
			BcryptCost:                getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AuthCode:                  os.Getenv("AUTH_CODE"),
			AdminAuthCode:             os.Getenv("ADMIN_AUTH_CODE"),
			SuperAdminEmail:           strings.ToLower(os.Getenv("SUPER_ADMIN_EMAIL")),
			SuperAdminInitialPassword: getEnv("SUPER_ADMIN_INITIAL_PASSWORD", "superadminpassword"),
			SessionCookieName:         getEnv("AUTH_SESSION_COOKIE", "helpdesk_session"),
		},
		SMTP: SMTPConfig{
			Host:          getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:          getEnvAsInt("SMTP_PORT", 587),
			Username:      os.Getenv("SYSTEM_EMAIL_NAME"),
			Password:      os.Getenv("SYSTEM_EMAIL_PASSWORD"),
			From:          getEnv("SYSTEM_EMAIL_FROM", os.Getenv("SYSTEM_EMAIL_NAME")),
			FeedbackEmail: os.Getenv("FEEDBACK_EMAIL"),
		},
		Uploads: UploadConfig{
			Dir:               getEnv("UPLOAD_DIR", "static"),
			AllowedExtensions: splitList(getEnv("UPLOAD_ALLOWED_EXTENSIONS", "txt,pdf,png,jpg,jpeg,gif,doc,docx,xls,xlsx")),
			MaxBodyMB:         getEnvAsInt("UPLOAD_MAX_BODY_MB", 16),
		},
		Assistant: AssistantConfig{
			APIKey:   os.Getenv("GEMINI_API_KEY"),
			Model:    getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
			Endpoint: getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models"),
		},
		License: LicenseConfig{
			URL:             getEnv("LICENSE_EXPIRATION_URL", "https://example.com/license_expiration"),
			DefaultDate:     getEnv("LICENSE_EXPIRATION_DEFAULT", "2026-01-01"),
			CacheTTLMinutes: getEnvAsInt("LICENSE_CACHE_TTL_MINUTES", 60),
			FetchTimeoutSec: getEnvAsInt("LICENSE_FETCH_TIMEOUT_SECONDS", 5),
		},
	}

	if cfg.Auth.SuperAdminEmail == "" {
		return nil, fmt.Errorf("SUPER_ADMIN_EMAIL is required")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Location resolves the business time zone, falling back to UTC.
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}
