package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"wecamp-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	AppEnv      string
	HTTPAddr    string
	FrontendURL string

	AllowedOrigins []string
	MaxJSONSize    int64

	// Database
	DB DBConfig

	// Redis (empty address selects the in-memory session store)
	RedisAddr string
	RedisPass string

	// JWT
	JWT jwt.Config

	// Rate limiting
	RateLimitWindow    time.Duration
	RateLimitMax       int
	AuthRateLimitMax   int
	UploadRateLimitMax int
	LoginMaxAttempts   int64
	LoginLockoutWindow time.Duration

	// Uploads
	Storage StorageConfig

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	SMTPFromName string
	SMTPSecure   bool

	// Bootstrap admin
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	ConnectionLimit int
	QueueTimeout    time.Duration
	ConnectRetries  int
	RetryDelay      time.Duration
}

type StorageConfig struct {
	Driver        string // local | s3
	UploadDir     string
	BaseURL       string
	MaxUploadSize int64

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

// IsProduction reports whether cookies must be marked Secure.
func (c AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	frontendURL := getEnv("FRONTEND_URL", "")
	origins := getEnvSlice("ALLOWED_ORIGINS", nil)
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
		if frontendURL != "" {
			origins = append(origins, frontendURL)
		}
	}

	return AppConfig{
		AppEnv:         getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":5000"),
		FrontendURL:    frontendURL,
		AllowedOrigins: origins,
		MaxJSONSize:    ParseByteSize(getEnv("MAX_JSON_SIZE", "10mb"), 10<<20),

		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "wecamp"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "wecamp"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			ConnectionLimit: getEnvInt("DB_CONNECTION_LIMIT", 10),
			QueueTimeout:    getEnvDuration("DB_QUEUE_TIMEOUT", 0),
			ConnectRetries:  3,
			RetryDelay:      5 * time.Second,
		},

		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASS", ""),

		JWT: jwt.Config{
			Secret:     getEnv("JWT_SECRET", ""),
			PrivPath:   getEnv("JWT_PRIVATE_KEY_PATH", ""),
			PubPath:    getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Issuer:     getEnv("JWT_ISSUER", "wecamp"),
			Audience:   "wecamp-web",
			TTL:        getEnvDuration("JWT_EXPIRES_IN", time.Hour),
			RefreshTTL: getEnvDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
			KID:        getEnv("JWT_KID", ""),
		},

		RateLimitWindow:    time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,
		RateLimitMax:       getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		AuthRateLimitMax:   getEnvInt("AUTH_RATE_LIMIT_MAX", 20),
		UploadRateLimitMax: getEnvInt("UPLOAD_RATE_LIMIT_MAX", 30),
		LoginMaxAttempts:   int64(getEnvInt("LOGIN_MAX_ATTEMPTS", 5)),
		LoginLockoutWindow: getEnvDuration("LOGIN_LOCKOUT_WINDOW", 15*time.Minute),

		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			BaseURL:       getEnv("UPLOAD_BASE_URL", "/uploads"),
			MaxUploadSize: ParseByteSize(getEnv("MAX_UPLOAD_SIZE", "5mb"), 5<<20),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3Key:         getEnv("S3_KEY", ""),
			S3Secret:      getEnv("S3_SECRET", ""),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
			S3URL:         getEnv("S3_URL", ""),
		},

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "465"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "WeCamp"),
		SMTPSecure:   getEnvBool("SMTP_SECURE", true),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "WeCamp Admin"),
	}
}

// ParseByteSize understands plain byte counts and kb/mb/gb suffixes ("10mb").
func ParseByteSize(s string, fallback int64) int64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback
	}
	mult := int64(1)
	for _, unit := range []struct {
		suffix string
		mult   int64
	}{{"gb", 1 << 30}, {"mb", 1 << 20}, {"kb", 1 << 10}, {"b", 1}} {
		if strings.HasSuffix(s, unit.suffix) {
			mult = unit.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			break
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return int64(n * float64(mult))
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15m"), day suffixes ("7d") or seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if strings.HasSuffix(v, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(v, "d")); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
