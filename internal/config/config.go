package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RefreshConfig holds settings for the background dashboard refresh.
type RefreshConfig struct {
	Enabled  bool
	Schedule string        // Cron expression (e.g., "*/5 * * * *")
	Timeout  time.Duration // Upper bound for a single refresh run
}

type Config struct {
	Env string // "development", "production"

	// Finance and blog backends
	FinanceAPIURL string
	BlogAPIURL    string
	Currency      string

	// Identity
	JWTSecret string
	TokenTTL  time.Duration
	UsersFile string

	// AI
	GeminiAPIKey string
	GeminiModel  string
	EnableAIChat bool

	// Background refresh of the dashboard mirror
	Refresh RefreshConfig

	// Dev stub server
	Port           string
	AllowedOrigins []string
}

// LoadDotEnv loads variables from the given .env files (default ".env") into the
// process environment. Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func Load() *Config {
	return &Config{
		Env: getEnv("ENV", "development"),

		FinanceAPIURL: strings.TrimRight(getEnv("FINANCE_API_URL", "http://localhost:5000/api/finance"), "/"),
		BlogAPIURL:    strings.TrimRight(getEnv("BLOG_API_URL", "http://localhost:5000/api/blogs"), "/"),
		Currency:      getEnv("CURRENCY", "INR"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TokenTTL:  getDurationEnv("TOKEN_TTL", time.Hour),
		UsersFile: getEnv("USERS_FILE", "users.yaml"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		EnableAIChat: getBoolEnv("ENABLE_AI_CHAT", true),

		Refresh: RefreshConfig{
			Enabled:  getBoolEnv("REFRESH_ENABLED", false),
			Schedule: getEnv("REFRESH_SCHEDULE", "*/5 * * * *"),
			Timeout:  getDurationEnv("REFRESH_TIMEOUT", 30*time.Second),
		},

		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AIChatEnabled reports whether the chatbot may call the generative backend.
func (c *Config) AIChatEnabled() bool {
	return c.EnableAIChat && c.GeminiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
