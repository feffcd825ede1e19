package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port        string
	Environment string

	// Database
	SQLiteDBPath string

	// Auth
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// CORS
	AllowedOrigins []string

	// Rate limiting
	RateLimitPerMinute int

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	SweepInterval time.Duration
	SweepBatch    int

	// Google Sheets export (optional)
	ExportSpreadsheetID string
	ExportSheetName     string
}

const EnvProduction = "production"

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("APP_ENV", "development"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendlog.db"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		TokenTTL:   getEnvDuration("TOKEN_TTL", 24*time.Hour),
		BcryptCost: getEnvInt("BCRYPT_COST", 12),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendlog"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
		SweepBatch:    getEnvInt("SWEEP_BATCH", 50),

		ExportSpreadsheetID: getEnv("EXPORT_SPREADSHEET_ID", ""),
		ExportSheetName:     getEnv("EXPORT_SHEET_NAME", "Expenses"),
	}

	return cfg
}

// IsProduction reports whether the server should withhold error detail.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET must be set")
	} else if len(c.JWTSecret) < 16 {
		errs = append(errs, "JWT_SECRET too short: need at least 16 characters")
	}

	if c.TokenTTL < time.Minute || c.TokenTTL > 30*24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid token TTL %v: must be between 1 minute and 30 days", c.TokenTTL))
	}

	if c.BcryptCost < 10 || c.BcryptCost > 16 {
		errs = append(errs, fmt.Sprintf("invalid bcrypt cost %d: must be between 10 and 16", c.BcryptCost))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	for _, origin := range c.AllowedOrigins {
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid allowed origin '%s': must be an absolute URL", origin))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SweepBatch < 1 || c.SweepBatch > 1000 {
		errs = append(errs, fmt.Sprintf("invalid sweep batch %d: must be between 1 and 1000", c.SweepBatch))
	}
	if c.SweepInterval < time.Second || c.SweepInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid sweep interval %v: must be between 1 second and 24 hours", c.SweepInterval))
	}

	if c.ExportSpreadsheetID != "" && c.ExportSheetName == "" {
		errs = append(errs, "export sheet name cannot be empty when a spreadsheet ID is provided")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
