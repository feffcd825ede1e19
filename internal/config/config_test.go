package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Port:               "5000",
		Environment:        "development",
		SQLiteDBPath:       filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:          "sixteen-chars-min!",
		TokenTTL:           24 * time.Hour,
		BcryptCost:         12,
		AllowedOrigins:     []string{"http://localhost:3000"},
		RateLimitPerMinute: 100,
		SweepInterval:      5 * time.Minute,
		SweepBatch:         50,
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantSub string
	}{
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "must be between"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET must be set"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "too short"},
		{"ttl too small", func(c *Config) { c.TokenTTL = time.Second }, "token TTL"},
		{"bcrypt cost", func(c *Config) { c.BcryptCost = 4 }, "bcrypt cost"},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }, "database path"},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, "rate limit"},
		{"relative origin", func(c *Config) { c.AllowedOrigins = []string{"localhost:3000"} }, "allowed origin"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://rabbit:5672" }, "AMQP URL scheme"},
		{"sweep batch", func(c *Config) { c.SweepBatch = 0 }, "sweep batch"},
		{"export sheet name", func(c *Config) { c.ExportSpreadsheetID = "sheet-id"; c.ExportSheetName = "" }, "export sheet name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSub)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, "spendlog", cfg.AMQPExchange)
	assert.Equal(t, "expense_events", cfg.AMQPQueue)
	assert.False(t, cfg.IsProduction())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
