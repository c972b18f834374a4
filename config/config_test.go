package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080},
		Database:  DatabaseConfig{Driver: DriverSQLite},
		Auth:      AuthConfig{Mode: AuthModeOpaque, InvitationTTL: time.Hour},
		RateLimit: RateLimitConfig{PublicPerMinute: 10},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"unknown auth mode", func(c *Config) { c.Auth.Mode = "session" }, true},
		{"jwt without secret", func(c *Config) { c.Auth.Mode = AuthModeJWT }, true},
		{"jwt with short secret", func(c *Config) {
			c.Auth.Mode = AuthModeJWT
			c.Auth.JWTSecret = "short"
		}, true},
		{"jwt with secret", func(c *Config) {
			c.Auth.Mode = AuthModeJWT
			c.Auth.JWTSecret = "a-long-enough-test-secret"
		}, false},
		{"zero invitation ttl", func(c *Config) { c.Auth.InvitationTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 9090\ndb:\n  driver: sqlite\n  sqlite_path: test.db\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("TIPSY_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, AuthModeOpaque, cfg.Auth.Mode)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.InvitationTTL)
	assert.Equal(t, 30, cfg.RateLimit.PublicPerMinute)
}
