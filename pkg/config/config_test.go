package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, AuthModeSession, cfg.Auth.Mode)
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CLIENT_ORIGIN", "https://vidrios.example/, https://admin.vidrios.example")
	t.Setenv("JWT_SECRET", "prod-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"https://vidrios.example", "https://admin.vidrios.example"}, cfg.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadProductionRejectsEmptyOrigins(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("CLIENT_ORIGIN", " , ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLIENT_ORIGIN")
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "a week")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expiration)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:      EnvDevelopment,
			Database: DatabaseConfig{Driver: DriverPostgres, URL: "postgres://localhost/db"},
			JWT:      JWTConfig{Secret: DevJWTSecret, Expiration: time.Hour},
			Auth:     AuthConfig{Mode: AuthModeSession, AdminEmail: "admin@vidrios.com", AdminPassword: "secret"},
			CORS:     CORSConfig{AllowedOrigins: []string{"https://vidrios.example"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: "DB_DRIVER"},
		{name: "missing postgres url", mutate: func(c *Config) { c.Database.URL = "" }, wantErr: "DATABASE_URL"},
		{name: "missing mongo uri", mutate: func(c *Config) { c.Database.Driver = DriverMongo }, wantErr: "MONGO_URI"},
		{name: "dev secret in production", mutate: func(c *Config) { c.Env = EnvProduction }, wantErr: "JWT_SECRET"},
		{name: "production without origins", mutate: func(c *Config) { c.Env = EnvProduction; c.JWT.Secret = "prod-secret"; c.CORS.AllowedOrigins = nil }, wantErr: "CLIENT_ORIGIN"},
		{name: "production with origins", mutate: func(c *Config) { c.Env = EnvProduction; c.JWT.Secret = "prod-secret" }},
		{name: "development without origins", mutate: func(c *Config) { c.CORS.AllowedOrigins = nil }},
		{name: "missing admin password", mutate: func(c *Config) { c.Auth.AdminPassword = "" }, wantErr: "ADMIN_PASSWORD"},
		{name: "hash replaces password", mutate: func(c *Config) { c.Auth.AdminPassword = ""; c.Auth.AdminPasswordHash = "$2a$10$hash" }},
		{name: "token mode needs token", mutate: func(c *Config) { c.Auth.Mode = AuthModeToken }, wantErr: "ADMIN_TOKEN"},
		{name: "token mode", mutate: func(c *Config) { c.Auth.Mode = AuthModeToken; c.Auth.AdminToken = "admin123" }},
		{name: "unknown auth mode", mutate: func(c *Config) { c.Auth.Mode = "basic" }, wantErr: "AUTH_MODE"},
		{name: "non positive ttl", mutate: func(c *Config) { c.JWT.Expiration = 0 }, wantErr: "SESSION_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
