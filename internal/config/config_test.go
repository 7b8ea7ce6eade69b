package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEditSecret  = "k3Jx9QvL2mNp7RtY4wZa8BcD1eFgHiJo"
	testAdminSecret = "Zq8Wx2Ce4Rv6Tb1Yn3Um5Il7Ok9Pj0Hg"
)

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envStoreDriver, StoreDriverMemory)
	t.Setenv(envJWTSecret, testEditSecret)
	t.Setenv(envAdminJWTSecret, testAdminSecret)
	t.Setenv(envAdminKeyHash, "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoad_Defaults(t *testing.T) {
	setMemoryEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultServerPort, cfg.Server.Port)
	assert.Equal(t, "HS256", cfg.Token.Algorithm)
	assert.Equal(t, 60*time.Minute, cfg.Token.ExpiryDuration)
	assert.Equal(t, 8, cfg.App.CodeLength)
	assert.Equal(t, int64(5*1024*1024), cfg.App.ImageMaxSize)
	assert.Equal(t, []string{"image/jpeg", "image/png"}, cfg.App.AllowedImageTypes)
	assert.Equal(t, time.Hour, cfg.App.PresignedURLExpiry)
}

func TestLoad_Overrides(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv(envJWTExpiry, "15")
	t.Setenv(envImageExpireTime, "90s")
	t.Setenv(envAllowedImageTypes, " image/png , image/webp ,")
	t.Setenv(envCodeLength, "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Token.ExpiryDuration)
	assert.Equal(t, 90*time.Second, cfg.App.PresignedURLExpiry)
	assert.Equal(t, []string{"image/png", "image/webp"}, cfg.App.AllowedImageTypes)
	assert.Equal(t, 12, cfg.App.CodeLength)
}

func TestLoad_PostgresRequiresStorageSettings(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv(envStoreDriver, StoreDriverPostgres)
	t.Setenv(envDBPassword, "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envS3Bucket)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Driver: StoreDriverMemory},
			Token:    TokenConfig{Secret: testEditSecret, Algorithm: "HS256", ExpiryDuration: time.Hour},
			Admin:    AdminConfig{Secret: testAdminSecret, ExpiryDuration: time.Minute, KeyHash: "hash"},
			App: AppConfig{
				CodeLength:         8,
				ImageMaxSize:       1024,
				AllowedImageTypes:  []string{"image/png"},
				PresignedURLExpiry: time.Minute,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: "STORE_DRIVER"},
		{name: "short secret", mutate: func(c *Config) { c.Token.Secret = "short" }, wantErr: "at least 32"},
		{name: "low entropy secret", mutate: func(c *Config) { c.Token.Secret = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" }, wantErr: "entropy"},
		{name: "shared secret", mutate: func(c *Config) { c.Admin.Secret = c.Token.Secret }, wantErr: "must differ"},
		{name: "rsa algorithm", mutate: func(c *Config) { c.Token.Algorithm = "RS256" }, wantErr: "JWT_ALGORITHM"},
		{name: "zero ttl", mutate: func(c *Config) { c.Token.ExpiryDuration = 0 }, wantErr: envJWTExpiry},
		{name: "code too short", mutate: func(c *Config) { c.App.CodeLength = 2 }, wantErr: "CODE_LENGTH"},
		{name: "no image types", mutate: func(c *Config) { c.App.AllowedImageTypes = nil }, wantErr: "ALLOWED_IMAGE_TYPES"},
		{name: "missing admin key hash", mutate: func(c *Config) { c.Admin.KeyHash = "" }, wantErr: envAdminKeyHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
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

func TestIsImageTypeAllowed(t *testing.T) {
	app := AppConfig{AllowedImageTypes: []string{"image/png", "image/jpeg"}}

	assert.True(t, app.IsImageTypeAllowed("image/png"))
	assert.True(t, app.IsImageTypeAllowed("IMAGE/JPEG"))
	assert.False(t, app.IsImageTypeAllowed("image/gif"))
}
