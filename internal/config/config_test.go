package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_PORT", "APP_ENV", "LOG_LEVEL", "DATABASE_DRIVER", "DATABASE_DSN", "JWT_SECRET",
	"ACCESS_TOKEN_TTL_MINUTES", "REFRESH_TOKEN_TTL_DAYS", "PRIVILEGED_ACCOUNT_ID",
	"CHAT_REQUEST_REOPEN_ON_REJECT", "CORS_ALLOWED_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Load() Port = %v, want 8080", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Errorf("Load() Env = %v, want dev", cfg.Env)
	}
	if cfg.DatabaseDriver != "postgres" {
		t.Errorf("Load() DatabaseDriver = %v, want postgres", cfg.DatabaseDriver)
	}
	if cfg.AccessTokenTTLMinutes != 15 {
		t.Errorf("Load() AccessTokenTTLMinutes = %v, want 15", cfg.AccessTokenTTLMinutes)
	}
	if cfg.RefreshTokenTTLDays != 7 {
		t.Errorf("Load() RefreshTokenTTLDays = %v, want 7", cfg.RefreshTokenTTLDays)
	}
	if cfg.PrivilegedAccountID != 1 {
		t.Errorf("Load() PrivilegedAccountID = %v, want 1", cfg.PrivilegedAccountID)
	}
	if !cfg.ReopenOnReject {
		t.Error("Load() ReopenOnReject = false, want true")
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("Load() CORSAllowedOrigins = %v, want empty", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("JWT_SECRET", "my-secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "14")
	t.Setenv("PRIVILEGED_ACCOUNT_ID", "42")
	t.Setenv("CHAT_REQUEST_REOPEN_ON_REJECT", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file:test.db", cfg.DatabaseDSN)
	assert.Equal(t, "my-secret", cfg.JWTSecret)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, 30, cfg.AccessTokenTTLMinutes)
	assert.Equal(t, 14, cfg.RefreshTokenTTLDays)
	assert.Equal(t, uint(42), cfg.PrivilegedAccountID)
	assert.False(t, cfg.ReopenOnReject)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "invalid")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "-5")
	t.Setenv("PRIVILEGED_ACCOUNT_ID", "0")

	cfg := Load()

	// Should fall back to defaults
	if cfg.AccessTokenTTLMinutes != 15 {
		t.Errorf("Load() AccessTokenTTLMinutes = %v, want 15 (default)", cfg.AccessTokenTTLMinutes)
	}
	if cfg.RefreshTokenTTLDays != 7 {
		t.Errorf("Load() RefreshTokenTTLDays = %v, want 7 (default)", cfg.RefreshTokenTTLDays)
	}
	if cfg.PrivilegedAccountID != 1 {
		t.Errorf("Load() PrivilegedAccountID = %v, want 1 (default)", cfg.PrivilegedAccountID)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "morsechat.yaml")
	yaml := "app_port: \"9191\"\nprivileged_account_id: 3\nchat_request_reopen_on_reject: false\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Port)
	assert.Equal(t, uint(3), cfg.PrivilegedAccountID)
	assert.False(t, cfg.ReopenOnReject)
	assert.Equal(t, "dev", cfg.Env)

	t.Setenv("APP_PORT", "7070")
	cfg, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port, "environment overrides the file")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid dev config",
			cfg: Config{
				Port:        "8080",
				DatabaseDSN: "postgres://localhost/test",
				JWTSecret:   "dev-secret-change-me",
				Env:         "dev",
			},
			wantErr: false,
		},
		{
			name: "valid prod config",
			cfg: Config{
				Port:           "8080",
				DatabaseDriver: "postgres",
				DatabaseDSN:    "postgres://localhost/test",
				JWTSecret:      "production-secret-key",
				Env:            "prod",
			},
			wantErr: false,
		},
		{
			name: "sqlite driver",
			cfg: Config{
				Port:           "8080",
				DatabaseDriver: "sqlite",
				DatabaseDSN:    "file:morse.db",
				JWTSecret:      "secret",
				Env:            "dev",
			},
			wantErr: false,
		},
		{
			name: "empty port",
			cfg: Config{
				Port:        "",
				DatabaseDSN: "postgres://localhost/test",
				JWTSecret:   "secret",
				Env:         "dev",
			},
			wantErr: true,
		},
		{
			name: "empty dsn",
			cfg: Config{
				Port:        "8080",
				DatabaseDSN: "",
				JWTSecret:   "secret",
				Env:         "dev",
			},
			wantErr: true,
		},
		{
			name: "unknown driver",
			cfg: Config{
				Port:           "8080",
				DatabaseDriver: "mysql",
				DatabaseDSN:    "root@/db",
				JWTSecret:      "secret",
				Env:            "dev",
			},
			wantErr: true,
		},
		{
			name: "empty secret",
			cfg: Config{
				Port:        "8080",
				DatabaseDSN: "postgres://localhost/test",
				Env:         "dev",
			},
			wantErr: true,
		},
		{
			name: "default secret in prod",
			cfg: Config{
				Port:        "8080",
				DatabaseDSN: "postgres://localhost/test",
				JWTSecret:   "dev-secret-change-me",
				Env:         "prod",
			},
			wantErr: true,
		},
		{
			name: "default secret in test env",
			cfg: Config{
				Port:        "8080",
				DatabaseDSN: "postgres://localhost/test",
				JWTSecret:   "dev-secret-change-me",
				Env:         "test",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
