package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-session-server/internal/config"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("TOKEN_USER_ACCESS_SECRET", "ua-secret")
	t.Setenv("TOKEN_USER_REFRESH_SECRET", "ur-secret")
	t.Setenv("TOKEN_ADMIN_ACCESS_SECRET", "aa-secret")
	t.Setenv("TOKEN_ADMIN_REFRESH_SECRET", "ar-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setSecrets(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "DEV", cfg.GetEnv())
	require.Equal(t, "HS256", cfg.GetSigningAlgorithm())
	require.Equal(t, "ua-secret", cfg.GetUserAccessSecret())
	require.Equal(t, "ar-secret", cfg.GetAdminRefreshSecret())
	require.Equal(t, 7*24*time.Hour, cfg.GetUserAccessTTL())
	require.Equal(t, 7*24*time.Hour, cfg.GetAdminRefreshTTL())
	require.Equal(t, config.DriverMemory, cfg.GetStoreDriver())
	require.Equal(t, "info", cfg.GetLogLevel())
	require.False(t, cfg.GetOTelEnabled())
	require.Equal(t, 5*time.Second, cfg.GetServerTimeouts().Graceful)
	require.True(t, cfg.GetAllowedOrigins().IsAllowedOrigin("http://localhost:3000"))
	require.Equal(t, "Content-Type, Authorization", cfg.GetAllowedHeaders())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	setSecrets(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("TOKEN_ALGORITHM", "HS512")
	t.Setenv("TOKEN_USER_ACCESS_TTL", "15m")
	t.Setenv("TOKEN_USER_REFRESH_TTL", "720h")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("STORE_REDIS_ADDR", "redis:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ADMIN_BOOTSTRAP_USERNAME", "root")
	t.Setenv("ADMIN_BOOTSTRAP_PASSWORD", "toor")

	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, ":9000", cfg.GetPort())
	require.Equal(t, "HS512", cfg.GetSigningAlgorithm())
	require.Equal(t, 15*time.Minute, cfg.GetUserAccessTTL())
	require.Equal(t, 720*time.Hour, cfg.GetUserRefreshTTL())
	require.Equal(t, config.DriverRedis, cfg.GetStoreDriver())
	require.Equal(t, "redis:6379", cfg.GetRedis().Addr)
	require.True(t, cfg.GetAllowedOrigins().IsAllowedOrigin("https://b.example"))
	require.False(t, cfg.GetAllowedOrigins().IsAllowedOrigin("http://localhost:3000"))
	require.Equal(t, "root", cfg.GetAdminBootstrapUsername())
	require.Equal(t, "toor", cfg.GetAdminBootstrapPassword())
}

func TestLoad_YAMLFile(t *testing.T) {
	setSecrets(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  name: Session Test
store:
  driver: sqlite
  sqlite:
    path: /tmp/test.db
token:
  admin:
    access_ttl: 10m
    refresh_ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "Session Test", cfg.GetAppName())
	require.Equal(t, config.DriverSQLite, cfg.GetStoreDriver())
	require.Equal(t, "/tmp/test.db", cfg.GetSQLitePath())
	require.Equal(t, 10*time.Minute, cfg.GetAdminAccessTTL())
	require.Equal(t, time.Hour, cfg.GetAdminRefreshTTL())
	require.Equal(t, "ua-secret", cfg.GetUserAccessSecret())
}

func TestLoad_ConfigFileFromEnvironment(t *testing.T) {
	setSecrets(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: From Env\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.GetAppName())
}

func TestLoad_MissingFile(t *testing.T) {
	setSecrets(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"TOKEN_ADMIN_REFRESH_SECRET": ""}},
		{"shared secret", map[string]string{"TOKEN_ADMIN_ACCESS_SECRET": "ua-secret"}},
		{"unsupported algorithm", map[string]string{"TOKEN_ALGORITHM": "RS256"}},
		{"access longer than refresh", map[string]string{"TOKEN_USER_ACCESS_TTL": "2h", "TOKEN_USER_REFRESH_TTL": "1h"}},
		{"zero access ttl", map[string]string{"TOKEN_ADMIN_ACCESS_TTL": "0s"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres"}},
		{"half bootstrap", map[string]string{"ADMIN_BOOTSTRAP_USERNAME": "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setSecrets(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load("")
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestCors_AllowedOrigins(t *testing.T) {
	c := config.Cors{Origins: []string{"https://b.example, https://a.example", " "}}
	origins := c.GetAllowedOrigins()

	require.Equal(t, []string{"https://a.example", "https://b.example"}, origins.List())
	require.Equal(t, "https://a.example, https://b.example", origins.String())
	require.True(t, origins.IsAllowedOrigin("https://a.example"))
	require.False(t, origins.IsAllowedOrigin("https://c.example"))

	wildcard := config.Cors{Origins: []string{"*"}}.GetAllowedOrigins()
	require.True(t, wildcard.IsAllowedOrigin("https://anything.example"))
}
