package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clubhouse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CLUBHOUSE_CONFIG_FILE", "")
	t.Setenv("ENV", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "memory", cfg.RateLimitBackend)
	require.Equal(t, "local", cfg.BlobBackend)
	require.Equal(t, 5, cfg.SponsorApprovalLimit)
	require.Equal(t, 24*time.Hour, cfg.SponsorApprovalWindow)
	require.True(t, cfg.ExposeVerificationCode)
	require.False(t, cfg.IsProd())
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	t.Setenv("CLUBHOUSE_CONFIG_FILE", writeConfigFile(t, `
port: 9090
site_url: https://file.example
sponsor_approval_limit: 3
sponsor_approval_window: 2h
env: prod
`))
	t.Setenv("SITE_URL", "https://env.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "https://env.example", cfg.SiteURL)
	require.Equal(t, 3, cfg.SponsorApprovalLimit)
	require.Equal(t, 2*time.Hour, cfg.SponsorApprovalWindow)
	require.True(t, cfg.IsProd())
	require.False(t, cfg.ExposeVerificationCode, "codes stay hidden in prod")
}

func TestLoadConfigRejectsIncompleteBackends(t *testing.T) {
	t.Setenv("CLUBHOUSE_CONFIG_FILE", "")
	t.Setenv("RATELIMIT_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("BLOB_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "REDIS_ADDR")
	require.Contains(t, err.Error(), "GCS_BUCKET")
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("CLUBHOUSE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
}
