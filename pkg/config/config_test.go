package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaultsWithoutEnvFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Notifications.AsyncEnabled)
	assert.Equal(t, 3, cfg.Notifications.MaxRetries)
	assert.Equal(t, time.Second, cfg.Notifications.RetryDelay)
	assert.Equal(t, "schedule:notifications", cfg.Notifications.RedisChannel)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []string{"csv", "ics"}, cfg.Export.Formats)
	assert.Equal(t, time.UTC, cfg.Export.Location())
	assert.Empty(t, cfg.Metrics.TextfilePath)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", EnvProduction)
	t.Setenv("NOTIFY_ASYNC_ENABLED", "true")
	t.Setenv("NOTIFY_ASYNC_WORKERS", "4")
	t.Setenv("NOTIFY_ASYNC_RETRY_DELAY", "250ms")
	t.Setenv("EXPORT_FORMATS", " pdf , json ,, ")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/schedule.prom")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.True(t, cfg.Notifications.AsyncEnabled)
	assert.Equal(t, 4, cfg.Notifications.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Notifications.RetryDelay)
	assert.Equal(t, []string{"pdf", "json"}, cfg.Export.Formats)
	assert.Equal(t, "/var/lib/node_exporter/schedule.prom", cfg.Metrics.TextfilePath)
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(".env", []byte("EXPORT_BASE_NAME=week47\nENABLE_AUDIT=true\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("EXPORT_BASE_NAME")
		_ = os.Unsetenv("ENABLE_AUDIT")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "week47", cfg.Export.BaseName)
	assert.True(t, cfg.Notifications.AuditEnabled)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

func TestExportLocationFallsBackOnUnknownZone(t *testing.T) {
	assert.Equal(t, time.UTC, ExportConfig{Timezone: "Mars/Olympus"}.Location())
}
