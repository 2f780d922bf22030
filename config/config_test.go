package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/monitor"
	"github.com/aalemi-dev/anomaly-lab/notify"
	"github.com/aalemi-dev/anomaly-lab/source"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, ":9190", cfg.Metrics.SystemMetricsAddress)
	assert.Equal(t, ":9191", cfg.Metrics.ApplicationMetricsAddress)
	assert.Equal(t, source.KindSupabase, cfg.Source.Kind)
	assert.Equal(t, 10*time.Second, cfg.Source.Supabase.Timeout)
	assert.Equal(t, detector.KindNixtla, cfg.Detector.Kind)
	assert.Equal(t, 10, cfg.Detector.MinPoints)
	assert.Equal(t, 60*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 180, cfg.Monitor.WindowSize)
	assert.Equal(t, ":8050", cfg.Dashboard.Address)
	assert.Equal(t, ":8000", cfg.Vibration.Address)
	assert.Equal(t, []string{"machine_1"}, cfg.Vibration.Machines)
	assert.Equal(t, "http://localhost:9090", cfg.Query.URL)
	assert.Equal(t, "@every 5m", cfg.Sentry.Schedule)
	assert.Equal(t, 475, cfg.Batch.DetectionSize)
	assert.Equal(t, uint(3), cfg.Notify.MaxTries)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONITOR_SOURCE", "local")
	t.Setenv("DETECTOR", "zscore")
	t.Setenv("ZSCORE_THRESHOLD", "2.5")
	t.Setenv("MONITOR_INTERVAL", "15s")
	t.Setenv("EMAIL_TO", "a@example.com,b@example.com")
	t.Setenv("VIBRATION_MACHINES", "m1,m2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, source.KindLocal, cfg.Source.Kind)
	assert.Equal(t, detector.KindZScore, cfg.Detector.Kind)
	assert.Equal(t, 2.5, cfg.Detector.ZScore.Threshold)
	assert.Equal(t, 15*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Notify.To)
	assert.Equal(t, []string{"m1", "m2"}, cfg.Vibration.Machines)
	assert.NoError(t, cfg.ValidateMonitor())
}

func TestLoad_TelemetryExportInterval(t *testing.T) {
	// The OpenTelemetry variable holds milliseconds and must not break Load.
	t.Setenv("OTEL_METRIC_EXPORT_INTERVAL", "5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Telemetry.Interval)

	t.Setenv("TELEMETRY_EXPORT_INTERVAL", "2s")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Telemetry.Interval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"MONITOR_SOURCE":        "ftp",
		"DETECTOR":              "magic",
		"VIBRATION_MODE":        "carrier-pigeon",
		"OTEL_METRICS_EXPORTER": "stdout",
		"MONITOR_INTERVAL":      "0s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("MONITOR_INTERVAL", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateMonitor_SupabaseCredentials(t *testing.T) {
	t.Setenv("NIXTLA_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.ValidateMonitor(), ErrInvalid)

	cfg.Source.Supabase.Project = "abc"
	cfg.Source.Supabase.JWT = "jwt"
	assert.NoError(t, cfg.ValidateMonitor())
}

func TestValidateMonitor_NixtlaKey(t *testing.T) {
	t.Setenv("MONITOR_SOURCE", "local")

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.ValidateMonitor(), ErrInvalid)
}

func TestValidateSentry(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.ValidateSentry(), ErrInvalid)

	cfg.Sentry.Token, cfg.Sentry.Org, cfg.Sentry.Project = "t", "o", "p"
	assert.NoError(t, cfg.ValidateSentry())

	cfg.Notify.MailgunDomain, cfg.Notify.MailgunAPIKey = "mg.example.com", "key"
	assert.ErrorIs(t, cfg.ValidateSentry(), ErrInvalid)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	local := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(base, []byte("ANOMALY_TEST_A=base\nANOMALY_TEST_B=base\n"), 0o600))
	require.NoError(t, os.WriteFile(local, []byte("ANOMALY_TEST_B=local\n"), 0o600))

	t.Setenv("ANOMALY_TEST_A", "")
	t.Setenv("ANOMALY_TEST_B", "")
	require.NoError(t, os.Unsetenv("ANOMALY_TEST_A"))
	require.NoError(t, os.Unsetenv("ANOMALY_TEST_B"))

	require.NoError(t, LoadDotEnv(base, local))
	assert.Equal(t, "base", os.Getenv("ANOMALY_TEST_A"))
	assert.Equal(t, "local", os.Getenv("ANOMALY_TEST_B"))
}

func TestLoadDotEnv_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local")))
}

func TestFXModule(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Monitor.ExportDir = "/tmp/exports"

	var (
		mcfg monitor.Config
		ncfg notify.Config
	)
	app := fxtest.New(t,
		FXModule(cfg),
		fx.Populate(&mcfg, &ncfg),
	)
	app.RequireStart()
	app.RequireStop()

	assert.Equal(t, "/tmp/exports", mcfg.ExportDir)
	assert.Equal(t, cfg.Notify, ncfg)
}
