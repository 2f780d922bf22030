package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/aalemi-dev/anomaly-lab/batch"
	"github.com/aalemi-dev/anomaly-lab/dashboard"
	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/metrics"
	"github.com/aalemi-dev/anomaly-lab/monitor"
	"github.com/aalemi-dev/anomaly-lab/notify"
	"github.com/aalemi-dev/anomaly-lab/promquery"
	"github.com/aalemi-dev/anomaly-lab/sentry"
	"github.com/aalemi-dev/anomaly-lab/source"
	"github.com/aalemi-dev/anomaly-lab/telemetry"
	"github.com/aalemi-dev/anomaly-lab/tracer"
	"github.com/aalemi-dev/anomaly-lab/vibration"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds the configuration of every component. Each section reads its
// own environment variables.
type Config struct {
	Logger    logger.Config
	Tracer    tracer.Config
	Metrics   metrics.Config
	Telemetry telemetry.Config

	Source   source.Config
	Detector detector.Config
	Monitor  monitor.Config

	Dashboard dashboard.Config
	Vibration vibration.Config
	Query     promquery.Config
	Notify    notify.Config
	Sentry    sentry.Config
	Batch     batch.Config
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values every command depends on.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case source.KindSupabase, source.KindLocal:
	default:
		return fmt.Errorf("%w: MONITOR_SOURCE %q", ErrInvalid, c.Source.Kind)
	}
	switch c.Detector.Kind {
	case detector.KindNixtla, detector.KindZScore:
	default:
		return fmt.Errorf("%w: DETECTOR %q", ErrInvalid, c.Detector.Kind)
	}
	switch c.Vibration.Mode {
	case vibration.ModePrometheus, vibration.ModeOTelPrometheus, vibration.ModeOTLP:
	default:
		return fmt.Errorf("%w: VIBRATION_MODE %q", ErrInvalid, c.Vibration.Mode)
	}
	switch c.Telemetry.Exporter {
	case telemetry.ExporterPrometheus, telemetry.ExporterOTLP, telemetry.ExporterNone:
	default:
		return fmt.Errorf("%w: OTEL_METRICS_EXPORTER %q", ErrInvalid, c.Telemetry.Exporter)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("%w: MONITOR_INTERVAL must be positive", ErrInvalid)
	}
	return nil
}

// ValidateMonitor checks what the monitor needs on top of Validate.
func (c *Config) ValidateMonitor() error {
	if c.Source.Kind == source.KindSupabase && (c.Source.Supabase.Project == "" || c.Source.Supabase.JWT == "") {
		return fmt.Errorf("%w: SUPABASE_PROJECT and SUPABASE_JWT are required for the supabase source", ErrInvalid)
	}
	if c.Detector.Kind == detector.KindNixtla && c.Detector.Nixtla.APIKey == "" {
		return fmt.Errorf("%w: NIXTLA_API_KEY is required for the nixtla detector", ErrInvalid)
	}
	return nil
}

// ValidateSentry checks what the Sentry job needs.
func (c *Config) ValidateSentry() error {
	if c.Sentry.Token == "" || c.Sentry.Org == "" || c.Sentry.Project == "" {
		return fmt.Errorf("%w: SENTRY_AUTH_TOKEN, SENTRY_ORG_SLUG and SENTRY_PROJECT_SLUG are required", ErrInvalid)
	}
	if c.Notify.IsConfigured() && len(c.Notify.To) == 0 {
		return fmt.Errorf("%w: EMAIL_TO is required when mailgun is configured", ErrInvalid)
	}
	return nil
}
