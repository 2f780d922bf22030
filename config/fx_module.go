package config

import (
	"go.uber.org/fx"

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

// FXModule provides cfg and each of its sections to the packages that take
// them.
func FXModule(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(
			func(c *Config) logger.Config { return c.Logger },
			func(c *Config) tracer.Config { return c.Tracer },
			func(c *Config) metrics.Config { return c.Metrics },
			func(c *Config) telemetry.Config { return c.Telemetry },
			func(c *Config) source.Config { return c.Source },
			func(c *Config) detector.Config { return c.Detector },
			func(c *Config) monitor.Config { return c.Monitor },
			func(c *Config) dashboard.Config { return c.Dashboard },
			func(c *Config) vibration.Config { return c.Vibration },
			func(c *Config) promquery.Config { return c.Query },
			func(c *Config) notify.Config { return c.Notify },
			func(c *Config) sentry.Config { return c.Sentry },
			func(c *Config) batch.Config { return c.Batch },
		),
	)
}
