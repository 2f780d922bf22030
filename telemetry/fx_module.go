package telemetry

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/metrics"
)

// FXModule provides *Provider, bridged into the application registry of
// *metrics.Metrics when exporting to Prometheus. A telemetry.Config must be
// in the container.
var FXModule = fx.Module("telemetry",
	fx.Provide(func(cfg Config, m *metrics.Metrics) (*Provider, error) {
		return New(context.Background(), cfg, m.Registerer())
	}),
	fx.Invoke(RegisterTelemetryLifecycle),
)

// RegisterTelemetryLifecycle shuts the provider down when the app stops.
func RegisterTelemetryLifecycle(lc fx.Lifecycle, p *Provider, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("metric telemetry ready", nil, map[string]interface{}{"exporter": p.Exporter()})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := p.Shutdown(ctx); err != nil {
				log.Warn("error shutting down meter provider", err)
			}
			return nil
		},
	})
}
