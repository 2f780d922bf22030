package monitor

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Monitor and StatusProvider and runs the monitor for the
// lifetime of the application. It needs a monitor.Config, a source.Source, a
// detector.Detector, a metrics.MetricsCollector, a tracer.Tracer and a
// logger.Logger.
var FXModule = fx.Module("monitor",
	fx.Provide(
		New,
		fx.Annotate(
			func(m *Monitor) StatusProvider { return m },
			fx.As(new(StatusProvider)),
		),
	),
	fx.Invoke(RegisterMonitorLifecycle),
)

// RegisterMonitorLifecycle starts the monitor on OnStart and stops it on
// OnStop.
func RegisterMonitorLifecycle(lc fx.Lifecycle, m *Monitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.Start()
		},
		OnStop: func(ctx context.Context) error {
			return m.Stop(ctx)
		},
	})
}
