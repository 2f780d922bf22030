package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/observability"
)

// FXModule provides *Metrics, MetricsCollector and an observability.Observer
// backed by OperationObserver, and runs both HTTP servers for the lifetime of
// the application. A metrics.Config must be in the container.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
		fx.Annotate(
			func(c MetricsCollector) observability.Observer { return NewOperationObserver(c) },
			fx.As(new(observability.Observer)),
		),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle starts the configured servers on OnStart and shuts
// them down on OnStop.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log logger.Logger) {
	servers := map[string]*http.Server{
		"system":      m.SystemServer,
		"application": m.ApplicationServer,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for name, srv := range servers {
				if srv == nil {
					continue
				}
				go func(name string, srv *http.Server) {
					log.Info("starting metrics server", nil, map[string]interface{}{
						"endpoint": name,
						"address":  srv.Addr,
					})
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server failed", err, map[string]interface{}{"endpoint": name})
					}
				}(name, srv)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			for name, srv := range servers {
				if srv == nil {
					continue
				}
				if err := srv.Shutdown(ctx); err != nil {
					log.Error("error shutting down metrics server", err, map[string]interface{}{"endpoint": name})
				}
			}
			return nil
		},
	})
}
