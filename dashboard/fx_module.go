package dashboard

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/monitor"
)

// Params are the dependencies of the dashboard. The monitor status is
// optional so the dashboard can run on its own against exported files.
type Params struct {
	fx.In

	Config Config
	Status monitor.StatusProvider `optional:"true"`
	Log    logger.Logger
}

// FXModule provides *Server and runs it with the application.
var FXModule = fx.Module("dashboard",
	fx.Provide(func(p Params) *Server { return New(p.Config, p.Status, p.Log) }),
	fx.Invoke(RegisterDashboardLifecycle),
)

// RegisterDashboardLifecycle starts s on OnStart and shuts it down on OnStop.
func RegisterDashboardLifecycle(lc fx.Lifecycle, s *Server, cfg Config) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cfg.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.ShutdownTimeout)
				defer cancel()
			}
			return s.Shutdown(ctx)
		},
	})
}
