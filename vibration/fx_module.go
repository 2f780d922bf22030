package vibration

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/logger"
)

// FXModule provides *Service and runs it for the lifetime of the
// application. A vibration.Config and a logger.Config (for the service name)
// must be in the container.
var FXModule = fx.Module("vibration",
	fx.Provide(func(cfg Config, lcfg logger.Config, log logger.Logger) (*Service, error) {
		return New(context.Background(), cfg, lcfg.ServiceName, log)
	}),
	fx.Invoke(RegisterVibrationLifecycle),
)

// RegisterVibrationLifecycle runs the service in the background between
// OnStart and OnStop. If the service fails on its own, e.g. because the
// metrics address is taken, the application is shut down with exit code 1.
func RegisterVibrationLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, s *Service, log logger.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := s.Run(ctx); err != nil {
					log.Error("vibration service stopped", err)
					if ctx.Err() == nil {
						_ = shutdowner.Shutdown(fx.ExitCode(1))
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
