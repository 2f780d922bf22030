package scheduler

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/logger"
)

// FXModule provides *Scheduler, started after every OnStart hook registered
// before it and stopped on shutdown. Tasks are added by invokes in other
// modules.
var FXModule = fx.Module("scheduler",
	fx.Provide(func(log logger.Logger) *Scheduler { return New(log, 30*time.Minute) }),
	fx.Invoke(RegisterSchedulerLifecycle),
)

// RegisterSchedulerLifecycle starts and stops s with the application.
func RegisterSchedulerLifecycle(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}
