package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/logger"
)

// FXModule provides *TracerClient and the Tracer interface and flushes the
// provider on shutdown. A tracer.Config must be in the container.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
		fx.Annotate(
			func(t *TracerClient) Tracer { return t },
			fx.As(new(Tracer)),
		),
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle shuts the tracer provider down when the app stops,
// flushing any batched spans.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *TracerClient, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down tracer", nil)
			return tracer.Shutdown(ctx)
		},
	})
}
