package batch

import "go.uber.org/fx"

// FXModule provides *Runner. It needs a batch.Config, a detector.Detector,
// a *telemetry.Provider, a tracer.Tracer and a logger.Logger. The caller
// decides when to Run it.
var FXModule = fx.Module("batch",
	fx.Provide(New),
)
