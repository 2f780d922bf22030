package detector

import "go.uber.org/fx"

// FXModule provides the configured Detector. A detector.Config and an
// observability.Observer must be in the container.
var FXModule = fx.Module("detector",
	fx.Provide(New),
)
