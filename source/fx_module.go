package source

import "go.uber.org/fx"

// FXModule provides the configured Source. A source.Config and an
// observability.Observer must be in the container.
var FXModule = fx.Module("source",
	fx.Provide(New),
)
