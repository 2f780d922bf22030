package notify

import "go.uber.org/fx"

// FXModule provides the configured Sender.
var FXModule = fx.Module("notify",
	fx.Provide(New),
)
