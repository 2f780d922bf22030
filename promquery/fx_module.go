package promquery

import "go.uber.org/fx"

// FXModule provides *Client. A promquery.Config, an observability.Observer
// and a logger.Logger must be in the container.
var FXModule = fx.Module("promquery",
	fx.Provide(NewClient),
)
