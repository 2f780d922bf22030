package notify

import (
	"context"

	"github.com/aalemi-dev/anomaly-lab/logger"
)

// NoOp logs messages instead of sending them.
type NoOp struct {
	log logger.Logger
}

// NewNoOp returns a sender that only logs.
func NewNoOp(log logger.Logger) *NoOp {
	return &NoOp{log: log.Named("notify.noop")}
}

// Send implements Sender.
func (n *NoOp) Send(ctx context.Context, msg Message) error {
	n.log.InfoWithContext(ctx, "email not configured, message dropped", nil, map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}
