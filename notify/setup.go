package notify

import (
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/observability"
)

// New returns a Mailgun sender when cfg is configured and NoOp otherwise.
func New(cfg Config, observer observability.Observer, log logger.Logger) Sender {
	if !cfg.IsConfigured() {
		log.Warn("MAILGUN_DOMAIN or MAILGUN_API_KEY not set, e-mail disabled", nil)
		return NewNoOp(log)
	}
	return NewMailgun(cfg, observer, log)
}
