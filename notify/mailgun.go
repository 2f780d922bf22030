package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/mailgun/mailgun-go/v4"

	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/observability"
)

// mailClient is the part of the Mailgun SDK the sender uses.
type mailClient interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// Mailgun sends e-mail through the Mailgun API, retrying failed sends with
// exponential backoff.
type Mailgun struct {
	client   mailClient
	from     string
	maxTries uint
	backoff  func() backoff.BackOff
	observer observability.Observer
	log      logger.Logger
}

// NewMailgun builds a sender from cfg. The observer may be nil.
func NewMailgun(cfg Config, observer observability.Observer, log logger.Logger) *Mailgun {
	mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	if cfg.MailgunAPIBase != "" {
		mg.SetAPIBase(cfg.MailgunAPIBase)
	}
	return newMailgun(mg, cfg, observer, log)
}

func newMailgun(client mailClient, cfg Config, observer observability.Observer, log logger.Logger) *Mailgun {
	tries := cfg.MaxTries
	if tries == 0 {
		tries = 3
	}
	return &Mailgun{
		client:   client,
		from:     cfg.From,
		maxTries: tries,
		backoff:  func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		observer: observer,
		log:      log.Named("notify.mailgun"),
	}
}

// Send implements Sender.
func (m *Mailgun) Send(ctx context.Context, msg Message) (err error) {
	start := time.Now()
	recipients := strings.Join(msg.To, ",")
	defer func() {
		observability.Observe(m.observer, "mailgun", "send", recipients, start, err, int64(len(msg.HTML)+len(msg.Text)))
	}()

	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	message := m.client.NewMessage(m.from, msg.Subject, msg.Text, msg.To...)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}

	id, err := backoff.Retry(ctx, func() (string, error) {
		sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		_, id, err := m.client.Send(sendCtx, message)
		return id, err
	},
		backoff.WithBackOff(m.backoff()),
		backoff.WithMaxTries(m.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			m.log.WarnWithContext(ctx, "email send failed, retrying", err, map[string]interface{}{
				"to":   recipients,
				"wait": wait.String(),
			})
		}),
	)
	if err != nil {
		m.log.ErrorWithContext(ctx, "failed to send email", err, map[string]interface{}{"to": recipients})
		return fmt.Errorf("send email: %w", err)
	}

	m.log.InfoWithContext(ctx, "email sent successfully", nil, map[string]interface{}{
		"to":         recipients,
		"subject":    msg.Subject,
		"message_id": id,
	})
	return nil
}
