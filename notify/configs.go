package notify

// Config holds the e-mail settings. Without a Mailgun domain and key the
// NoOp sender is used.
type Config struct {
	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"MAILGUN_API_KEY"`

	// MailgunAPIBase overrides the API endpoint, e.g. the EU region.
	MailgunAPIBase string `env:"MAILGUN_API_BASE"`

	From string   `env:"EMAIL_FROM" envDefault:"anomaly-lab <alerts@localhost>"`
	To   []string `env:"EMAIL_TO" envSeparator:","`

	// MaxTries bounds delivery attempts per message.
	MaxTries uint `env:"EMAIL_MAX_TRIES" envDefault:"3"`
}

// IsConfigured reports whether Mailgun can be used.
func (c Config) IsConfigured() bool {
	return c.MailgunDomain != "" && c.MailgunAPIKey != ""
}
