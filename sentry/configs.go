package sentry

import "time"

// Config addresses a Sentry organization and drives the anomaly job.
type Config struct {
	BaseURL string `env:"SENTRY_BASE_URL" envDefault:"https://sentry.io"`
	Token   string `env:"SENTRY_AUTH_TOKEN"`
	Org     string `env:"SENTRY_ORG_SLUG"`
	Project string `env:"SENTRY_PROJECT_SLUG"`

	// Interval is the bucket size of the error counts.
	Interval time.Duration `env:"SENTRY_INTERVAL" envDefault:"5m"`

	// StatsPeriod is how far back counts are fetched, in Sentry's notation.
	StatsPeriod string `env:"SENTRY_STATS_PERIOD" envDefault:"1d"`

	Timeout time.Duration `env:"SENTRY_TIMEOUT" envDefault:"30s"`

	// Schedule is the cron expression of the job.
	Schedule string `env:"SENTRY_SCHEDULE" envDefault:"@every 5m"`

	// DetectionSize is how many trailing buckets are scored; 24 five-minute
	// buckets cover the last two hours.
	DetectionSize int     `env:"SENTRY_DETECTION_SIZE" envDefault:"24"`
	Level         float64 `env:"SENTRY_LEVEL" envDefault:"99"`
}
