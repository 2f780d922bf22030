package promquery

import "time"

// Config addresses a Prometheus server.
type Config struct {
	URL     string        `env:"PROMETHEUS_URL" envDefault:"http://localhost:9090"`
	Timeout time.Duration `env:"PROMETHEUS_TIMEOUT" envDefault:"30s"`
}
