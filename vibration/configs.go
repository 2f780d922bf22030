package vibration

import "time"

const (
	ModePrometheus     = "prometheus"
	ModeOTelPrometheus = "otel-prometheus"
	ModeOTLP           = "otlp"
)

// Config drives the vibration publisher.
type Config struct {
	// Mode is "prometheus", "otel-prometheus" or "otlp".
	Mode string `env:"VIBRATION_MODE" envDefault:"prometheus"`

	// Address serves /metrics in the two Prometheus modes.
	Address string `env:"VIBRATION_ADDRESS" envDefault:":8000"`

	// Interval between readings, and the OTLP export period.
	Interval time.Duration `env:"VIBRATION_INTERVAL" envDefault:"5s"`

	Machines []string `env:"VIBRATION_MACHINES" envDefault:"machine_1" envSeparator:","`

	// OTLPEndpoint is the collector address in otlp mode.
	OTLPEndpoint string `env:"VIBRATION_OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// Seed makes the simulation reproducible when non-zero.
	Seed uint64 `env:"VIBRATION_SEED"`
}
