package telemetry

import "time"

const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterNone       = "none"
)

// Config selects where OpenTelemetry metrics go.
type Config struct {
	// Exporter is "prometheus", "otlp" or "none".
	Exporter string `env:"OTEL_METRICS_EXPORTER" envDefault:"prometheus"`

	// OTLPEndpoint is the gRPC collector address used by the otlp exporter.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT" envDefault:"localhost:4317"`

	// Insecure disables TLS towards the collector.
	Insecure bool `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`

	// Interval is the export period of the otlp exporter as a Go duration.
	// It overrides OTEL_METRIC_EXPORT_INTERVAL, which the SDK reads in
	// milliseconds.
	Interval time.Duration `env:"TELEMETRY_EXPORT_INTERVAL" envDefault:"5s"`

	ServiceName string `env:"SERVICE_NAME" envDefault:"anomaly-lab"`
}
