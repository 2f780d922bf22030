package tracer

// Config defines the configuration for the OpenTelemetry tracer.
type Config struct {
	// ServiceName is recorded as service.name on every span.
	ServiceName string `env:"SERVICE_NAME" envDefault:"anomaly-lab"`

	// AppEnv is recorded as deployment.environment and environment.
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	// EnableExport turns on the OTLP/HTTP batch exporter. Without it spans are
	// still created, so log correlation and context propagation keep working.
	EnableExport bool `env:"TRACING_EXPORT" envDefault:"false"`

	// Endpoint overrides the collector URL, e.g. "http://localhost:4318".
	// Empty means the exporter's own defaults and OTEL_EXPORTER_OTLP_* variables.
	Endpoint string `env:"TRACING_ENDPOINT"`
}
