package logger

// Log level names accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config defines the configuration structure for the logger.
type Config struct {
	// Level is the minimum level that is written. Unknown values fall back to "info".
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// EnableTracing adds trace_id and span_id to entries written through the
	// *WithContext methods when the context carries a recording span.
	EnableTracing bool `env:"LOG_ENABLE_TRACING" envDefault:"false"`

	// ServiceName populates the "service" field of every entry.
	ServiceName string `env:"SERVICE_NAME" envDefault:"anomaly-lab"`

	// CallerSkip is the number of wrapper frames to skip when reporting the
	// caller. Values <= 0 mean 1, which is right for direct use of LoggerClient.
	CallerSkip int `env:"LOG_CALLER_SKIP" envDefault:"1"`
}
