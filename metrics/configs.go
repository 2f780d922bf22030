package metrics

// Default addresses for the two metrics servers. They sit away from 9090 so a
// local Prometheus server, which promquery talks to, can run alongside.
const (
	DefaultSystemMetricsAddress      = ":9190"
	DefaultApplicationMetricsAddress = ":9191"

	// Disabled turns a server off when used as its address.
	Disabled = "off"
)

// Config defines the configuration for the Prometheus metrics servers.
//
// The system endpoint exposes Go runtime, process and build info collectors;
// the application endpoint exposes everything created through
// MetricsCollector plus the OpenTelemetry instruments bridged by the
// telemetry package.
type Config struct {
	// SystemMetricsAddress is the listen address of the system endpoint, or "off".
	SystemMetricsAddress string `env:"METRICS_SYSTEM_ADDRESS" envDefault:":9190"`

	// ApplicationMetricsAddress is the listen address of the application endpoint, or "off".
	ApplicationMetricsAddress string `env:"METRICS_APPLICATION_ADDRESS" envDefault:":9191"`

	// ServiceName is added as a constant "service" label to every series.
	ServiceName string `env:"SERVICE_NAME" envDefault:"anomaly-lab"`
}

func resolveAddress(addr, fallback string) string {
	switch addr {
	case "":
		return fallback
	case Disabled:
		return ""
	default:
		return addr
	}
}
