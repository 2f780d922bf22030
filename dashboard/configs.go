package dashboard

import "time"

// Config of the dashboard server.
type Config struct {
	Address string `env:"DASHBOARD_ADDRESS" envDefault:":8050"`

	// DataDir holds the CSV files written by the monitor.
	DataDir string `env:"DASHBOARD_DATA_DIR" envDefault:"."`

	// Refresh is the meta refresh period of the page.
	Refresh time.Duration `env:"DASHBOARD_REFRESH" envDefault:"60s"`

	ShutdownTimeout time.Duration `env:"DASHBOARD_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}
