package monitor

import "time"

// Config drives the scrape and detect loops.
type Config struct {
	// Interval between scrapes. Supabase refreshes its metrics once a minute.
	Interval time.Duration `env:"MONITOR_INTERVAL" envDefault:"60s"`

	// WindowSize is the number of raw samples kept per metric.
	WindowSize int `env:"MONITOR_WINDOW_SIZE" envDefault:"180"`

	// ResampleStep is the grid the window is put on before scoring.
	ResampleStep time.Duration `env:"MONITOR_RESAMPLE_STEP" envDefault:"1m"`

	// QueueSize bounds the samples waiting for a detect loop. Samples beyond
	// it are dropped and counted.
	QueueSize uint64 `env:"MONITOR_QUEUE_SIZE" envDefault:"64"`

	// ExportCSV writes the resampled series to ExportDir after every sample.
	ExportCSV bool   `env:"MONITOR_EXPORT_CSV" envDefault:"true"`
	ExportDir string `env:"MONITOR_EXPORT_DIR" envDefault:"."`
}

func (c *Config) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 60 * time.Second
	}
	if c.WindowSize <= 0 {
		c.WindowSize = 180
	}
	if c.ResampleStep <= 0 {
		c.ResampleStep = time.Minute
	}
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
	if c.ExportDir == "" {
		c.ExportDir = "."
	}
}
