package monitor

import (
	"path/filepath"
	"time"
)

// Metric names as they appear in logs, labels and Status.
const (
	MetricCPU    = "CPU"
	MetricMemory = "MEM"
)

// exportSuffix marks the files the monitor owns in its export directory.
const exportSuffix = "_metrics.csv"

// ExportPath is where the resampled series of metric is written.
func ExportPath(dir, metric string) string {
	switch metric {
	case MetricCPU:
		return filepath.Join(dir, "cpu"+exportSuffix)
	case MetricMemory:
		return filepath.Join(dir, "memory"+exportSuffix)
	default:
		return filepath.Join(dir, metric+exportSuffix)
	}
}

// Sample is one utilization reading travelling from the scrape loop to a
// detect loop.
type Sample struct {
	Metric string
	At     time.Time
	Value  float64
}

// Status is the latest verdict for one metric.
type Status struct {
	Metric  string
	At      time.Time
	Value   float64
	Anomaly bool
	Score   float64

	// Points is the length of the resampled series that was scored.
	Points int
}

// StatusProvider exposes the latest verdicts, e.g. to the dashboard.
type StatusProvider interface {
	Status() []Status
}
