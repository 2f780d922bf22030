package source

import (
	"context"
	"time"
)

// Snapshot is one reading of the host. CPU values are cumulative seconds and
// only become a utilization once differenced by exposition.CPUTracker.
type Snapshot struct {
	At       time.Time
	CPUTotal float64
	CPUIdle  float64

	// MemUtil is used memory in percent; valid only when MemOK is set.
	MemUtil float64
	MemOK   bool
}

// Source yields snapshots of a machine's CPU and memory counters.
//
// Implementations are safe for concurrent use.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Scrape takes one snapshot.
	Scrape(ctx context.Context) (Snapshot, error)
}
