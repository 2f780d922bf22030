package source

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aalemi-dev/anomaly-lab/observability"
)

// Local reads the counters of the machine the process runs on.
type Local struct {
	observer observability.Observer
	now      func() time.Time

	// Collection functions, swapped out in tests.
	cpuTimes      func(context.Context, bool) ([]cpu.TimesStat, error)
	virtualMemory func(context.Context) (*mem.VirtualMemoryStat, error)
}

// NewLocal returns a Source backed by gopsutil. The observer may be nil.
func NewLocal(observer observability.Observer) *Local {
	return &Local{
		observer:      observer,
		now:           time.Now,
		cpuTimes:      cpu.TimesWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
	}
}

// Name implements Source.
func (l *Local) Name() string { return KindLocal }

// Scrape implements Source.
func (l *Local) Scrape(ctx context.Context) (snap Snapshot, err error) {
	start := time.Now()
	defer func() {
		observability.Observe(l.observer, KindLocal, "scrape", "host", start, err, 0)
	}()

	times, err := l.cpuTimes(ctx, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(times) == 0 {
		return Snapshot{}, fmt.Errorf("%w: no cpu times returned", ErrInvalidPayload)
	}
	t := times[0]

	vm, err := l.virtualMemory(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read memory: %w", err)
	}

	snap.At = l.now().UTC()
	snap.CPUTotal = t.Total()
	snap.CPUIdle = t.Idle + t.Iowait
	if vm != nil && vm.Total > 0 {
		snap.MemUtil = 100 * float64(vm.Total-vm.Available) / float64(vm.Total)
		snap.MemOK = true
	}
	return snap, nil
}
