//go:build linux

package monitor

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/anomaly-lab/logger"
)

func processCPUTime(t *testing.T) time.Duration {
	t.Helper()
	var ru syscall.Rusage
	require.NoError(t, syscall.Getrusage(syscall.RUSAGE_SELF, &ru))
	return time.Duration(ru.Utime.Nano() + ru.Stime.Nano())
}

func TestIdleMonitorDoesNotBurnCPU(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.ExportCSV = false
	cfg.Interval = time.Hour

	m := New(cfg, &fakeSource{}, &fakeDetector{}, newTestMetrics(), newTestTracer(t), logger.NewNopLogger())
	stop := runMonitor(t, m)
	defer stop()

	// Let the first scrape and its detection finish.
	require.Eventually(t, func() bool { return len(m.Status()) == 1 }, 5*time.Second, 10*time.Millisecond)

	before := processCPUTime(t)
	time.Sleep(time.Second)
	used := processCPUTime(t) - before

	assert.Less(t, used, 250*time.Millisecond, "idle monitor used %s of CPU in 1s", used)
}
