package exposition

import "sync"

// CPUTracker turns cumulative CPU counters into a utilization percentage by
// differencing consecutive readings.
type CPUTracker struct {
	mu        sync.Mutex
	primed    bool
	prevTotal float64
	prevIdle  float64
}

// Usage returns 100*(1-Δidle/Δtotal) against the previous reading. The first
// call only primes the tracker. A non-positive Δtotal (counter reset or an
// unchanged scrape) yields false. The stored reading always advances.
func (t *CPUTracker) Usage(total, idle float64) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.primed {
		t.primed = true
		t.prevTotal, t.prevIdle = total, idle
		return 0, false
	}

	deltaTotal := total - t.prevTotal
	deltaIdle := idle - t.prevIdle
	t.prevTotal, t.prevIdle = total, idle

	if deltaTotal <= 0 {
		return 0, false
	}
	return 100 * (1 - deltaIdle/deltaTotal), true
}
