package window

import (
	"sync"
	"time"
)

// DefaultCapacity holds three hours of one-minute samples.
const DefaultCapacity = 180

// Point is one observation.
type Point struct {
	At    time.Time
	Value float64
}

// Window is a bounded sliding window of points. Pushing into a full window
// evicts the oldest point. It is safe for concurrent use.
type Window struct {
	mu     sync.RWMutex
	buf    []Point
	start  int
	length int
}

// New returns an empty window; capacity <= 0 means DefaultCapacity.
func New(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{buf: make([]Point, capacity)}
}

// Push appends p, evicting the oldest point when full.
func (w *Window) Push(p Point) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.length < len(w.buf) {
		w.buf[(w.start+w.length)%len(w.buf)] = p
		w.length++
		return
	}
	w.buf[w.start] = p
	w.start = (w.start + 1) % len(w.buf)
}

// Len is the number of points held.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.length
}

// Cap is the maximum number of points held.
func (w *Window) Cap() int {
	return len(w.buf)
}

// Points returns a copy of the contents, oldest first.
func (w *Window) Points() []Point {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Point, w.length)
	for i := range out {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}

// Values returns the point values, oldest first.
func (w *Window) Values() []float64 {
	points := w.Points()
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
