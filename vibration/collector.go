package vibration

import (
	"math/rand/v2"
	"sync"
)

// Collector produces one acceleration reading in g.
type Collector interface {
	Collect() float64
}

// Simulator imitates an accelerometer on a healthy machine: a steady baseline
// with gaussian noise and an occasional short spike.
type Simulator struct {
	Baseline  float64
	Noise     float64
	SpikeProb float64
	SpikeMin  float64
	SpikeMax  float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator returns a simulator around 0.5g with spikes of 2-3g on about
// 2% of readings. A zero seed picks a random one.
func NewSimulator(seed uint64) *Simulator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Simulator{
		Baseline:  0.5,
		Noise:     0.05,
		SpikeProb: 0.02,
		SpikeMin:  2,
		SpikeMax:  3,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Collect implements Collector. Readings are never negative.
func (s *Simulator) Collect() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() < s.SpikeProb {
		return s.SpikeMin + s.rng.Float64()*(s.SpikeMax-s.SpikeMin)
	}
	v := s.Baseline + s.rng.NormFloat64()*s.Noise
	if v < 0 {
		return 0
	}
	return v
}

// latest holds the most recent reading for gauge callbacks that run on the
// exporter's schedule rather than the collector's.
type latest struct {
	mu    sync.Mutex
	value float64
}

func (l *latest) set(v float64) {
	l.mu.Lock()
	l.value = v
	l.mu.Unlock()
}

func (l *latest) get() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}
