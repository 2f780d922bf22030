package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CreateCounter registers a counter vector on the application registry.
// It panics if the name is already registered, like prometheus.MustRegister.
func (m *Metrics) CreateCounter(name, help string, labels []string) Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	m.applicationRegisterer.MustRegister(vec)
	return &counterVec{vec: vec}
}

// CreateGauge registers a gauge vector on the application registry.
func (m *Metrics) CreateGauge(name, help string, labels []string) Gauge {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	m.applicationRegisterer.MustRegister(vec)
	return &gaugeVec{vec: vec}
}

// CreateHistogram registers a histogram vector on the application registry.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) Histogram {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)
	m.applicationRegisterer.MustRegister(vec)
	return &histogramVec{vec: vec}
}
