package metrics

// MetricsCollector creates application metrics without exposing Prometheus
// types to callers. Everything created here is served on the application
// endpoint and labelled with service=<ServiceName>.
type MetricsCollector interface {
	// CreateCounter registers a counter vector.
	//
	//   samples := m.CreateCounter("monitor_samples_total", "Samples scored", []string{"metric"})
	//   samples.WithLabelValues("CPU").Inc()
	CreateCounter(name, help string, labels []string) Counter

	// CreateGauge registers a gauge vector.
	CreateGauge(name, help string, labels []string) Gauge

	// CreateHistogram registers a histogram vector with the given buckets;
	// nil buckets mean prometheus.DefBuckets.
	CreateHistogram(name, help string, labels []string, buckets []float64) Histogram
}
