// Package metrics exposes anomaly-lab's Prometheus endpoints.
//
// Two registries are kept apart: the system registry (Go runtime, process,
// build info) and the application registry (monitor gauges, operation
// counters, and the OpenTelemetry instruments bridged in by the telemetry
// package through Registerer). Each registry gets its own /metrics server so
// they can be scraped at different rates.
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "anomalyd"})
//	util := m.CreateGauge("monitor_utilization_percent", "Latest utilization", []string{"metric"})
//	util.WithLabelValues("CPU").Set(37.5)
//
// NewOperationObserver adapts the registry to observability.Observer, which is
// how sources, detectors and notifiers get counted without importing this
// package.
package metrics
