package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns two Prometheus registries and, unless disabled, one HTTP
// server for each.
type Metrics struct {
	// SystemServer serves Go runtime, process and build info metrics.
	// Nil when the system endpoint is disabled.
	SystemServer *http.Server

	// ApplicationServer serves application metrics. Nil when disabled.
	ApplicationServer *http.Server

	SystemRegistry      *prometheus.Registry
	ApplicationRegistry *prometheus.Registry

	// applicationRegisterer adds the service label to everything registered
	// on ApplicationRegistry.
	applicationRegisterer prometheus.Registerer
}

// NewMetrics builds both registries. Registries always exist so metrics can be
// created even when the corresponding server is off; only the servers are
// optional.
func NewMetrics(cfg Config) *Metrics {
	serviceLabel := prometheus.Labels{"service": cfg.ServiceName}

	m := &Metrics{
		SystemRegistry:      prometheus.NewRegistry(),
		ApplicationRegistry: prometheus.NewRegistry(),
	}

	prometheus.WrapRegistererWith(serviceLabel, m.SystemRegistry).MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m.applicationRegisterer = prometheus.WrapRegistererWith(serviceLabel, m.ApplicationRegistry)

	if addr := resolveAddress(cfg.SystemMetricsAddress, DefaultSystemMetricsAddress); addr != "" {
		m.SystemServer = newServer(addr, m.SystemRegistry)
	}
	if addr := resolveAddress(cfg.ApplicationMetricsAddress, DefaultApplicationMetricsAddress); addr != "" {
		m.ApplicationServer = newServer(addr, m.ApplicationRegistry)
	}

	return m
}

// Registerer returns the service-labelled registerer of the application
// registry, for collectors built outside this package such as the
// OpenTelemetry Prometheus exporter.
func (m *Metrics) Registerer() prometheus.Registerer {
	return m.applicationRegisterer
}

// ApplicationHandler serves the application registry; used when another HTTP
// server wants to expose /metrics itself.
func (m *Metrics) ApplicationHandler() http.Handler {
	return promhttp.HandlerFor(m.ApplicationRegistry, promhttp.HandlerOpts{})
}

func newServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{Addr: addr, Handler: mux}
}
