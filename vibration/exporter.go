package vibration

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aalemi-dev/anomaly-lab/telemetry"
)

const (
	metricName = "machine_vibration_acceleration"
	metricHelp = "Machine vibration acceleration in g"
	meterName  = "vibration.meter"
)

// exporter publishes readings. handler is nil when nothing is served locally.
type exporter interface {
	record(machineID string, v float64)
	handler() http.Handler
	shutdown(ctx context.Context) error
}

// promExporter sets a client_golang gauge directly.
type promExporter struct {
	reg   *prometheus.Registry
	gauge *prometheus.GaugeVec
}

func newPromExporter() *promExporter {
	reg := prometheus.NewRegistry()
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metricName, Help: metricHelp}, []string{"machine_id"})
	reg.MustRegister(gauge)
	return &promExporter{reg: reg, gauge: gauge}
}

func (e *promExporter) record(machineID string, v float64) {
	e.gauge.WithLabelValues(machineID).Set(v)
}

func (e *promExporter) handler() http.Handler {
	return promhttp.HandlerFor(e.reg, promhttp.HandlerOpts{})
}

func (e *promExporter) shutdown(context.Context) error { return nil }

// otelExporter reports through an OpenTelemetry observable gauge whose
// callback reads the latest value of every machine.
type otelExporter struct {
	provider *telemetry.Provider
	reg      *prometheus.Registry
	values   map[string]*latest
	callback metric.Registration
}

func newOTelExporter(ctx context.Context, cfg Config, serviceName string) (*otelExporter, error) {
	tcfg := telemetry.Config{ServiceName: serviceName, Interval: cfg.Interval}
	var reg *prometheus.Registry
	switch cfg.Mode {
	case ModeOTelPrometheus:
		reg = prometheus.NewRegistry()
		tcfg.Exporter = telemetry.ExporterPrometheus
	case ModeOTLP:
		tcfg.Exporter = telemetry.ExporterOTLP
		tcfg.OTLPEndpoint = cfg.OTLPEndpoint
		tcfg.Insecure = true
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	provider, err := telemetry.New(ctx, tcfg, registerer)
	if err != nil {
		return nil, err
	}

	e := &otelExporter{provider: provider, reg: reg, values: make(map[string]*latest)}
	for _, id := range cfg.Machines {
		e.values[id] = &latest{}
	}

	meter := provider.Meter(meterName)
	gauge, err := meter.Float64ObservableGauge(metricName, metric.WithDescription(metricHelp))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("create gauge: %w", err)
	}
	e.callback, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for id, l := range e.values {
			o.ObserveFloat64(gauge, l.get(), metric.WithAttributes(attribute.String("machine_id", id)))
		}
		return nil
	}, gauge)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *otelExporter) record(machineID string, v float64) {
	if l, ok := e.values[machineID]; ok {
		l.set(v)
	}
}

func (e *otelExporter) handler() http.Handler {
	if e.reg == nil {
		return nil
	}
	return promhttp.HandlerFor(e.reg, promhttp.HandlerOpts{})
}

func (e *otelExporter) shutdown(ctx context.Context) error {
	if e.callback != nil {
		_ = e.callback.Unregister()
	}
	return e.provider.Shutdown(ctx)
}
