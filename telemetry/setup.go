package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ErrUnknownExporter is returned for an unsupported Config.Exporter.
var ErrUnknownExporter = errors.New("telemetry: unknown exporter")

// Provider owns the OpenTelemetry MeterProvider of the process.
type Provider struct {
	provider *sdkmetric.MeterProvider
	exporter string
}

// New builds a MeterProvider and installs it globally.
//
// With the prometheus exporter the instruments are collected into registerer,
// normally the application registry of the metrics package, and served with
// the rest of the application metrics. With the otlp exporter they are pushed
// to cfg.OTLPEndpoint every cfg.Interval. The none exporter keeps a provider
// without readers so instruments still work.
func New(ctx context.Context, cfg Config, registerer prometheus.Registerer) (*Provider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	switch cfg.Exporter {
	case ExporterPrometheus, "":
		exporter, err := otelprom.New(otelprom.WithRegisterer(registerer))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(exporter))

	case ExporterOTLP:
		clientOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlpmetricgrpc.WithInsecure())
		}
		exporter, err := otlpmetricgrpc.New(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		interval := cfg.Interval
		if interval <= 0 {
			interval = 5 * time.Second
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))))

	case ExporterNone:

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, cfg.Exporter)
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	return &Provider{provider: mp, exporter: cfg.Exporter}, nil
}

// Meter returns a named meter. A nil Provider hands out no-op meters.
func (p *Provider) Meter(name string) metric.Meter {
	if p == nil || p.provider == nil {
		return noop.NewMeterProvider().Meter(name)
	}
	return p.provider.Meter(name)
}

// Exporter is the configured exporter name.
func (p *Provider) Exporter() string {
	if p == nil {
		return ExporterNone
	}
	return p.exporter
}

// ForceFlush pushes pending measurements through periodic readers.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.ForceFlush(ctx)
}

// Shutdown flushes and stops every reader.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
