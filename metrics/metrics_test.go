package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/observability"
)

func offConfig() Config {
	return Config{
		SystemMetricsAddress:      Disabled,
		ApplicationMetricsAddress: Disabled,
		ServiceName:               "test",
	}
}

func TestMetricsDisabledEndpoints(t *testing.T) {
	m := NewMetrics(offConfig())

	assert.Nil(t, m.SystemServer)
	assert.Nil(t, m.ApplicationServer)
	assert.NotNil(t, m.SystemRegistry)
	assert.NotNil(t, m.ApplicationRegistry)
}

func TestMetricsDefaultAddresses(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	require.NotNil(t, m.SystemServer)
	require.NotNil(t, m.ApplicationServer)
	assert.Equal(t, DefaultSystemMetricsAddress, m.SystemServer.Addr)
	assert.Equal(t, DefaultApplicationMetricsAddress, m.ApplicationServer.Addr)
}

func TestMetricsInterfaceImplementation(t *testing.T) {
	var _ MetricsCollector = (*Metrics)(nil)
	var _ observability.Observer = (*OperationObserver)(nil)
}

func TestCreateCounterAddsServiceLabel(t *testing.T) {
	m := NewMetrics(offConfig())

	c := m.CreateCounter("samples_total", "samples", []string{"metric"})
	c.WithLabelValues("CPU").Inc()
	c.WithLabelValues("CPU").Add(2)

	expected := `
# HELP samples_total samples
# TYPE samples_total counter
samples_total{metric="CPU",service="test"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(m.ApplicationRegistry, strings.NewReader(expected), "samples_total"))
}

func TestCreateGaugeAndHistogram(t *testing.T) {
	m := NewMetrics(offConfig())

	g := m.CreateGauge("util", "utilization", []string{"metric"})
	g.WithLabelValues("MEM").Set(41.5)
	g.WithLabelValues("MEM").Inc()

	h := m.CreateHistogram("latency", "latency", []string{"op"}, nil)
	h.WithLabelValues("scrape").Observe(0.2)

	count, err := testutil.GatherAndCount(m.ApplicationRegistry, "util", "latency")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestApplicationHandlerServesRegistry(t *testing.T) {
	m := NewMetrics(offConfig())
	m.CreateGauge("monitor_anomaly", "anomaly flag", []string{"metric"}).WithLabelValues("CPU").Set(1)

	rec := httptest.NewRecorder()
	m.ApplicationHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `monitor_anomaly{metric="CPU",service="test"} 1`)
}

func TestOperationObserver(t *testing.T) {
	m := NewMetrics(offConfig())
	obs := NewOperationObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component: "source",
		Operation: "scrape",
		Duration:  150 * time.Millisecond,
	})
	obs.ObserveOperation(observability.OperationContext{
		Component: "source",
		Operation: "scrape",
		Error:     errors.New("boom"),
	})

	expected := `
# HELP operations_total Outbound operations by component, operation and status.
# TYPE operations_total counter
operations_total{component="source",operation="scrape",service="test",status="error"} 1
operations_total{component="source",operation="scrape",service="test",status="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.ApplicationRegistry, strings.NewReader(expected), "operations_total"))
}

func TestMetricsFXModule(t *testing.T) {
	var collector MetricsCollector
	var observer observability.Observer

	app := fxtest.New(t,
		fx.Provide(
			func() Config { return offConfig() },
			func() logger.Logger { return logger.NewNopLogger() },
		),
		FXModule,
		fx.Populate(&collector, &observer),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.NotNil(t, collector)
	assert.NotNil(t, observer)
}
