package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/metrics"
	"github.com/aalemi-dev/anomaly-lab/source"
	"github.com/aalemi-dev/anomaly-lab/tracer"
	"github.com/aalemi-dev/anomaly-lab/window"
)

// fakeSource reports CPU counters that advance by 100s total, 60s idle per
// scrape (40% busy) and a constant 55% memory utilization.
type fakeSource struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Scrape(ctx context.Context) (source.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return source.Snapshot{}, errors.New("upstream down")
	}
	n := float64(f.calls)
	return source.Snapshot{
		At:       time.Now().UTC(),
		CPUTotal: 100 * n,
		CPUIdle:  60 * n,
		MemUtil:  55,
		MemOK:    true,
	}, nil
}

type fakeDetector struct {
	anomalous map[string]bool
	err       error
}

func (f *fakeDetector) Name() string { return "fake" }

func (f *fakeDetector) Detect(ctx context.Context, s detector.Series) (detector.Result, error) {
	last := s.Points[len(s.Points)-1]
	if f.err != nil {
		return detector.Result{Value: last.Value}, f.err
	}
	return detector.Result{At: last.At, Value: last.Value, Anomaly: f.anomalous[s.ID], Score: 7}, nil
}

func (f *fakeDetector) DetectMany(ctx context.Context, series []detector.Series, opts detector.Options) ([]detector.Flag, error) {
	return nil, nil
}

func newTestLogger() (*logger.LoggerClient, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.LoggerClient{Zap: zap.New(core)}, logs
}

func newTestTracer(t *testing.T) *tracer.TracerClient {
	t.Helper()
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "monitor-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })
	return tr
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(metrics.Config{
		SystemMetricsAddress:      metrics.Disabled,
		ApplicationMetricsAddress: metrics.Disabled,
		ServiceName:               "test",
	})
}

func testConfig(dir string) Config {
	return Config{
		Interval:     10 * time.Millisecond,
		WindowSize:   20,
		ResampleStep: time.Millisecond,
		QueueSize:    8,
		ExportCSV:    true,
		ExportDir:    dir,
	}
}

func runMonitor(t *testing.T, m *Monitor) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("monitor did not stop")
		}
	}
}

func TestMonitorScoresCPUAndMemory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old_metrics.csv"), []byte("x"), 0o644))

	log, logs := newTestLogger()
	reg := newTestMetrics()
	det := &fakeDetector{anomalous: map[string]bool{MetricMemory: true}}
	m := New(testConfig(dir), &fakeSource{}, det, reg, newTestTracer(t), log)

	stop := runMonitor(t, m)
	require.Eventually(t, func() bool { return len(m.Status()) == 2 }, 5*time.Second, 10*time.Millisecond)
	stop()

	status := m.Status()
	assert.Equal(t, MetricCPU, status[0].Metric)
	assert.InDelta(t, 40, status[0].Value, 1e-9)
	assert.False(t, status[0].Anomaly)
	assert.Equal(t, MetricMemory, status[1].Metric)
	assert.InDelta(t, 55, status[1].Value, 1e-9)
	assert.True(t, status[1].Anomaly)

	_, err := os.Stat(filepath.Join(dir, "old_metrics.csv"))
	assert.True(t, os.IsNotExist(err), "stale export not removed")

	points, err := window.LoadCSV(filepath.Join(dir, "cpu_metrics.csv"))
	require.NoError(t, err)
	assert.NotEmpty(t, points)
	_, err = window.LoadCSV(filepath.Join(dir, "memory_metrics.csv"))
	require.NoError(t, err)

	assert.NotZero(t, logs.FilterMessage("OK").FilterField(zap.String("metric", MetricCPU)).Len())
	assert.NotZero(t, logs.FilterMessage("Anomaly").FilterField(zap.String("metric", MetricMemory)).Len())

	count, err := testutil.GatherAndCount(reg.ApplicationRegistry, "monitor_anomalies_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMonitorSurvivesScrapeAndDetectorErrors(t *testing.T) {
	log, logs := newTestLogger()
	src := &fakeSource{fail: true}
	det := &fakeDetector{err: detector.ErrDetectorUnavailable}
	cfg := testConfig(t.TempDir())
	cfg.ExportCSV = false
	m := New(cfg, src, det, newTestMetrics(), newTestTracer(t), log)

	stop := runMonitor(t, m)
	require.Eventually(t, func() bool {
		return logs.FilterMessage("error fetching metrics").Len() >= 2
	}, 5*time.Second, 10*time.Millisecond)

	src.mu.Lock()
	src.fail = false
	src.mu.Unlock()

	require.Eventually(t, func() bool { return len(m.Status()) == 2 }, 5*time.Second, 10*time.Millisecond)
	stop()

	assert.NotZero(t, logs.FilterMessage("detector error").Len())
	for _, s := range m.Status() {
		assert.False(t, s.Anomaly)
	}
}

func TestMonitorNotEnoughDataIsOK(t *testing.T) {
	log, logs := newTestLogger()
	det := &fakeDetector{err: detector.ErrNotEnoughData}
	cfg := testConfig(t.TempDir())
	cfg.ExportCSV = false
	m := New(cfg, &fakeSource{}, det, newTestMetrics(), newTestTracer(t), log)

	stop := runMonitor(t, m)
	require.Eventually(t, func() bool { return len(m.Status()) == 2 }, 5*time.Second, 10*time.Millisecond)
	stop()

	assert.Zero(t, logs.FilterMessage("detector error").Len())
	assert.NotZero(t, logs.FilterMessage("OK").Len())
}

func TestMonitorRunTwice(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.ExportCSV = false
	m := New(cfg, &fakeSource{}, &fakeDetector{}, newTestMetrics(), newTestTracer(t), logger.NewNopLogger())

	stop := runMonitor(t, m)
	defer stop()
	require.Eventually(t, func() bool { return len(m.Status()) > 0 }, 5*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, m.Run(context.Background()), ErrAlreadyRunning)
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("d", "cpu_metrics.csv"), ExportPath("d", MetricCPU))
	assert.Equal(t, filepath.Join("d", "memory_metrics.csv"), ExportPath("d", MetricMemory))
}

func TestMonitorFXModule(t *testing.T) {
	cfg := testConfig(t.TempDir())
	var status StatusProvider

	app := fxtest.New(t,
		fx.Provide(
			func() Config { return cfg },
			func() source.Source { return &fakeSource{} },
			func() detector.Detector { return &fakeDetector{} },
			func() metrics.MetricsCollector { return newTestMetrics() },
			func() tracer.Tracer { return newTestTracer(t) },
			func() logger.Logger { return logger.NewNopLogger() },
		),
		FXModule,
		fx.Populate(&status),
	)
	app.RequireStart()
	require.Eventually(t, func() bool { return len(status.Status()) == 2 }, 5*time.Second, 10*time.Millisecond)
	app.RequireStop()
}

// blockingDetector holds every Detect call until release is closed.
type blockingDetector struct {
	*fakeDetector
	release chan struct{}
}

func (b *blockingDetector) Detect(ctx context.Context, s detector.Series) (detector.Result, error) {
	<-b.release
	return b.fakeDetector.Detect(ctx, s)
}

// slowSource records when each scrape started and takes delay to answer.
type slowSource struct {
	fakeSource
	delay time.Duration

	timesMu sync.Mutex
	times   []time.Time
}

func (s *slowSource) Scrape(ctx context.Context) (source.Snapshot, error) {
	s.timesMu.Lock()
	s.times = append(s.times, time.Now())
	s.timesMu.Unlock()
	time.Sleep(s.delay)
	return s.fakeSource.Scrape(ctx)
}

func (s *slowSource) starts() []time.Time {
	s.timesMu.Lock()
	defer s.timesMu.Unlock()
	return append([]time.Time(nil), s.times...)
}

func counterValue(t *testing.T, m *metrics.Metrics, name, metric string) float64 {
	t.Helper()
	families, err := m.ApplicationRegistry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, sample := range f.GetMetric() {
			for _, l := range sample.GetLabel() {
				if l.GetName() == "metric" && l.GetValue() == metric {
					return sample.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestMonitorDropsSamplesWhenQueueIsFull(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.ExportCSV = false
	cfg.QueueSize = 1

	log, logs := newTestLogger()
	reg := newTestMetrics()
	src := &fakeSource{}
	det := &blockingDetector{fakeDetector: &fakeDetector{}, release: make(chan struct{})}
	m := New(cfg, src, det, reg, newTestTracer(t), log)

	stop := runMonitor(t, m)

	require.Eventually(t, func() bool {
		return counterValue(t, reg, "monitor_dropped_samples_total", MetricMemory) >= 2 &&
			counterValue(t, reg, "monitor_dropped_samples_total", MetricCPU) >= 2
	}, 5*time.Second, 10*time.Millisecond)

	// Scraping went on while both detect loops were stuck.
	src.mu.Lock()
	calls := src.calls
	src.mu.Unlock()
	assert.GreaterOrEqual(t, calls, 5)
	assert.NotZero(t, logs.FilterMessage("detect queue full, dropping sample").Len())

	close(det.release)
	stop()
}

func TestMonitorScrapeScheduleDoesNotDrift(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.ExportCSV = false
	cfg.Interval = 100 * time.Millisecond

	src := &slowSource{delay: 60 * time.Millisecond}
	m := New(cfg, src, &fakeDetector{}, newTestMetrics(), newTestTracer(t), logger.NewNopLogger())

	stop := runMonitor(t, m)
	require.Eventually(t, func() bool { return len(src.starts()) >= 6 }, 5*time.Second, 10*time.Millisecond)
	stop()

	starts := src.starts()
	gaps := len(starts) - 1
	avg := starts[gaps].Sub(starts[0]) / time.Duration(gaps)

	// Sleeping a full interval after each scrape would space them 160ms apart.
	assert.InDelta(t, float64(cfg.Interval), float64(avg), float64(25*time.Millisecond),
		"average spacing %s", avg)
}
