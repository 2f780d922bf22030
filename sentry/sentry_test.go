package sentry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/notify"
	"github.com/aalemi-dev/anomaly-lab/window"
)

func testConfig(url string) Config {
	return Config{
		BaseURL:       url,
		Token:         "tok",
		Org:           "acme",
		Project:       "backend",
		Interval:      5 * time.Minute,
		StatsPeriod:   "1d",
		Timeout:       5 * time.Second,
		Schedule:      "@every 5m",
		DetectionSize: 24,
		Level:         99,
	}
}

func TestNewClient_MissingConfig(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.Token = ""
	_, err := NewClient(cfg, nil)
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestErrorStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/0/organizations/acme/stats_v2/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "backend", q.Get("project"))
		assert.Equal(t, "5m", q.Get("interval"))
		assert.Equal(t, "1d", q.Get("statsPeriod"))
		assert.Equal(t, "error", q.Get("category"))
		assert.Equal(t, "sum(quantity)", q.Get("field"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"intervals": []string{"2025-03-01T10:00:00Z", "2025-03-01T10:05:00Z"},
			"groups": []map[string]interface{}{{
				"by":     map[string]string{"category": "error"},
				"series": map[string][]float64{"sum(quantity)": {3, 7}},
			}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), nil)
	require.NoError(t, err)

	stats, err := c.ErrorStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backend", stats.Project)
	require.Len(t, stats.Points, 2)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC), stats.Points[1].At)
	assert.Equal(t, 7.0, stats.Points[1].Value)
}

func TestErrorStats_NoGroups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"intervals":[],"groups":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), nil)
	require.NoError(t, err)

	stats, err := c.ErrorStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats.Points)
}

func TestErrorStats_Status(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadGateway, ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			c, err := NewClient(testConfig(srv.URL), nil)
			require.NoError(t, err)
			_, err = c.ErrorStats(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStatsInterval(t *testing.T) {
	assert.Equal(t, "5m", statsInterval(5*time.Minute))
	assert.Equal(t, "1h", statsInterval(time.Hour))
	assert.Equal(t, "1d", statsInterval(24*time.Hour))
}

func TestFillGaps(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	points := []window.Point{
		{At: base, Value: 1},
		{At: base.Add(2 * time.Minute), Value: 2},
		{At: base.Add(15 * time.Minute), Value: 4},
		{At: base.Add(40 * time.Minute), Value: 9},
	}

	got := FillGaps(points, 5*time.Minute, base.Add(22*time.Minute))

	require.Len(t, got, 5)
	want := []float64{3, 0, 0, 4, 0}
	for i, p := range got {
		assert.Equal(t, base.Add(time.Duration(i)*5*time.Minute), p.At)
		assert.Equal(t, want[i], p.Value, "bucket %d", i)
	}
}

func TestFillGaps_Empty(t *testing.T) {
	assert.Nil(t, FillGaps(nil, time.Minute, time.Now()))
}

func TestSummarize(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	flags := []detector.Flag{
		{SeriesID: "b", Result: detector.Result{Anomaly: true, At: t0, Value: 1}},
		{SeriesID: "b", Result: detector.Result{Anomaly: true, At: t0.Add(time.Hour), Value: 5}},
		{SeriesID: "b", Result: detector.Result{Anomaly: false, At: t0.Add(2 * time.Hour), Value: 2}},
		{SeriesID: "a", Result: detector.Result{Anomaly: true, At: t0, Value: 8}},
		{SeriesID: "c", Result: detector.Result{Anomaly: false, At: t0, Value: 8}},
	}

	rows := Summarize(flags)

	require.Len(t, rows, 2)
	assert.Equal(t, notify.SummaryRow{ID: "a", Anomalies: 1, LastTime: t0, LastValue: 8}, rows[0])
	assert.Equal(t, notify.SummaryRow{ID: "b", Anomalies: 2, LastTime: t0.Add(time.Hour), LastValue: 5}, rows[1])
	assert.Equal(t, 3, TotalAnomalies(rows))
}

type fakeStats struct {
	stats Stats
	err   error
}

func (f fakeStats) ErrorStats(context.Context) (Stats, error) { return f.stats, f.err }

type fakeDetector struct {
	flags []detector.Flag
	err   error
	got   []detector.Series
	opts  detector.Options
}

func (f *fakeDetector) Name() string { return "fake" }

func (f *fakeDetector) Detect(context.Context, detector.Series) (detector.Result, error) {
	return detector.Result{}, errors.New("not used")
}

func (f *fakeDetector) DetectMany(_ context.Context, s []detector.Series, opts detector.Options) ([]detector.Flag, error) {
	f.got = s
	f.opts = opts
	return f.flags, f.err
}

type fakeSender struct {
	sent []notify.Message
}

func (f *fakeSender) Send(_ context.Context, msg notify.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func newTestJob(stats statsSource, det detector.Detector, sender notify.Sender, now time.Time) *Job {
	j := newJob(testConfig(""), stats, det, sender, []string{"ops@example.com"}, nil, logger.NewNopLogger())
	j.now = func() time.Time { return now }
	return j
}

func TestJobRun_SendsSummary(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 3, 30, 0, time.UTC)
	stats := fakeStats{stats: Stats{Project: "backend", Points: []window.Point{
		{At: now.Add(-time.Hour), Value: 1},
		{At: now.Add(-30 * time.Minute), Value: 2},
	}}}
	det := &fakeDetector{flags: []detector.Flag{
		{SeriesID: "backend", Result: detector.Result{Anomaly: true, At: now.Truncate(5 * time.Minute), Value: 40}},
	}}
	sender := &fakeSender{}

	require.NoError(t, newTestJob(stats, det, sender, now).Run(context.Background()))

	require.Len(t, det.got, 1)
	assert.Equal(t, 5*time.Minute, det.got[0].Freq)
	assert.Len(t, det.got[0].Points, 13)
	assert.Equal(t, detector.Options{Horizon: 1, Level: 99, DetectionSize: 24}, det.opts)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"ops@example.com"}, msg.To)
	assert.Equal(t, "Anomaly Detection Summary | 2025-03-01 12:03", msg.Subject)
	assert.Contains(t, msg.HTML, "<td>backend</td>")
}

func TestJobRun_NoAnomalies(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stats := fakeStats{stats: Stats{Project: "backend", Points: []window.Point{{At: now, Value: 1}}}}
	det := &fakeDetector{flags: []detector.Flag{{SeriesID: "backend"}}}
	sender := &fakeSender{}

	require.NoError(t, newTestJob(stats, det, sender, now).Run(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestJobRun_NotEnoughData(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stats := fakeStats{stats: Stats{Project: "backend", Points: []window.Point{{At: now, Value: 1}}}}
	det := &fakeDetector{err: detector.ErrNotEnoughData}
	sender := &fakeSender{}

	require.NoError(t, newTestJob(stats, det, sender, now).Run(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestJobRun_StatsError(t *testing.T) {
	boom := errors.New("boom")
	j := newTestJob(fakeStats{err: boom}, &fakeDetector{}, &fakeSender{}, time.Now())
	assert.ErrorIs(t, j.Run(context.Background()), boom)
}
