package batch

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/telemetry"
	"github.com/aalemi-dev/anomaly-lab/tracer"
)

// Report summarizes a run.
type Report struct {
	Series      int
	Points      int
	PerID       map[string]int
	Total       int
	CurrentTime time.Time
}

// Runner scores every series of a dataset in one detector call and counts
// the anomalies per id.
type Runner struct {
	cfg      Config
	detector detector.Detector
	tracer   tracer.Tracer
	log      logger.Logger

	perID metric.Int64Counter
	all   metric.Int64Counter
}

// New creates the anomaly counters on a meter of provider. A nil provider
// yields no-op counters and a nil tracer disables spans.
func New(cfg Config, det detector.Detector, provider *telemetry.Provider, tr tracer.Tracer, log logger.Logger) (*Runner, error) {
	if cfg.Freq <= 0 {
		cfg.Freq = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	meter := provider.Meter("anomaly-lab/batch")
	perID, err := meter.Int64Counter("anomaly.unique_id",
		metric.WithDescription("The number of anomalies detected for each unique_id"))
	if err != nil {
		return nil, fmt.Errorf("create anomaly.unique_id counter: %w", err)
	}
	all, err := meter.Int64Counter("anomaly.all",
		metric.WithDescription("The number of anomalies detected overall"))
	if err != nil {
		return nil, fmt.Errorf("create anomaly.all counter: %w", err)
	}

	return &Runner{
		cfg:      cfg,
		detector: det,
		tracer:   tr,
		log:      log.Named("batch"),
		perID:    perID,
		all:      all,
	}, nil
}

// Run loads cfg.Input and detects on it.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	in, err := open(ctx, r.cfg.Input, r.cfg.Timeout)
	if err != nil {
		return Report{}, err
	}
	defer func() { _ = in.Close() }()

	series, err := ReadSeries(in, r.cfg.Freq)
	if err != nil {
		return Report{}, err
	}
	r.log.InfoWithContext(ctx, "dataset loaded", nil, map[string]interface{}{
		"input":  r.cfg.Input,
		"series": len(series),
	})
	return r.Detect(ctx, series)
}

// Detect scores series and records the anomaly counters.
func (r *Runner) Detect(ctx context.Context, series []detector.Series) (report Report, err error) {
	var span tracer.Span
	if r.tracer != nil {
		ctx, span = r.tracer.StartSpan(ctx, "detect_anomaly")
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()
	}

	report.Series = len(series)
	for _, s := range series {
		report.Points += len(s.Points)
		if n := len(s.Points); n > 0 && s.Points[n-1].At.After(report.CurrentTime) {
			report.CurrentTime = s.Points[n-1].At
		}
	}

	flags, err := r.detector.DetectMany(ctx, series, detector.Options{
		Horizon:       r.cfg.Horizon,
		Level:         r.cfg.Level,
		DetectionSize: r.cfg.DetectionSize,
	})
	if err != nil {
		r.log.ErrorWithContext(ctx, "detector error", err)
		return Report{}, err
	}

	if span != nil {
		span.SetAttributes(map[string]interface{}{
			"current_time": report.CurrentTime.Format(time.RFC3339),
		})
	}

	report.PerID = make(map[string]int)
	for _, f := range flags {
		if f.Anomaly {
			report.PerID[f.SeriesID]++
			report.Total++
		}
	}

	for id, n := range report.PerID {
		r.perID.Add(ctx, int64(n), metric.WithAttributes(attribute.String("unique_id", id)))
	}
	r.all.Add(ctx, int64(report.Total), metric.WithAttributes(attribute.String("unique_id", "ALL")))

	r.log.InfoWithContext(ctx, "batch detection finished", nil, map[string]interface{}{
		"series":    report.Series,
		"points":    report.Points,
		"anomalies": report.Total,
	})
	return report, nil
}
