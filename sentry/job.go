package sentry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/notify"
	"github.com/aalemi-dev/anomaly-lab/tracer"
)

// TaskName names the job in the scheduler.
const TaskName = "sentry-anomalies"

// statsSource is the part of *Client the job needs.
type statsSource interface {
	ErrorStats(ctx context.Context) (Stats, error)
}

// Job fetches error counts, scores the trailing buckets and mails a summary
// when any of them is anomalous.
type Job struct {
	cfg        Config
	stats      statsSource
	detector   detector.Detector
	sender     notify.Sender
	recipients []string
	tracer     tracer.Tracer
	log        logger.Logger
	now        func() time.Time
}

// NewJob wires a Job. A nil tracer disables spans.
func NewJob(cfg Config, client *Client, det detector.Detector, sender notify.Sender, recipients []string, tr tracer.Tracer, log logger.Logger) *Job {
	return newJob(cfg, client, det, sender, recipients, tr, log)
}

func newJob(cfg Config, stats statsSource, det detector.Detector, sender notify.Sender, recipients []string, tr tracer.Tracer, log logger.Logger) *Job {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.DetectionSize <= 0 {
		cfg.DetectionSize = 24
	}
	if cfg.Level <= 0 {
		cfg.Level = 99
	}
	return &Job{
		cfg:        cfg,
		stats:      stats,
		detector:   det,
		sender:     sender,
		recipients: recipients,
		tracer:     tr,
		log:        log.Named("sentry"),
		now:        time.Now,
	}
}

// Run performs one check. A series too short to score is not an error.
func (j *Job) Run(ctx context.Context) (err error) {
	if j.tracer != nil {
		var span tracer.Span
		ctx, span = j.tracer.StartSpan(ctx, "sentry_anomaly_check")
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()
	}

	now := j.now().UTC()
	stats, err := j.stats.ErrorStats(ctx)
	if err != nil {
		j.log.ErrorWithContext(ctx, "error fetching sentry stats", err)
		return err
	}

	points := FillGaps(stats.Points, j.cfg.Interval, now)
	if len(points) == 0 {
		j.log.InfoWithContext(ctx, "No anomalies detected", nil, map[string]interface{}{"points": 0})
		return nil
	}

	flags, err := j.detector.DetectMany(ctx, []detector.Series{{
		ID:     stats.Project,
		Points: points,
		Freq:   j.cfg.Interval,
	}}, detector.Options{
		Horizon:       1,
		Level:         j.cfg.Level,
		DetectionSize: j.cfg.DetectionSize,
	})
	if errors.Is(err, detector.ErrNotEnoughData) {
		j.log.InfoWithContext(ctx, "not enough data to detect anomalies", nil, map[string]interface{}{"points": len(points)})
		return nil
	}
	if err != nil {
		j.log.ErrorWithContext(ctx, "detector error", err)
		return err
	}

	rows := Summarize(flags)
	total := TotalAnomalies(rows)
	if total == 0 {
		j.log.InfoWithContext(ctx, "No anomalies detected", nil, map[string]interface{}{"points": len(points)})
		return nil
	}

	at := now.Truncate(time.Minute)
	html, err := notify.RenderSummary(rows, at)
	if err != nil {
		return err
	}
	msg := notify.Message{
		To:      j.recipients,
		Subject: notify.SummarySubject(at),
		Text:    notify.SummaryText(rows, at),
		HTML:    html,
	}
	if err := j.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	j.log.InfoWithContext(ctx, "anomalies detected", nil, map[string]interface{}{
		"project":   stats.Project,
		"anomalies": total,
	})
	return nil
}
