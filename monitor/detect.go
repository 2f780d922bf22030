package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/window"
)

// detectLoop drains the queue of p until it is disposed. Get blocks while
// the queue is empty.
func (m *Monitor) detectLoop(ctx context.Context, p *pipe) {
	for {
		items, err := p.queue.Get(1)
		if err != nil {
			return
		}
		for _, item := range items {
			if s, ok := item.(Sample); ok {
				m.handle(ctx, p, s)
			}
		}
	}
}

func (m *Monitor) handle(ctx context.Context, p *pipe, s Sample) {
	ctx, span := m.tracer.StartSpan(ctx, "detect")
	defer span.End()

	p.window.Push(window.Point{At: s.At, Value: s.Value})
	series := window.Resample(p.window.Points(), m.cfg.ResampleStep)

	if m.cfg.ExportCSV {
		if err := window.ExportCSV(p.path, series); err != nil {
			m.log.WarnWithContext(ctx, "could not export series", err, map[string]interface{}{"path": p.path})
		} else {
			m.log.DebugWithContext(ctx, "exported series", nil, map[string]interface{}{"path": p.path})
		}
	}

	res, err := m.detector.Detect(ctx, detector.Series{
		ID:     p.metric,
		Points: series,
		Freq:   m.cfg.ResampleStep,
	})
	switch {
	case err == nil:
	case errors.Is(err, detector.ErrNotEnoughData):
		res.Anomaly = false
	default:
		// The sample is still reported; a failing detector must not stall monitoring.
		span.RecordError(err)
		m.log.WarnWithContext(ctx, "detector error", err, map[string]interface{}{
			"metric":   p.metric,
			"detector": m.detector.Name(),
		})
		res.Anomaly = false
	}

	fields := map[string]interface{}{
		"metric": p.metric,
		"value":  s.Value,
		"at":     s.At.Format(time.RFC3339),
		"points": len(series),
	}
	m.inst.samples.WithLabelValues(p.metric).Inc()
	m.inst.utilization.WithLabelValues(p.metric).Set(s.Value)
	if res.Anomaly {
		fields["score"] = res.Score
		m.inst.anomalies.WithLabelValues(p.metric).Inc()
		m.inst.anomaly.WithLabelValues(p.metric).Set(1)
		m.log.WarnWithContext(ctx, "Anomaly", nil, fields)
	} else {
		m.inst.anomaly.WithLabelValues(p.metric).Set(0)
		m.log.InfoWithContext(ctx, "OK", nil, fields)
	}

	span.SetAttributes(map[string]interface{}{
		"metric":  p.metric,
		"value":   s.Value,
		"points":  len(series),
		"anomaly": res.Anomaly,
	})

	m.setStatus(Status{
		Metric:  p.metric,
		At:      s.At,
		Value:   s.Value,
		Anomaly: res.Anomaly,
		Score:   res.Score,
		Points:  len(series),
	})
}
