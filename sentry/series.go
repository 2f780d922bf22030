package sentry

import (
	"sort"
	"time"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/notify"
	"github.com/aalemi-dev/anomaly-lab/window"
)

// FillGaps puts points on a regular grid of freq, from the first point up to
// end floored to freq. Buckets without data get zero; points that share a
// bucket are summed; points after end are dropped.
func FillGaps(points []window.Point, freq time.Duration, end time.Time) []window.Point {
	if len(points) == 0 || freq <= 0 {
		return nil
	}

	sums := make(map[int64]float64, len(points))
	first := points[0].At.Truncate(freq)
	for _, p := range points {
		at := p.At.Truncate(freq)
		if at.Before(first) {
			first = at
		}
		sums[at.UnixNano()] += p.Value
	}

	last := end.Truncate(freq)
	if last.Before(first) {
		return nil
	}

	out := make([]window.Point, 0, int(last.Sub(first)/freq)+1)
	for at := first; !at.After(last); at = at.Add(freq) {
		out = append(out, window.Point{At: at.UTC(), Value: sums[at.UnixNano()]})
	}
	return out
}

// Summarize counts anomalous flags per series and keeps the time and value of
// the latest one. Series without anomalies are left out. Rows are ordered by
// series ID.
func Summarize(flags []detector.Flag) []notify.SummaryRow {
	rows := make(map[string]*notify.SummaryRow)
	for _, f := range flags {
		if !f.Anomaly {
			continue
		}
		r, ok := rows[f.SeriesID]
		if !ok {
			r = &notify.SummaryRow{ID: f.SeriesID}
			rows[f.SeriesID] = r
		}
		r.Anomalies++
		if !f.At.Before(r.LastTime) {
			r.LastTime = f.At
			r.LastValue = f.Value
		}
	}

	out := make([]notify.SummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TotalAnomalies sums the anomaly counts of rows.
func TotalAnomalies(rows []notify.SummaryRow) int {
	total := 0
	for _, r := range rows {
		total += r.Anomalies
	}
	return total
}
