package detector

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/aalemi-dev/anomaly-lab/observability"
	"github.com/aalemi-dev/anomaly-lab/window"
)

// ZScore flags a point whose distance from the mean of the points before it
// exceeds Threshold standard deviations. It needs no network access.
type ZScore struct {
	Threshold float64
	MinPoints int

	observer observability.Observer
}

// NewZScore fills zero fields with DefaultThreshold and DefaultMinPoints.
func NewZScore(cfg ZScoreConfig, minPoints int, observer observability.Observer) *ZScore {
	z := &ZScore{Threshold: cfg.Threshold, MinPoints: minPoints, observer: observer}
	if z.Threshold <= 0 {
		z.Threshold = DefaultThreshold
	}
	if z.MinPoints <= 0 {
		z.MinPoints = DefaultMinPoints
	}
	return z
}

// Name implements Detector.
func (z *ZScore) Name() string { return KindZScore }

// Detect implements Detector. The scored point is excluded from the baseline.
func (z *ZScore) Detect(ctx context.Context, s Series) (res Result, err error) {
	start := time.Now()
	defer func() {
		observability.Observe(z.observer, KindZScore, "detect", s.ID, start, err, int64(len(s.Points)))
	}()

	if n := len(s.Points); n > 0 {
		last := s.Points[n-1]
		res.At, res.Value = last.At, last.Value
	}
	if len(s.Points) < z.MinPoints {
		return res, ErrNotEnoughData
	}
	return z.score(s.Points, len(s.Points)-1), nil
}

// DetectMany implements Detector. Each trailing point is scored against every
// point before it; Horizon and Level are ignored.
func (z *ZScore) DetectMany(ctx context.Context, series []Series, opts Options) (flags []Flag, err error) {
	start := time.Now()
	var total int64
	defer func() {
		observability.Observe(z.observer, KindZScore, "detect_many", "", start, err, total)
	}()

	size := opts.DetectionSize
	if size <= 0 {
		size = 1
	}
	for _, s := range series {
		total += int64(len(s.Points))
		if len(s.Points)-size < z.MinPoints-1 {
			return nil, ErrNotEnoughData
		}
		for i := len(s.Points) - size; i < len(s.Points); i++ {
			flags = append(flags, Flag{SeriesID: s.ID, Result: z.score(s.Points, i)})
		}
	}
	return flags, nil
}

// score rates points[i] against points[:i].
func (z *ZScore) score(points []window.Point, i int) Result {
	x := points[i].Value
	baseline := make([]float64, i)
	for j := 0; j < i; j++ {
		baseline[j] = points[j].Value
	}
	mean, std := stat.MeanStdDev(baseline, nil)
	if math.IsNaN(std) {
		std = 0
	}

	res := Result{
		At:    points[i].At,
		Value: x,
		Lower: mean - z.Threshold*std,
		Upper: mean + z.Threshold*std,
	}
	switch {
	case std == 0:
		if x != mean {
			res.Anomaly = true
			res.Score = math.Inf(1)
		}
	default:
		res.Score = math.Abs(x-mean) / std
		res.Anomaly = res.Score > z.Threshold
	}
	return res
}
