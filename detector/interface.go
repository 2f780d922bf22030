package detector

import (
	"context"
	"time"

	"github.com/aalemi-dev/anomaly-lab/window"
)

// Series is a regular time series to score. Freq is its step; Points are
// ordered oldest first.
type Series struct {
	ID     string
	Points []window.Point
	Freq   time.Duration
}

// Result scores the last point of a series.
type Result struct {
	Anomaly bool
	At      time.Time
	Value   float64

	// Score is how unusual the point is; its scale depends on the detector.
	Score float64

	// Lower and Upper bound the expected value.
	Lower float64
	Upper float64
}

// Flag scores one point of a series in a DetectMany call.
type Flag struct {
	SeriesID string
	Result
}

// Options configures DetectMany.
type Options struct {
	// Horizon is how many steps ahead the forecast behind the scores looks.
	Horizon int

	// Level is the prediction interval confidence in percent.
	Level float64

	// DetectionSize is how many trailing points of each series are scored.
	DetectionSize int
}

// Detector decides whether the latest values of a series are anomalous.
//
// Implementations are safe for concurrent use.
type Detector interface {
	// Name identifies the detector in logs and metrics.
	Name() string

	// Detect scores the last point of s. Series shorter than the detector's
	// minimum are not scored and yield ErrNotEnoughData.
	Detect(ctx context.Context, s Series) (Result, error)

	// DetectMany scores the trailing opts.DetectionSize points of every
	// series, returning flags grouped by series in input order.
	DetectMany(ctx context.Context, series []Series, opts Options) ([]Flag, error)
}
