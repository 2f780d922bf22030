package detector

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/anomaly-lab/window"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func series(id string, values ...float64) Series {
	s := Series{ID: id, Freq: time.Minute}
	for i, v := range values {
		s.Points = append(s.Points, window.Point{At: t0.Add(time.Duration(i) * time.Minute), Value: v})
	}
	return s
}

func TestZScoreNotEnoughData(t *testing.T) {
	t.Parallel()

	z := NewZScore(ZScoreConfig{}, 0, nil)
	res, err := z.Detect(context.Background(), series("CPU", 1, 2, 3))

	assert.ErrorIs(t, err, ErrNotEnoughData)
	assert.False(t, res.Anomaly)
	assert.Equal(t, 3.0, res.Value)
}

func TestZScoreFlagsOutlier(t *testing.T) {
	t.Parallel()

	z := NewZScore(ZScoreConfig{Threshold: 3}, 10, nil)
	values := []float64{10, 11, 9, 10, 11, 9, 10, 11, 9, 10, 50}

	res, err := z.Detect(context.Background(), series("CPU", values...))
	require.NoError(t, err)
	assert.True(t, res.Anomaly)
	assert.Greater(t, res.Score, 3.0)
	assert.Equal(t, 50.0, res.Value)
	assert.Equal(t, t0.Add(10*time.Minute), res.At)
	assert.Less(t, res.Upper, 50.0)
}

func TestZScoreAcceptsNormalPoint(t *testing.T) {
	t.Parallel()

	z := NewZScore(ZScoreConfig{}, 10, nil)
	res, err := z.Detect(context.Background(), series("MEM", 10, 11, 9, 10, 11, 9, 10, 11, 9, 10, 10.5))
	require.NoError(t, err)
	assert.False(t, res.Anomaly)
	assert.InDelta(t, 10, (res.Lower+res.Upper)/2, 1e-9)
}

func TestZScoreConstantBaseline(t *testing.T) {
	t.Parallel()

	z := NewZScore(ZScoreConfig{}, 10, nil)
	flat := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}

	res, err := z.Detect(context.Background(), series("MEM", append(flat, 5)...))
	require.NoError(t, err)
	assert.False(t, res.Anomaly)
	assert.Zero(t, res.Score)

	res, err = z.Detect(context.Background(), series("MEM", append(flat, 5.01)...))
	require.NoError(t, err)
	assert.True(t, res.Anomaly)
	assert.True(t, math.IsInf(res.Score, 1))
}

func TestZScoreDetectMany(t *testing.T) {
	t.Parallel()

	z := NewZScore(ZScoreConfig{}, 10, nil)
	a := series("a", 10, 11, 9, 10, 11, 9, 10, 11, 9, 10, 10, 60)
	b := series("b", 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2)

	flags, err := z.DetectMany(context.Background(), []Series{a, b}, Options{DetectionSize: 2})
	require.NoError(t, err)
	require.Len(t, flags, 4)

	assert.Equal(t, "a", flags[0].SeriesID)
	assert.False(t, flags[0].Anomaly)
	assert.True(t, flags[1].Anomaly)
	assert.Equal(t, "b", flags[2].SeriesID)
	assert.False(t, flags[3].Anomaly)

	_, err = z.DetectMany(context.Background(), []Series{series("short", 1, 2, 3)}, Options{DetectionSize: 2})
	assert.ErrorIs(t, err, ErrNotEnoughData)
}
