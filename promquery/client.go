package promquery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/observability"
	"github.com/aalemi-dev/anomaly-lab/window"
)

var (
	// ErrNoData is returned when a query matches no series.
	ErrNoData = errors.New("promquery: no data")

	// ErrUnexpectedResult is returned when a range query does not yield a matrix.
	ErrUnexpectedResult = errors.New("promquery: unexpected result type")
)

// Series is one labelled range query result.
type Series struct {
	Name   string
	Labels map[string]string
	Points []window.Point
}

// Client runs PromQL range queries.
type Client struct {
	api      v1.API
	timeout  time.Duration
	observer observability.Observer
	log      logger.Logger
}

// NewClient connects to cfg.URL. The observer may be nil.
func NewClient(cfg Config, observer observability.Observer, log logger.Logger) (*Client, error) {
	c, err := api.NewClient(api.Config{Address: cfg.URL})
	if err != nil {
		return nil, fmt.Errorf("error creating Prometheus client: %w", err)
	}
	return NewClientWithAPI(v1.NewAPI(c), cfg.Timeout, observer, log), nil
}

// NewClientWithAPI wraps an existing API, e.g. a fake in tests.
func NewClientWithAPI(a v1.API, timeout time.Duration, observer observability.Observer, log logger.Logger) *Client {
	return &Client{api: a, timeout: timeout, observer: observer, log: log}
}

// Range evaluates query over [start, end] at the given step. Series are
// ordered by name, then by label set.
func (c *Client) Range(ctx context.Context, query string, start, end time.Time, step time.Duration) (series []Series, err error) {
	began := time.Now()
	var points int64
	defer func() {
		observability.Observe(c.observer, "prometheus", "query_range", query, began, err, points)
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	val, warnings, err := c.api.QueryRange(ctx, query, v1.Range{Start: start, End: end, Step: step})
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	if len(warnings) > 0 && c.log != nil {
		c.log.WarnWithContext(ctx, "prometheus returned warnings", nil, map[string]interface{}{
			"query":    query,
			"warnings": []string(warnings),
		})
	}

	matrix, ok := val.(model.Matrix)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResult, val.Type())
	}
	if len(matrix) == 0 {
		return nil, ErrNoData
	}

	sort.Sort(matrix)
	series = make([]Series, 0, len(matrix))
	for _, stream := range matrix {
		s := Series{
			Name:   string(stream.Metric[model.MetricNameLabel]),
			Labels: make(map[string]string, len(stream.Metric)),
			Points: make([]window.Point, 0, len(stream.Values)),
		}
		for k, v := range stream.Metric {
			if k == model.MetricNameLabel {
				continue
			}
			s.Labels[string(k)] = string(v)
		}
		for _, pair := range stream.Values {
			s.Points = append(s.Points, window.Point{At: pair.Timestamp.Time().UTC(), Value: float64(pair.Value)})
		}
		points += int64(len(s.Points))
		series = append(series, s)
	}
	return series, nil
}

// AverageOverTime runs avg_over_time(selector[lookback]) over [start, end] at
// the given step: for each step, the mean of the raw samples of the trailing
// lookback.
func (c *Client) AverageOverTime(ctx context.Context, selector string, lookback time.Duration, start, end time.Time, step time.Duration) ([]Series, error) {
	return c.Range(ctx, AvgOverTimeQuery(selector, lookback), start, end, step)
}

// AvgOverTimeQuery renders avg_over_time(selector[lookback]).
func AvgOverTimeQuery(selector string, lookback time.Duration) string {
	return fmt.Sprintf("avg_over_time(%s[%s])", selector, model.Duration(lookback))
}
