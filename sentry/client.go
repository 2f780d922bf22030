package sentry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aalemi-dev/anomaly-lab/observability"
	"github.com/aalemi-dev/anomaly-lab/window"
)

var (
	ErrMissingConfig   = errors.New("sentry: SENTRY_AUTH_TOKEN, SENTRY_ORG_SLUG and SENTRY_PROJECT_SLUG must be set")
	ErrUnauthorized    = errors.New("sentry: unauthorized")
	ErrRateLimited     = errors.New("sentry: rate limited")
	ErrUpstream        = errors.New("sentry: upstream error")
	ErrInvalidResponse = errors.New("sentry: invalid response")
)

const sumQuantity = "sum(quantity)"

// Stats is the error count series of one project.
type Stats struct {
	Project string
	Points  []window.Point
}

// Client reads organization usage stats.
type Client struct {
	client   *resty.Client
	cfg      Config
	observer observability.Observer
}

// NewClient validates cfg and builds the client. The observer may be nil.
func NewClient(cfg Config, observer observability.Observer) (*Client, error) {
	if cfg.Token == "" || cfg.Org == "" || cfg.Project == "" {
		return nil, ErrMissingConfig
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.StatsPeriod == "" {
		cfg.StatsPeriod = "1d"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{client: client, cfg: cfg, observer: observer}, nil
}

type statsResponse struct {
	Intervals []time.Time `json:"intervals"`
	Groups    []struct {
		By     map[string]string    `json:"by"`
		Series map[string][]float64 `json:"series"`
	} `json:"groups"`
}

// ErrorStats fetches the number of error events per Interval over
// StatsPeriod. A project without errors yields an empty series.
func (c *Client) ErrorStats(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	var size int64
	defer func() {
		observability.Observe(c.observer, "sentry", "fetch_stats", c.cfg.Project, start, err, size)
	}()

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("org", c.cfg.Org).
		SetQueryParams(map[string]string{
			"project":     c.cfg.Project,
			"interval":    statsInterval(c.cfg.Interval),
			"statsPeriod": c.cfg.StatsPeriod,
			"groupBy":     "category",
			"category":    "error",
			"field":       sumQuantity,
		}).
		Get("/api/0/organizations/{org}/stats_v2/")
	if err != nil {
		return Stats{}, fmt.Errorf("fetch stats: %w", err)
	}
	size = int64(len(resp.Body()))
	if err := translateStatus(resp.StatusCode()); err != nil {
		return Stats{}, err
	}

	var body statsResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	stats.Project = c.cfg.Project
	if len(body.Groups) == 0 {
		return stats, nil
	}
	values := body.Groups[0].Series[sumQuantity]
	if len(values) != len(body.Intervals) {
		return Stats{}, fmt.Errorf("%w: %d intervals but %d values", ErrInvalidResponse, len(body.Intervals), len(values))
	}
	stats.Points = make([]window.Point, len(values))
	for i, v := range values {
		stats.Points[i] = window.Point{At: body.Intervals[i].UTC(), Value: v}
	}
	return stats, nil
}

func translateStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, code)
	default:
		return fmt.Errorf("%w: status %d", ErrUpstream, code)
	}
}

// statsInterval renders d the way the stats endpoint expects, e.g. "5m" or "1h".
func statsInterval(d time.Duration) string {
	switch {
	case d%(24*time.Hour) == 0:
		return strconv.FormatInt(int64(d/(24*time.Hour)), 10) + "d"
	case d%time.Hour == 0:
		return strconv.FormatInt(int64(d/time.Hour), 10) + "h"
	default:
		return strconv.FormatInt(int64(d/time.Minute), 10) + "m"
	}
}
