package source

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aalemi-dev/anomaly-lab/exposition"
	"github.com/aalemi-dev/anomaly-lab/observability"
)

const (
	supabaseMetricsPath = "/customer/v1/privileged/metrics"
	supabaseUser        = "service_role"
)

// Supabase scrapes the node exporter metrics Supabase publishes for a project.
// Supabase refreshes them once a minute.
type Supabase struct {
	project  string
	client   *resty.Client
	observer observability.Observer
	now      func() time.Time
}

// NewSupabase builds the client. The observer may be nil.
func NewSupabase(cfg SupabaseConfig, observer observability.Observer) (*Supabase, error) {
	if cfg.Project == "" || cfg.JWT == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.supabase.co", cfg.Project)
	}

	client := resty.New().
		SetBaseURL(base).
		SetBasicAuth(supabaseUser, cfg.JWT).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "text/plain")

	return &Supabase{
		project:  cfg.Project,
		client:   client,
		observer: observer,
		now:      time.Now,
	}, nil
}

// Name implements Source.
func (s *Supabase) Name() string { return KindSupabase }

// Scrape implements Source.
func (s *Supabase) Scrape(ctx context.Context) (snap Snapshot, err error) {
	start := time.Now()
	var size int64
	defer func() {
		observability.Observe(s.observer, KindSupabase, "scrape", s.project, start, err, size)
	}()

	resp, err := s.client.R().SetContext(ctx).Get(supabaseMetricsPath)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch metrics: %w", err)
	}
	size = int64(len(resp.Body()))
	if err := translateStatus(resp.StatusCode()); err != nil {
		return Snapshot{}, err
	}

	families, err := exposition.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	snap.At = s.now().UTC()
	snap.CPUTotal, snap.CPUIdle = families.CPUTimes()
	snap.MemUtil, snap.MemOK = families.MemoryUtilization()
	return snap, nil
}
