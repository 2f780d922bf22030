package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aalemi-dev/anomaly-lab/observability"
)

const (
	onlineDetectionPath = "/v2/online_anomaly_detection"
	thresholdUnivariate = "univariate"
)

// Nixtla delegates scoring to the TimeGPT online anomaly detection API. The
// service forecasts each point from the ones before it and flags values that
// fall outside the prediction interval.
type Nixtla struct {
	client    *resty.Client
	model     string
	level     float64
	minPoints int
	observer  observability.Observer
}

// NewNixtla builds the client. The observer may be nil.
func NewNixtla(cfg NixtlaConfig, minPoints int, observer observability.Observer) (*Nixtla, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Level == 0 {
		cfg.Level = DefaultLevel
	}
	if minPoints <= 0 {
		minPoints = DefaultMinPoints
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Nixtla{
		client:    client,
		model:     cfg.Model,
		level:     cfg.Level,
		minPoints: minPoints,
		observer:  observer,
	}, nil
}

type onlineSeries struct {
	Sizes []int     `json:"sizes"`
	Y     []float64 `json:"y"`
}

type onlineRequest struct {
	Series          onlineSeries `json:"series"`
	Model           string       `json:"model,omitempty"`
	Freq            string       `json:"freq"`
	H               int          `json:"h"`
	Level           []float64    `json:"level"`
	DetectionSize   int          `json:"detection_size"`
	ThresholdMethod string       `json:"threshold_method"`
	StepSize        int          `json:"step_size"`
	CleanExFirst    bool         `json:"clean_ex_first"`
}

// onlineResponse holds DetectionSize entries per series, series in request
// order. Interval keys are "lo-<level>" and "hi-<level>".
type onlineResponse struct {
	Anomaly      []bool               `json:"anomaly"`
	AnomalyScore []float64            `json:"anomaly_score"`
	Mean         []float64            `json:"mean"`
	Intervals    map[string][]float64 `json:"intervals"`
}

// Name implements Detector.
func (n *Nixtla) Name() string { return KindNixtla }

// Detect implements Detector with h=1, detection_size=1 and the configured
// level. Short series are not sent to the service.
func (n *Nixtla) Detect(ctx context.Context, s Series) (Result, error) {
	var res Result
	if k := len(s.Points); k > 0 {
		res.At, res.Value = s.Points[k-1].At, s.Points[k-1].Value
	}
	if len(s.Points) < n.minPoints {
		return res, ErrNotEnoughData
	}

	flags, err := n.DetectMany(ctx, []Series{s}, Options{Horizon: 1, Level: n.level, DetectionSize: 1})
	if err != nil {
		return res, err
	}
	return flags[len(flags)-1].Result, nil
}

// DetectMany implements Detector. All series share the frequency of the
// first one.
func (n *Nixtla) DetectMany(ctx context.Context, series []Series, opts Options) (flags []Flag, err error) {
	start := time.Now()
	var total int64
	resource := ""
	if len(series) == 1 {
		resource = series[0].ID
	}
	defer func() {
		observability.Observe(n.observer, KindNixtla, "detect", resource, start, err, total)
	}()

	if len(series) == 0 {
		return nil, ErrNotEnoughData
	}
	if opts.Horizon <= 0 {
		opts.Horizon = 1
	}
	if opts.DetectionSize <= 0 {
		opts.DetectionSize = 1
	}
	if opts.Level == 0 {
		opts.Level = n.level
	}

	req := onlineRequest{
		Model:           n.model,
		Freq:            freqAlias(series[0].Freq),
		H:               opts.Horizon,
		Level:           []float64{opts.Level},
		DetectionSize:   opts.DetectionSize,
		ThresholdMethod: thresholdUnivariate,
		StepSize:        opts.Horizon,
		CleanExFirst:    true,
	}
	for _, s := range series {
		if len(s.Points) < n.minPoints || len(s.Points) <= opts.DetectionSize {
			return nil, fmt.Errorf("%w: series %q has %d points", ErrNotEnoughData, s.ID, len(s.Points))
		}
		req.Series.Sizes = append(req.Series.Sizes, len(s.Points))
		for _, p := range s.Points {
			req.Series.Y = append(req.Series.Y, p.Value)
		}
	}
	total = int64(len(req.Series.Y))

	resp, err := n.client.R().SetContext(ctx).SetBody(req).Post(onlineDetectionPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorUnavailable, err)
	}
	if err := translateStatus(resp.StatusCode(), resp.Body()); err != nil {
		return nil, err
	}

	var out onlineResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	want := len(series) * opts.DetectionSize
	if len(out.Anomaly) != want {
		return nil, fmt.Errorf("%w: got %d flags, want %d", ErrInvalidResponse, len(out.Anomaly), want)
	}

	levelKey := strconv.FormatFloat(opts.Level, 'f', -1, 64)
	lo, hi := out.Intervals["lo-"+levelKey], out.Intervals["hi-"+levelKey]

	flags = make([]Flag, 0, want)
	idx := 0
	for _, s := range series {
		for i := len(s.Points) - opts.DetectionSize; i < len(s.Points); i++ {
			f := Flag{SeriesID: s.ID, Result: Result{
				Anomaly: out.Anomaly[idx],
				At:      s.Points[i].At,
				Value:   s.Points[i].Value,
			}}
			f.Score = at(out.AnomalyScore, idx)
			f.Lower = at(lo, idx)
			f.Upper = at(hi, idx)
			flags = append(flags, f)
			idx++
		}
	}
	return flags, nil
}

func at(vs []float64, i int) float64 {
	if i < len(vs) {
		return vs[i]
	}
	return 0
}

// freqAlias renders a step as a pandas offset alias, which is what the API
// expects.
func freqAlias(d time.Duration) string {
	switch {
	case d <= 0:
		return "min"
	case d%(24*time.Hour) == 0:
		return multiple(int64(d/(24*time.Hour)), "D")
	case d%time.Hour == 0:
		return multiple(int64(d/time.Hour), "h")
	case d%time.Minute == 0:
		return multiple(int64(d/time.Minute), "min")
	default:
		return multiple(int64(d/time.Second), "s")
	}
}

func multiple(n int64, unit string) string {
	if n == 1 {
		return unit
	}
	return strconv.FormatInt(n, 10) + unit
}
