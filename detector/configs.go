package detector

import "time"

const (
	KindNixtla = "nixtla"
	KindZScore = "zscore"

	DefaultMinPoints = 10
	DefaultThreshold = 3.0
	DefaultLevel     = 99
)

// Config selects and configures the Detector.
type Config struct {
	// Kind is "nixtla" or "zscore".
	Kind string `env:"DETECTOR" envDefault:"nixtla"`

	// MinPoints is the shortest series that gets scored.
	MinPoints int `env:"DETECTOR_MIN_POINTS" envDefault:"10"`

	ZScore ZScoreConfig
	Nixtla NixtlaConfig
}

type ZScoreConfig struct {
	// Threshold is the number of standard deviations that makes an anomaly.
	Threshold float64 `env:"ZSCORE_THRESHOLD" envDefault:"3.0"`
}

// NixtlaConfig addresses the TimeGPT online anomaly detection API.
type NixtlaConfig struct {
	BaseURL string        `env:"NIXTLA_BASE_URL" envDefault:"https://api.nixtla.io"`
	APIKey  string        `env:"NIXTLA_API_KEY"`
	Model   string        `env:"NIXTLA_MODEL" envDefault:"timegpt-1"`
	Timeout time.Duration `env:"NIXTLA_TIMEOUT" envDefault:"60s"`

	// Level is the confidence used by Detect; DetectMany takes its own.
	Level float64 `env:"NIXTLA_LEVEL" envDefault:"99"`
}
