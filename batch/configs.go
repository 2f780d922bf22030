package batch

import "time"

// DefaultInput is the Server Machine Dataset test split published by Nixtla.
const DefaultInput = "https://datasets-nixtla.s3.us-east-1.amazonaws.com/SMD_test.csv"

// Config drives one batch detection run.
type Config struct {
	// Input is a local path or an http(s) URL of a ts,y,unique_id CSV.
	Input string `env:"BATCH_INPUT" envDefault:"https://datasets-nixtla.s3.us-east-1.amazonaws.com/SMD_test.csv"`

	Freq          time.Duration `env:"BATCH_FREQ" envDefault:"1h"`
	Horizon       int           `env:"BATCH_HORIZON" envDefault:"24"`
	Level         float64       `env:"BATCH_LEVEL" envDefault:"95"`
	DetectionSize int           `env:"BATCH_DETECTION_SIZE" envDefault:"475"`

	// Timeout bounds the download of a remote input.
	Timeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"60s"`
}
