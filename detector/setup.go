package detector

import (
	"fmt"

	"github.com/aalemi-dev/anomaly-lab/observability"
)

// New builds the Detector selected by cfg.Kind.
func New(cfg Config, observer observability.Observer) (Detector, error) {
	switch cfg.Kind {
	case KindNixtla, "":
		return NewNixtla(cfg.Nixtla, cfg.MinPoints, observer)
	case KindZScore:
		return NewZScore(cfg.ZScore, cfg.MinPoints, observer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
