package source

import (
	"fmt"

	"github.com/aalemi-dev/anomaly-lab/observability"
)

// New builds the Source selected by cfg.Kind.
func New(cfg Config, observer observability.Observer) (Source, error) {
	switch cfg.Kind {
	case KindSupabase, "":
		return NewSupabase(cfg.Supabase, observer)
	case KindLocal:
		return NewLocal(observer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
