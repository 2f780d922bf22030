package observability_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/anomaly-lab/observability"
)

type recorder struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recorder) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}

func TestNoOpObserver(t *testing.T) {
	observer := observability.NewNoOpObserver()
	observer.ObserveOperation(observability.OperationContext{Component: "test", Operation: "test"})
}

func TestObserve_NilObserver(t *testing.T) {
	observability.Observe(nil, "supabase", "scrape", "proj", time.Now(), nil, 0)
}

func TestObserve_FillsContext(t *testing.T) {
	rec := &recorder{}
	start := time.Now().Add(-50 * time.Millisecond)
	err := errors.New("unauthorized")

	observability.Observe(rec, "supabase", "scrape", "proj", start, err, 128)

	require.Len(t, rec.ops, 1)
	op := rec.ops[0]
	assert.Equal(t, "supabase", op.Component)
	assert.Equal(t, "scrape", op.Operation)
	assert.Equal(t, "proj", op.Resource)
	assert.Equal(t, int64(128), op.Size)
	assert.ErrorIs(t, op.Error, err)
	assert.GreaterOrEqual(t, op.Duration, 50*time.Millisecond)
}

func TestMulti_SkipsNil(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	var calls int
	fn := observability.ObserverFunc(func(observability.OperationContext) { calls++ })

	m := observability.Multi(a, nil, b, fn)
	m.ObserveOperation(observability.OperationContext{Component: "nixtla", Operation: "detect"})

	assert.Len(t, a.ops, 1)
	assert.Len(t, b.ops, 1)
	assert.Equal(t, 1, calls)
}
