package metrics

import (
	"github.com/aalemi-dev/anomaly-lab/observability"
)

// OperationObserver records observability notifications as
// operations_total{component,operation,status} and
// operation_duration_seconds{component,operation}.
type OperationObserver struct {
	total    Counter
	duration Histogram
}

// NewOperationObserver registers the two operation series on collector.
func NewOperationObserver(collector MetricsCollector) *OperationObserver {
	return &OperationObserver{
		total: collector.CreateCounter(
			"operations_total",
			"Outbound operations by component, operation and status.",
			[]string{"component", "operation", "status"},
		),
		duration: collector.CreateHistogram(
			"operation_duration_seconds",
			"Outbound operation latency.",
			[]string{"component", "operation"},
			[]float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		),
	}
}

// ObserveOperation implements observability.Observer.
func (o *OperationObserver) ObserveOperation(ctx observability.OperationContext) {
	status := "ok"
	if ctx.Error != nil {
		status = "error"
	}
	o.total.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	o.duration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
}
