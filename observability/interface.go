package observability

import "time"

// Observer receives one notification per completed outbound operation:
// a scrape, a detection call, a Sentry fetch or an e-mail send.
//
// Components work without an observer; a nil Observer is never called.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a completed operation.
type OperationContext struct {
	// Component is the package or backend that did the work.
	// Examples: "supabase", "local", "nixtla", "zscore", "sentry", "mailgun", "prometheus"
	Component string

	// Operation is what was done.
	// Examples: "scrape", "detect", "fetch_stats", "send", "query_range"
	Operation string

	// Resource is the primary thing operated on, e.g. the metric name ("CPU",
	// "MEM"), the Sentry project slug or the e-mail recipient.
	Resource string

	// SubResource is optional extra addressing, e.g. a series ID.
	SubResource string

	Duration time.Duration

	// Error is nil on success.
	Error error

	// Size is the payload size: response bytes for scrapes and fetches,
	// number of points for detections.
	Size int64

	// Metadata carries anything else worth attaching.
	Metadata map[string]interface{}
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}

// Multi fans each notification out to every non-nil observer.
func Multi(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}

// Observe is a convenience for the common call site pattern:
//
//	start := time.Now()
//	body, err := fetch()
//	observability.Observe(o, "supabase", "scrape", project, start, err, int64(len(body)))
//
// It is a no-op when o is nil.
func Observe(o Observer, component, operation, resource string, start time.Time, err error, size int64) {
	if o == nil {
		return
	}
	o.ObserveOperation(OperationContext{
		Component: component,
		Operation: operation,
		Resource:  resource,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
	})
}
