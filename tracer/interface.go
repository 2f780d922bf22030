package tracer

import (
	"context"
)

// Tracer creates spans and moves trace context across process boundaries.
//
// This interface is implemented by the concrete *TracerClient type.
type Tracer interface {
	// StartSpan starts a child of the span in ctx, or a root span.
	// Callers must End the returned span.
	StartSpan(ctx context.Context, name string) (context.Context, Span)

	// GetCarrier returns the W3C trace headers for ctx.
	GetCarrier(ctx context.Context) map[string]string

	// SetCarrierOnContext continues the trace described by carrier.
	SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context
}

// Span is a single traced operation.
//
//	ctx, span := t.StartSpan(ctx, "detect")
//	defer span.End()
//	span.SetAttributes(map[string]interface{}{"metric": "CPU", "points": 42})
//	if err != nil {
//	    span.RecordError(err)
//	}
type Span interface {
	End()
	SetAttributes(attrs map[string]interface{})
	RecordError(err error)
}
