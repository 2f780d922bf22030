// Package tracer sets up OpenTelemetry tracing for anomaly-lab.
//
// The monitor opens a "detect" span per scored sample, the batch command a
// "detect_anomaly" span per run and the Sentry job a "sentry_job" span, so a
// single trace shows fetch, detection and notification together. Spans are
// exported over OTLP/HTTP when TRACING_EXPORT=true.
package tracer
