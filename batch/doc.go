// Package batch runs anomaly detection over a whole dataset at once.
//
// The input is a CSV with ts, y and unique_id columns, read from disk or
// downloaded. Every unique_id becomes one detector.Series and all of them
// are scored in a single DetectMany call inside a "detect_anomaly" span.
// Anomalies are counted on the OpenTelemetry counters anomaly.unique_id and
// anomaly.all, which reach Prometheus or an OTLP collector through the
// telemetry package.
package batch
