// Package vibration publishes simulated machine vibration readings for
// predictive maintenance experiments.
//
// The same gauge, machine_vibration_acceleration{machine_id}, can be exported
// three ways:
//
//   - prometheus: a client_golang gauge served on Address
//   - otel-prometheus: an OpenTelemetry observable gauge read by the
//     OpenTelemetry Prometheus exporter and served on Address
//   - otlp: the same observable gauge pushed to an OTLP gRPC collector
//
// In the OpenTelemetry modes the gauge callback reads the latest stored
// reading, so the export schedule is independent of Interval.
package vibration
