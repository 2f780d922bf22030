// Package telemetry sets up the OpenTelemetry metric pipeline.
//
// Two exporters are supported: a Prometheus reader that feeds a
// client_golang registry, and an OTLP gRPC exporter with a periodic reader
// for pushing to a collector.
package telemetry
