// Package exposition extracts host CPU and memory readings from node exporter
// metrics in the Prometheus text format.
//
// Parse is lenient: it keeps only the node CPU and memory families and reads
// them out of payloads that concatenate several exporters.
package exposition
