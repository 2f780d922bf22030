// Package observability defines the hook through which anomaly-lab components
// report their outbound operations.
//
// Sources, detectors, the Sentry client and the notifier accept an optional
// Observer and call it once per operation. The metrics package turns those
// notifications into Prometheus series (see metrics.NewOperationObserver), so
// the components themselves never depend on a metrics backend.
package observability
