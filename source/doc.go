// Package source provides the CPU and memory readings the monitor scores.
//
// Supabase scrapes a project's privileged metrics endpoint, which serves node
// exporter metrics in the Prometheus text format, with the service_role JWT as
// the basic auth password. Local reads the current host through gopsutil and
// is handy for development or when the monitor runs next to the workload.
//
// HTTP failures are classified into sentinel errors:
//
//	snap, err := src.Scrape(ctx)
//	if errors.Is(err, source.ErrUnauthorized) {
//	    // bad JWT
//	}
package source
