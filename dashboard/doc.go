// Package dashboard serves a small HTML page charting the CPU and memory
// series the monitor exports, refreshed every minute.
//
// Routes:
//
//	GET /           page with the inline chart and the latest verdicts
//	GET /chart.svg  the chart alone
//	GET /healthz    "ok"
package dashboard
