package monitor

import "github.com/aalemi-dev/anomaly-lab/metrics"

type instruments struct {
	utilization metrics.Gauge
	anomaly     metrics.Gauge
	samples     metrics.Counter
	anomalies   metrics.Counter
	dropped     metrics.Counter
	scrapeFails metrics.Counter
}

func newInstruments(c metrics.MetricsCollector) *instruments {
	labels := []string{"metric"}
	return &instruments{
		utilization: c.CreateGauge("monitor_utilization_percent", "Latest utilization sample in percent.", labels),
		anomaly:     c.CreateGauge("monitor_anomaly", "1 when the latest sample was flagged as anomalous.", labels),
		samples:     c.CreateCounter("monitor_samples_total", "Samples scored.", labels),
		anomalies:   c.CreateCounter("monitor_anomalies_total", "Samples flagged as anomalous.", labels),
		dropped:     c.CreateCounter("monitor_dropped_samples_total", "Samples dropped because the detect queue was full.", labels),
		scrapeFails: c.CreateCounter("monitor_scrape_failures_total", "Failed scrapes.", []string{"source"}),
	}
}
