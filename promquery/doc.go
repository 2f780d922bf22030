// Package promquery reads metric history back out of Prometheus.
//
//	c, _ := promquery.NewClient(promquery.Config{URL: "http://localhost:9090"}, nil, log)
//	end := time.Now()
//	series, err := c.AverageOverTime(ctx,
//	    `machine_vibration_acceleration{machine_id="machine_1"}`,
//	    30*time.Second, end.Add(-10*time.Minute), end, 15*time.Second)
package promquery
