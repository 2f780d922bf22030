// Package monitor is the continuous CPU and memory anomaly pipeline.
//
// The monitor polls a host for utilization, keeps a sliding window per metric
// and asks a Detector whether the newest reading is unusual. Every verdict is
// logged as "OK" or "Anomaly", exported as Prometheus metrics and kept for the
// dashboard through StatusProvider.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Monitor struct: owns the scrape loop and one detect loop per metric
//   - StatusProvider interface: read-only view of the latest verdicts
//   - New constructor: takes a source.Source, a detector.Detector, a
//     metrics.MetricsCollector, a tracer.Tracer and a logger.Logger
//   - FX module: provides *Monitor and StatusProvider and ties Run to the
//     application lifecycle
//
// A single goroutine scrapes the Source every Interval. Ticks are scheduled
// from the start time, so a slow scrape shortens the following wait instead
// of pushing every later scrape back. CPU utilization is the delta of the
// cumulative CPU counters between two scrapes, so the first scrape yields no
// CPU sample. Memory utilization is read directly.
//
// Each sample is put on the queue of its metric. The queues are bounded by
// QueueSize; when a detect loop falls behind, new samples for that metric are
// dropped, counted in monitor_dropped_samples_total and logged at warn level.
// Scraping never waits on detection. Detect loops block on their queue while
// it is empty and exit when Run disposes it.
//
// A detect loop appends the sample to the window of its metric, resamples the
// window to ResampleStep, optionally writes the series to cpu_metrics.csv or
// memory_metrics.csv in ExportDir and scores the newest point inside a
// "detect_anomaly" span. Detector failures are logged and the sample is
// treated as normal. detector.ErrNotEnoughData is not a failure: the window is
// still warming up and the sample is reported as OK.
//
// Core Features:
//   - Drift-free scrape schedule
//   - Bounded per-metric queues with drop accounting
//   - Sliding window with resampling onto a regular grid
//   - CSV export of the scored series, stale exports removed on start
//   - Prometheus gauges and counters labelled by metric
//   - Tracing of every detection
//
// # Direct Usage (Without FX)
//
//	import (
//		"github.com/aalemi-dev/anomaly-lab/detector"
//		"github.com/aalemi-dev/anomaly-lab/monitor"
//		"github.com/aalemi-dev/anomaly-lab/source"
//	)
//
//	src := source.NewLocal(nil)
//	det := detector.NewZScore(detector.ZScoreConfig{Threshold: 3}, 10, nil)
//
//	m := monitor.New(monitor.Config{Interval: 10 * time.Second}, src, det, collector, tr, log)
//	if err := m.Run(ctx); err != nil {
//		return err
//	}
//
// Run blocks until ctx is cancelled and returns ErrAlreadyRunning when the
// monitor is already running. Start and Stop wrap Run for lifecycle hooks.
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		tracer.FXModule,
//		source.FXModule,
//		detector.FXModule,
//		monitor.FXModule, // Provides *Monitor and monitor.StatusProvider
//		fx.Supply(monitorCfg, sourceCfg, detectorCfg),
//	)
//	app.Run()
//
// # Configuration
//
// Config is loaded from the environment:
//
//	MONITOR_INTERVAL=60s         # time between scrapes
//	MONITOR_WINDOW_SIZE=180      # raw samples kept per metric
//	MONITOR_RESAMPLE_STEP=1m     # grid the window is scored on
//	MONITOR_QUEUE_SIZE=64        # samples waiting per detect loop
//	MONITOR_EXPORT_CSV=true      # write the scored series to disk
//	MONITOR_EXPORT_DIR=.         # where the CSV files go
//
// Zero values fall back to these defaults in New.
//
// # Thread Safety
//
// Status may be called from any goroutine while the monitor runs.
package monitor
