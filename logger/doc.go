// Package logger is the structured logger shared by every anomaly-lab command.
//
// It wraps go.uber.org/zap behind a small map-of-fields API:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "anomalyd"})
//	log.Error("scrape failed", err, map[string]interface{}{"source": "supabase"})
//
// Components take a Logger and call Named once to tag their entries:
//
//	m.log = log.Named("monitor")
//
// With Config.EnableTracing set, the *WithContext methods attach the trace and
// span IDs of the active OpenTelemetry span so log lines can be joined with
// traces produced by the tracer package.
package logger
