// Package scheduler wraps robfig/cron for periodic jobs such as the Sentry
// anomaly check.
//
//	s := scheduler.New(log, 0)
//	_ = s.AddCronTask("sentry", "@every 5m", job.Run)
//	s.Start()
//	defer s.Stop(ctx)
package scheduler
