package sentry

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/notify"
	"github.com/aalemi-dev/anomaly-lab/scheduler"
	"github.com/aalemi-dev/anomaly-lab/tracer"
)

// FXModule provides *Client and *Job. It needs an observability.Observer,
// a detector.Detector, a notify.Sender and a notify.Config for recipients.
// Scheduling is left to ScheduleModule so a one-shot run can reuse the graph.
var FXModule = fx.Module("sentry",
	fx.Provide(
		NewClient,
		func(cfg Config, client *Client, det detector.Detector, sender notify.Sender,
			ncfg notify.Config, tr tracer.Tracer, log logger.Logger) *Job {
			return NewJob(cfg, client, det, sender, ncfg.To, tr, log)
		},
	),
)

// ScheduleModule registers the job with the scheduler on cfg.Schedule.
var ScheduleModule = fx.Module("sentry_schedule",
	fx.Invoke(RegisterSchedule),
)

// RegisterSchedule adds j to s.
func RegisterSchedule(s *scheduler.Scheduler, j *Job, cfg Config) error {
	return s.AddCronTask(TaskName, cfg.Schedule, j.Run)
}
