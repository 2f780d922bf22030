// Package sentry watches the error volume of a Sentry project.
//
// Client reads per-interval error counts from the organization stats
// endpoint. Job regularizes them with FillGaps, scores the trailing buckets
// with a detector.Detector and mails a summary through notify when any
// bucket is anomalous:
//
//	job := sentry.NewJob(cfg, client, det, sender, []string{"ops@example.com"}, tr, log)
//	err := job.Run(ctx)
package sentry
