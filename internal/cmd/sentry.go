package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/metrics"
	"github.com/aalemi-dev/anomaly-lab/notify"
	"github.com/aalemi-dev/anomaly-lab/scheduler"
	"github.com/aalemi-dev/anomaly-lab/sentry"
)

func newSentryCommand(opts *rootOptions) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "sentry",
		Short: "Watch the error volume of a Sentry project",
		Long: `Fetch per-interval error counts of SENTRY_PROJECT_SLUG, score the trailing
buckets and e-mail a summary to EMAIL_TO when any is anomalous. Runs on
SENTRY_SCHEDULE until interrupted, or a single time with --once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.ValidateSentry(); err != nil {
				return err
			}

			modules := []fx.Option{
				baseModules(cfg),
				metrics.FXModule,
				detector.FXModule,
				notify.FXModule,
				sentry.FXModule,
			}

			if once {
				var job *sentry.Job
				app := fx.New(append(modules, fx.Populate(&job))...)
				return runOnce(cmd.Context(), app, func(ctx context.Context) error {
					return job.Run(ctx)
				})
			}

			app := fx.New(append(modules, scheduler.FXModule, sentry.ScheduleModule)...)
			return runApp(cmd.Context(), app)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single check and exit")
	return cmd
}
