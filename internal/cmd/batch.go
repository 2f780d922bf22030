package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/batch"
	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/metrics"
	"github.com/aalemi-dev/anomaly-lab/telemetry"
)

func newBatchCommand(opts *rootOptions) *cobra.Command {
	var (
		input string
		hold  bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Detect anomalies over a whole ts,y,unique_id dataset",
		Long: `Load a CSV with ts, y and unique_id columns from a path or URL, score every
series in one detector call and count the anomalies on the OpenTelemetry
counters anomaly.unique_id and anomaly.all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if input != "" {
				cfg.Batch.Input = input
			}

			var runner *batch.Runner
			app := fx.New(
				baseModules(cfg),
				metrics.FXModule,
				telemetry.FXModule,
				detector.FXModule,
				batch.FXModule,
				fx.Populate(&runner),
			)

			return runOnce(cmd.Context(), app, func(ctx context.Context) error {
				report, err := runner.Run(ctx)
				if err != nil {
					return err
				}
				printReport(cmd, report)
				if hold {
					<-ctx.Done()
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "CSV path or URL (default BATCH_INPUT)")
	cmd.Flags().BoolVar(&hold, "hold", false, "keep serving metrics after the run until interrupted")
	return cmd
}

func printReport(cmd *cobra.Command, report batch.Report) {
	out := cmd.OutOrStdout()
	ids := make([]string, 0, len(report.PerID))
	for id := range report.PerID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(out, "series: %d, points: %d, anomalies: %d\n", report.Series, report.Points, report.Total)
	for _, id := range ids {
		fmt.Fprintf(out, "  %s: %d\n", id, report.PerID[id])
	}
}
