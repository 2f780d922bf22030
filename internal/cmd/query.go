package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/observability"
	"github.com/aalemi-dev/anomaly-lab/promquery"
	"github.com/aalemi-dev/anomaly-lab/window"
)

func newQueryCommand(opts *rootOptions) *cobra.Command {
	var (
		lookback time.Duration
		since    time.Duration
		step     time.Duration
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "query <selector>",
		Short: "Read a metric back from Prometheus",
		Long: `Query Prometheus for the given selector over the last --since and print
each series as a ds,y table. By default the series is smoothed with
avg_over_time over --lookback; --raw evaluates the selector as is.`,
		Example: `  anomalyd query 'machine_vibration_acceleration{machine_id="machine_1"}'
  anomalyd query --raw 'rate(node_cpu_seconds_total[1m])' --since 30m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var client *promquery.Client
			app := fx.New(
				baseModules(opts.cfg),
				fx.Provide(observability.NewNoOpObserver),
				promquery.FXModule,
				fx.Populate(&client),
			)

			return runOnce(cmd.Context(), app, func(ctx context.Context) error {
				end := time.Now()
				start := end.Add(-since)

				var (
					series []promquery.Series
					err    error
				)
				if raw {
					series, err = client.Range(ctx, args[0], start, end, step)
				} else {
					series, err = client.AverageOverTime(ctx, args[0], lookback, start, end, step)
				}
				if err != nil {
					return err
				}
				return printSeries(cmd.OutOrStdout(), series)
			})
		},
	}

	cmd.Flags().DurationVar(&lookback, "lookback", 30*time.Second, "avg_over_time window")
	cmd.Flags().DurationVar(&since, "since", time.Hour, "how far back to query")
	cmd.Flags().DurationVar(&step, "step", 15*time.Second, "resolution of the result")
	cmd.Flags().BoolVar(&raw, "raw", false, "evaluate the selector without avg_over_time")
	return cmd
}

func printSeries(w io.Writer, series []promquery.Series) error {
	for i, s := range series {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "# %s%s\n", s.Name, formatLabels(s.Labels)); err != nil {
			return err
		}
		if err := window.WriteCSV(w, s.Points); err != nil {
			return err
		}
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%q", k, labels[k])
	}
	return "{" + strings.Join(pairs, ",") + "}"
}
