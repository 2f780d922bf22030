package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/dashboard"
	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/metrics"
	"github.com/aalemi-dev/anomaly-lab/monitor"
	"github.com/aalemi-dev/anomaly-lab/source"
)

func newMonitorCommand(opts *rootOptions) *cobra.Command {
	var withDashboard bool

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Scrape CPU and memory utilization and flag anomalies",
		Long: `Scrape the configured source every MONITOR_INTERVAL, keep a sliding window
per metric and score the latest sample with the configured detector.
Verdicts are logged and exported as Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.ValidateMonitor(); err != nil {
				return err
			}

			modules := []fx.Option{
				baseModules(cfg),
				metrics.FXModule,
				source.FXModule,
				detector.FXModule,
				monitor.FXModule,
			}
			if withDashboard {
				cfg.Dashboard.DataDir = cfg.Monitor.ExportDir
				cfg.Monitor.ExportCSV = true
				modules = append(modules, dashboard.FXModule)
			}

			return runApp(cmd.Context(), fx.New(modules...))
		},
	}

	cmd.Flags().BoolVar(&withDashboard, "dashboard", false, "also serve the dashboard on DASHBOARD_ADDRESS")
	return cmd
}
