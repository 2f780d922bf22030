package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/dashboard"
)

func newDashboardCommand(opts *rootOptions) *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the dashboard over previously exported CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if dataDir != "" {
				cfg.Dashboard.DataDir = dataDir
			}
			return runApp(cmd.Context(), fx.New(
				baseModules(cfg),
				dashboard.FXModule,
			))
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory with cpu_metrics.csv and memory_metrics.csv (default DASHBOARD_DATA_DIR)")
	return cmd
}
