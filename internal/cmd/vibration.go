package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aalemi-dev/anomaly-lab/vibration"
)

func newVibrationCommand(opts *rootOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "vibration",
		Short: "Export simulated machine vibration readings",
		Long: `Simulate vibration acceleration for VIBRATION_MACHINES and export it
every VIBRATION_INTERVAL, either on a Prometheus endpoint (modes
"prometheus" and "otel-prometheus") or to an OTLP collector ("otlp").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if mode != "" {
				cfg.Vibration.Mode = mode
			}
			return runApp(cmd.Context(), fx.New(
				baseModules(cfg),
				vibration.FXModule,
			))
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "prometheus, otel-prometheus or otlp (default VIBRATION_MODE)")
	return cmd
}
