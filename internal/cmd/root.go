package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aalemi-dev/anomaly-lab/config"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	envFile      string
	envLocalFile string

	cfg *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "anomalyd",
		Short: "Operational metrics and anomaly detection tools",
		Long: `anomalyd scrapes operational metrics, exports them through Prometheus
and OpenTelemetry and flags outliers with a z-score or the Nixtla
anomaly detection API.

Configuration comes from the environment, optionally seeded from .env and
.env.local files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(opts.envFile, opts.envLocalFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded without overriding the environment")
	root.PersistentFlags().StringVar(&opts.envLocalFile, "env-local-file", ".env.local", "dotenv file that overrides the environment")

	root.AddCommand(
		newMonitorCommand(opts),
		newDashboardCommand(opts),
		newVibrationCommand(opts),
		newQueryCommand(opts),
		newBatchCommand(opts),
		newSentryCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}
