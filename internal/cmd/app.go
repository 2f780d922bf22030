package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/aalemi-dev/anomaly-lab/config"
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/tracer"
)

// baseModules are part of every application: configuration, logging and
// tracing. fx events are logged at debug level.
func baseModules(cfg *config.Config) fx.Option {
	return fx.Options(
		config.FXModule(cfg),
		logger.FXModule,
		tracer.FXModule,
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: l.Zap.Named("fx")}
			zl.UseLogLevel(zapcore.DebugLevel)
			return zl
		}),
	)
}

// runApp starts app, blocks until ctx is done or a module shuts the app down
// and stops it. A non-zero exit code is returned as an error.
func runApp(ctx context.Context, app *fx.App) error {
	if err := app.Err(); err != nil {
		return err
	}
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	var exitErr error
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		if sig.ExitCode != 0 {
			exitErr = fmt.Errorf("application shut down with exit code %d", sig.ExitCode)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return errors.Join(exitErr, app.Stop(stopCtx))
}

// runOnce starts app, calls fn and stops app whatever fn returns.
func runOnce(ctx context.Context, app *fx.App, fn func(ctx context.Context) error) (err error) {
	if err := app.Err(); err != nil {
		return err
	}
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		if stopErr := app.Stop(stopCtx); err == nil {
			err = stopErr
		}
	}()
	return fn(ctx)
}
