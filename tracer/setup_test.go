package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/anomaly-lab/logger"
)

func TestNewClient_NoExport(t *testing.T) {
	client, err := NewClient(Config{ServiceName: "anomalyd", AppEnv: "test"})

	require.NoError(t, err)
	require.NotNil(t, client.tracer)
	assert.NoError(t, client.Shutdown(context.Background()))
}

func TestNewClient_EnableExport_NoCollector(t *testing.T) {
	// The OTLP HTTP exporter connects lazily, so construction succeeds without a collector.
	client, err := NewClient(Config{ServiceName: "anomalyd", EnableExport: true, Endpoint: "http://127.0.0.1:1"})

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClient_EnableExport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := newClientWithContext(ctx, Config{ServiceName: "anomalyd", EnableExport: true})

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to initialize OTLP exporter")
}

func TestShutdown_NilSafe(t *testing.T) {
	var client *TracerClient
	assert.NoError(t, client.Shutdown(context.Background()))
}

func TestFXModule_ProvidesTracer(t *testing.T) {
	var tr Tracer
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() Config { return Config{ServiceName: "fx-test"} },
			func() logger.Logger { return logger.NewNopLogger() },
		),
		fx.Populate(&tr),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, tr)
}
