package telemetry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestOtlpConnConfigEnabled(t *testing.T) {
	require.False(t, OtlpConnConfig{}.Enabled())
	require.True(t, OtlpConnConfig{GrpcEndpoint: "http://localhost:4317"}.Enabled())
	require.True(t, OtlpConnConfig{HttpEndpoint: "http://localhost:4318"}.Enabled())
}

func TestInitSlog(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	InitSlog(false)
	require.False(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	InitSlog(true)
	require.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}
