package main

import (
	"context"
	"fulldisclosure-backend/lib/restyutil"
	"fulldisclosure-backend/lib/serviceutil"
	"fulldisclosure-backend/lib/telemetry"
	"log/slog"
)

func InitTelemetry(ctx context.Context, cfg telemetry.Config, verbose bool) (shutdown func()) {
	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	t, err := telemetry.Setup(ctx, "disclosure-server", cfg)
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	return func() {
		err := t.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}
}

// restyOutput dumps upstream requests under dev/.state when verbose.
func restyOutput(verbose bool) restyutil.InstrumentOutput {
	if !verbose {
		return nil
	}
	output, err := restyutil.NewFilesystemOutput("<dev_state>/resty/disclosure")
	if err != nil {
		slog.Warn("failed to create resty output directory", "err", err)
		return nil
	}
	return output
}
