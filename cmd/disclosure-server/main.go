package main

import (
	"context"
	"errors"
	"flag"
	"fulldisclosure-backend/lib/configutil"
	"fulldisclosure-backend/lib/serviceutil"
	"fulldisclosure-backend/lib/telemetry"
	"fulldisclosure-backend/services/disclosure"
	"log/slog"
	"os"
)

type Config struct {
	Listen     string            `json:"listen"`
	Telemetry  telemetry.Config  `json:"telemetry"`
	Disclosure disclosure.Config `json:"disclosure"`
}

func defaultConfig() Config {
	return Config{
		Listen:     ":8000",
		Disclosure: disclosure.DefaultConfig(),
	}
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	warm := flag.Bool("warm", false, "Refresh every stale source before serving.")
	configPath := flag.String("config", "config.json5", "Path to the config file.")
	flag.Parse()

	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(*verbose)

	cfg, err := configutil.ReadConfig(*configPath, defaultConfig())
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no config file found, using defaults", "path", *configPath)
	} else if err != nil {
		serviceutil.Fatal("read config", err)
	}

	shutdown := InitTelemetry(ctx, cfg.Telemetry, *verbose)
	defer shutdown()

	service, closeStore, err := disclosure.Open(ctx, cfg.Disclosure, restyOutput(*verbose))
	if err != nil {
		serviceutil.Fatal("init disclosure service", err)
	}
	defer closeStore()

	if *warm {
		warmCache(ctx, service)
	}

	err = serviceutil.StartHttpServer(ctx, cfg.Listen, service.Handler())
	if err != nil {
		serviceutil.Fatal("serve http", err)
	}
}

// warmCache refreshes every stale source once, failures are logged and left
// for the next request to retry.
func warmCache(ctx context.Context, service disclosure.Service) {
	for _, id := range disclosure.SourceIDs() {
		refreshed, err := service.Refresher().RefreshIfStale(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "failed to warm source", "source", id, "err", err)
			continue
		}
		slog.InfoContext(ctx, "warmed source", "source", id, "refreshed", refreshed)
	}
}
