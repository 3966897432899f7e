package commands

import (
	"context"
	"errors"
	"fmt"
	"fulldisclosure-backend/lib/configutil"
	"fulldisclosure-backend/lib/restyutil"
	"fulldisclosure-backend/lib/telemetry"
	"fulldisclosure-backend/services/disclosure"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type Config struct {
	Disclosure disclosure.Config `json:"disclosure"`
}

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "disclosure-cli",
	Short: "disclosure-cli inspects and refreshes the full disclosure page cache.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "Path to the config file shared with disclosure-server.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and request dumps.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService reads the config file and opens the service it describes.
func openService(ctx context.Context) (disclosure.Service, func() error, error) {
	cfg, err := configutil.ReadConfig(configPath, Config{Disclosure: disclosure.DefaultConfig()})
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "path", configPath)
	} else if err != nil {
		return disclosure.Service{}, nil, fmt.Errorf("read config: %w", err)
	}

	var output restyutil.InstrumentOutput
	if verbose {
		fsOutput, err := restyutil.NewFilesystemOutput("<dev_state>/resty/disclosure-cli")
		if err != nil {
			return disclosure.Service{}, nil, err
		}
		output = fsOutput
	}
	return disclosure.Open(ctx, cfg.Disclosure, output)
}
