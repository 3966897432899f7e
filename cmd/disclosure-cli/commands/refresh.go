package commands

import (
	"fmt"
	"fulldisclosure-backend/services/disclosure"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var refreshForce bool

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "Refresh even if the cached page is still fresh.")
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [source...] [--force]",
	Short: "Refreshes the cached page of the given sources, or all of them.",
	Args: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			if !slices.Contains(disclosure.SourceIDs(), id) {
				return fmt.Errorf(
					"unknown source %q, valid sources: %s",
					id, strings.Join(disclosure.SourceIDs(), ", "),
				)
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		service, closeStore, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		sources := args
		if len(sources) == 0 {
			sources = disclosure.SourceIDs()
		}

		var failed []string
		for _, id := range sources {
			refreshed := true
			if refreshForce {
				_, err = service.Refresher().Refresh(ctx, id)
			} else {
				refreshed, err = service.Refresher().RefreshIfStale(ctx, id)
			}
			if err != nil {
				slog.Error("refresh failed", "source", id, "err", err)
				failed = append(failed, id)
				continue
			}
			if refreshed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: refreshed\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: still fresh\n", id)
			}
		}

		if len(failed) > 0 {
			return fmt.Errorf("failed to refresh: %s", strings.Join(failed, ", "))
		}
		return nil
	},
}
