package commands

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Lists every source with its last refresh and cache state.",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, closeStore, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		statuses, err := service.Status(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Source", "Last refresh", "Age", "Stale", "Cached"})
		for _, s := range statuses {
			lastRefresh := "never"
			age := "-"
			if s.LastRefreshed != nil {
				lastRefresh = s.LastRefreshed.Format(time.RFC3339)
				age = s.Age.Truncate(time.Second).String()
			}
			t.AppendRow(table.Row{s.ID, lastRefresh, age, s.Stale, s.Cached})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
