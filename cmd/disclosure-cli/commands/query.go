package commands

import (
	"errors"
	"fmt"
	"fulldisclosure-backend/services/disclosure"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var queryFlags struct {
	category  string
	startYear int
	endYear   int
	query     string
	skip      int
	top       int
}

func init() {
	flags := queryCmd.Flags()
	flags.StringVar(&queryFlags.category, "category", "", "The bids-and-awards category to list.")
	flags.IntVar(&queryFlags.startYear, "start-year", disclosure.MinYear, "First year to include.")
	flags.IntVar(&queryFlags.endYear, "end-year", 0, "Last year to include, defaults to the current year.")
	flags.StringVar(&queryFlags.query, "query", "", "Case-insensitive title filter.")
	flags.IntVar(&queryFlags.skip, "skip", 0, "Number of results to skip.")
	flags.IntVar(&queryFlags.top, "top", disclosure.DefaultTop, "Maximum number of results.")
	rootCmd.AddCommand(queryCmd)
}

// changedInt is nil unless the flag was given on the command line.
func changedInt(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

var queryCmd = &cobra.Command{
	Use:   "query <source> [--category c] [--start-year y] [--end-year y] [--query q] [--skip n] [--top n]",
	Short: "Lists the documents of a source the same way the HTTP API does.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		service, closeStore, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		skip := changedInt(cmd, "skip", queryFlags.skip)
		top := changedInt(cmd, "top", queryFlags.top)

		var res disclosure.ListResponse
		if args[0] == disclosure.SourceBidsAndAwards {
			if queryFlags.category == "" {
				return fmt.Errorf("--category is required for %s", disclosure.SourceBidsAndAwards)
			}
			res, err = service.BidsAndAwards(ctx, disclosure.BidsAndAwardsRequest{
				Category: queryFlags.category,
				Query:    queryFlags.query,
				Skip:     skip,
				Top:      top,
			})
		} else {
			res, err = service.Documents(ctx, disclosure.DocumentsRequest{
				Path:      args[0],
				StartYear: changedInt(cmd, "start-year", queryFlags.startYear),
				EndYear:   changedInt(cmd, "end-year", queryFlags.endYear),
				Query:     queryFlags.query,
				Skip:      skip,
				Top:       top,
			})
		}
		if err != nil {
			return errors.New(disclosure.ErrorDetail(err))
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Year", "Title", "Views", "Link"})
		for _, doc := range res.Results {
			year := ""
			if doc.Year != 0 {
				year = fmt.Sprint(doc.Year)
			}
			views := ""
			if doc.Views != nil {
				views = *doc.Views
			}
			t.AppendRow(table.Row{year, doc.Title, views, doc.Link})
		}
		t.AppendFooter(table.Row{
			"", fmt.Sprintf("%d of %d (skip %d)", res.ReturnedResults, res.NumResults, res.Skip), "", "",
		})
		t.SetStyle(table.StyleRounded)
		t.Render()

		if res.LastUpdated != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "last updated %s\n", *res.LastUpdated)
		}
		return nil
	},
}
