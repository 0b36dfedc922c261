package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/daylog/internal/journal/application/queries"
	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:       "history activities|time",
	Short:     "Show the activity or time log",
	ValidArgs: []string{"activities", "time"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		kind := domain.HistoryActivity
		if args[0] == "time" {
			kind = domain.HistoryTime
		}
		summary := app.GetHistoryHandler.Handle(queries.GetHistoryQuery{Kind: kind, Days: historyDays})

		out := cmd.OutOrStdout()
		if jsonOutput {
			return PrintJSON(out, summary)
		}

		fmt.Fprintf(out, "\n  %s history, last %d days (%s)\n", strings.ToUpper(args[0][:1])+args[0][1:], historyDays, FormatMinutes(summary.TotalMinutes))
		fmt.Fprintln(out, strings.Repeat("=", 60))
		if len(summary.Entries) == 0 {
			fmt.Fprintln(out, "  Nothing logged.")
			return nil
		}
		for _, e := range summary.Entries {
			label := e.ActivityLabel
			if label == "" {
				label = string(e.ActivityIcon)
			}
			fmt.Fprintf(out, "  %s  %s  %-10s %-24s %8s\n",
				e.Date, e.Timestamp.Format("15:04"), e.ActivityIcon, label, FormatMinutes(e.Duration))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", queries.DefaultHistoryDays, "number of days to include")
	rootCmd.AddCommand(historyCmd)
}
