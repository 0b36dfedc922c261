package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/daylog/internal/journal/application/queries"
)

var (
	calendarFrom string
	calendarTo   string
)

// heatCells renders levels 0..4.
var heatCells = []string{".", "-", "+", "*", "#"}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a heat map of logged time",
	Long: `Show one cell per day, shaded by the time logged that day:

  .  nothing   -  under 1h   +  under 3h   *  under 6h   #  6h or more

Examples:
  daylog calendar                                  # Last 12 weeks
  daylog calendar --from 2024-01-01 --to 2024-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		today := app.Clock.Today()
		to, err := ParseDate(calendarTo, today)
		if err != nil {
			return err
		}
		from, err := ParseDate(calendarFrom, to.AddDays(-83))
		if err != nil {
			return err
		}

		days, err := app.GetHeatmapHandler.Handle(cmd.Context(), queries.GetHeatmapQuery{From: from, To: to})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return PrintJSON(out, days)
		}

		fmt.Fprintf(out, "\n  %s to %s\n", from, to)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		for start := 0; start < len(days); start += 7 {
			end := min(start+7, len(days))
			var row strings.Builder
			for _, d := range days[start:end] {
				row.WriteString(heatCells[d.Level])
				row.WriteByte(' ')
			}
			fmt.Fprintf(out, "  %s  %s\n", days[start].Date, row.String())
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringVar(&calendarFrom, "from", "", "first day (YYYY-MM-DD)")
	calendarCmd.Flags().StringVar(&calendarTo, "to", "", "last day (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(calendarCmd)
}
