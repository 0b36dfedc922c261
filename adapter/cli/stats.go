package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/daylog/internal/journal/application/queries"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journaling statistics",
	Long: `Display a summary of recent days including:
- Days logged and the current streak
- Time logged per category
- Average day rating and moods
- Task completion rate

Examples:
  daylog stats             # Last 30 days
  daylog stats --days 7    # Last week`,
	Aliases: []string{"dashboard"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		result, err := app.GetDashboardHandler.Handle(cmd.Context(), queries.GetDashboardQuery{Days: statsDays})
		if err != nil {
			return fmt.Errorf("failed to build stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return PrintJSON(out, result)
		}

		fmt.Fprintf(out, "\n  Journal Stats (%s to %s)\n", result.From, result.To)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "  Days logged:     %d\n", result.DaysLogged)
		fmt.Fprintf(out, "  Current streak:  %d days\n", result.CurrentStreak)
		fmt.Fprintf(out, "  Time logged:     %s (avg %s per logged day)\n",
			FormatMinutes(result.TotalMinutes), FormatMinutes(int(result.AverageMinutes)))

		if len(result.TopIcons) > 0 {
			fmt.Fprintln(out, "\n  TIME BY CATEGORY")
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, icon := range result.TopIcons {
				fmt.Fprintf(out, "  %-10s %8s  %s\n", icon.Icon, FormatMinutes(icon.Minutes), bar(icon.Minutes, result.TotalMinutes, 30))
			}
		}

		if result.RatedDays > 0 || len(result.Moods) > 0 {
			fmt.Fprintln(out, "\n  WELLBEING")
			fmt.Fprintln(out, strings.Repeat("-", 60))
			if result.RatedDays > 0 {
				fmt.Fprintf(out, "  Average rating:  %.1f/5 over %d days\n", result.AverageDayRating, result.RatedDays)
			}
			for _, mood := range slices.Sorted(maps.Keys(result.Moods)) {
				fmt.Fprintf(out, "  %-10s %d\n", mood, result.Moods[mood])
			}
		}

		if result.TasksTotal > 0 {
			fmt.Fprintln(out, "\n  TASKS")
			fmt.Fprintln(out, strings.Repeat("-", 60))
			fmt.Fprintf(out, "  Completed:       %d/%d (%.0f%%)\n",
				result.TasksCompleted, result.TasksTotal, result.TaskCompletionRate*100)
		}

		fmt.Fprintln(out)
		return nil
	},
}

// bar renders part/total as a row of at most width blocks.
func bar(part, total, width int) string {
	if total <= 0 || part <= 0 {
		return ""
	}
	n := part * width / total
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", queries.DefaultDashboardDays, "number of days to include")
	rootCmd.AddCommand(statsCmd)
}
