package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		view := app.GetTodayHandler.Handle()
		out := cmd.OutOrStdout()
		if jsonOutput {
			return PrintJSON(out, view)
		}

		PrintEntry(out, view.Entry)
		fmt.Fprintf(out, "  Capacity left: %s\n", FormatMinutes(view.CapacityLeft))
		if !view.CheckedIn {
			fmt.Fprintln(out, "  No check-in yet. Try: daylog diary checkin --feeling ...")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
}
