package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep running and roll the entry over at midnight",
	Long: `Run the day-boundary check on the configured schedule
(DAYLOG_BOUNDARY_SCHEDULE, default every minute) until interrupted.
When the calendar day changes, the entry is reset and saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if app.Watcher.RunOnce(ctx) {
			fmt.Fprintf(out, "New day: started a fresh entry for %s\n", app.Clock.Today())
		}
		if err := app.Watcher.Start(); err != nil {
			return err
		}
		defer app.Watcher.Stop()

		fmt.Fprintf(out, "Watching for the day boundary (today is %s). Press Ctrl+C to stop.\n", app.Clock.Today())
		<-ctx.Done()
		fmt.Fprintln(out, "Stopped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
