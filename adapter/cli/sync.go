package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/daylog/internal/journal/application/services"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Save now and retry anything the remote missed",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		result, err := app.SyncNowHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return PrintJSON(out, result)
		}

		fmt.Fprintln(out, "Saved locally.")
		if result.HistoryPushed > 0 {
			fmt.Fprintf(out, "Re-sent %d history entries.\n", result.HistoryPushed)
		}
		if result.HistoryError != "" {
			fmt.Fprintf(out, "History re-send stopped: %s\n", result.HistoryError)
		}
		printSyncState(out, result.State)
		return nil
	},
}

func printSyncState(out io.Writer, s services.SyncState) {
	fmt.Fprintf(out, "  Last local save:  %s\n", formatTime(s.LastLocalSave))
	fmt.Fprintf(out, "  Last remote sync: %s\n", formatTime(s.LastRemoteSync))
	if s.Pending {
		fmt.Fprintln(out, "  Remote sync pending")
	}
	if s.LastError != "" {
		fmt.Fprintf(out, "  Last remote error: %s\n", s.LastError)
	}
	if s.LastLocalError != "" {
		fmt.Fprintf(out, "  Last local error:  %s\n", s.LastLocalError)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
