package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show profile, sync state and store health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		view, err := app.GetStatusHandler.Handle(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return PrintJSON(out, view)
		}

		fmt.Fprintln(out, "\n  daylog status")
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "  Today:        %s\n", view.Today)
		if view.LastActiveDate != "" {
			fmt.Fprintf(out, "  Last active:  %s\n", view.LastActiveDate)
		}
		if view.Profile.HasRemoteIdentity() {
			fmt.Fprintf(out, "  Profile:      %s <%s>\n", view.Profile.Name, view.Profile.Email)
		} else if view.Profile.Name != "" {
			fmt.Fprintf(out, "  Profile:      %s (local only)\n", view.Profile.Name)
		} else {
			fmt.Fprintln(out, "  Profile:      not set (local only)")
		}
		fmt.Fprintf(out, "  Remote:       %s\n", enabledString(view.RemoteEnabled))
		printSyncState(out, view.Sync)

		if len(view.Health) > 0 {
			fmt.Fprintf(out, "\n  HEALTH (%s)\n", view.Overall)
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, h := range view.Health {
				line := fmt.Sprintf("  %-14s %s", h.Name, h.Status)
				if h.Message != "" {
					line += "  " + h.Message
				}
				fmt.Fprintln(out, line)
			}
		}
		fmt.Fprintln(out)
		return nil
	},
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
