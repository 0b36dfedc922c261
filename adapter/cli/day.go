package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Manage the day boundary",
}

var dayCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Start a fresh entry if the calendar day changed",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		reset, err := app.DayHandler.Check(cmd.Context())
		if err != nil {
			return err
		}
		if reset {
			fmt.Fprintf(cmd.OutOrStdout(), "New day: started a fresh entry for %s\n", app.Clock.Today())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Still %s, nothing to do\n", app.Clock.Today())
		return nil
	},
}

var dayResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace today's entry with an empty one",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if err := app.DayHandler.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset entry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entry for %s reset\n", app.Clock.Today())
		return nil
	},
}

func init() {
	dayCmd.AddCommand(dayCheckCmd)
	dayCmd.AddCommand(dayResetCmd)
	rootCmd.AddCommand(dayCmd)
}
