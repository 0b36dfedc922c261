package diary

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note [text]",
	Short: "Set the diary note",
	Long: `Set today's diary note, up to 1000 characters. Pass "" to clear it.

Examples:
  daylog diary note "Slow morning, productive afternoon."`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.JournalHandler.SetDiaryNote(cmd.Context(), strings.Join(args, " ")); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Diary note saved")
		return nil
	},
}

var intentionCmd = &cobra.Command{
	Use:   "intention [text]",
	Short: "Set the intention for the day",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.JournalHandler.SetDayIntention(cmd.Context(), strings.Join(args, " ")); err != nil {
			return fmt.Errorf("failed to save intention: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Intention saved")
		return nil
	},
}
