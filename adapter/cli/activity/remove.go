package activity

import (
	"fmt"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove an activity from today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		if err := app.RemoveActivityHandler.Handle(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove activity: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Activity removed: %s\n", id)
		return nil
	},
}
