package task

import (
	"fmt"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle [id]",
	Short:   "Mark a task done, or open again",
	Aliases: []string{"done"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		task, err := app.TaskHandler.Toggle(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to toggle task: %w", err)
		}

		cli.PrintTask(cmd.OutOrStdout(), task)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a task from today",
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
		if err := app.TaskHandler.Remove(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task removed: %s\n", id)
		return nil
	},
}
