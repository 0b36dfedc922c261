package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task to today",
	Long: `Add a task of up to 100 characters.

Examples:
  daylog task add "Call the plumber"
  daylog task add Buy bread`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		task, err := app.TaskHandler.Add(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, task)
		}
		fmt.Fprintf(out, "Task added: %s\n", task.ID)
		return nil
	},
}
