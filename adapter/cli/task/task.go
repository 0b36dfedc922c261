package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage today's tasks",
	Long:  `Add, tick off and remove the small tasks of today's entry.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(toggleCmd)
	Cmd.AddCommand(removeCmd)
}
