package activity

import (
	"github.com/spf13/cobra"
)

// Cmd is the activity command group
var Cmd = &cobra.Command{
	Use:   "activity",
	Short: "Log what you did today",
	Long:  `Add, adjust and remove the activities of today's entry.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(durationCmd)
	Cmd.AddCommand(facetsCmd)
}
