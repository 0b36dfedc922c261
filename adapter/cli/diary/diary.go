package diary

import (
	"github.com/spf13/cobra"
)

// Cmd is the diary command group
var Cmd = &cobra.Command{
	Use:   "diary",
	Short: "Write about your day",
	Long: `Write the free-text parts of today's entry: a diary note, the day's
intention, a morning check-in, the story of the day and an evening reflection.`,
}

func init() {
	Cmd.AddCommand(noteCmd)
	Cmd.AddCommand(intentionCmd)
	Cmd.AddCommand(checkinCmd)
	Cmd.AddCommand(storyCmd)
	Cmd.AddCommand(reflectCmd)
}
