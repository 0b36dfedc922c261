package diary

import (
	"fmt"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/spf13/cobra"
)

var reflection commands.SetReflectionCommand

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Write the evening reflection",
	Long: `Rate the day from 1 to 5, pick a mood and note the highlights.

Moods: happy, calm, excited, neutral, tired, sad, anxious, angry.

Examples:
  daylog diary reflect --mood happy --rating 4 --highlights "Long walk with Sam"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.JournalHandler.SetReflection(cmd.Context(), reflection); err != nil {
			return fmt.Errorf("failed to save reflection: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Reflection saved")
		return nil
	},
}

func init() {
	reflectCmd.Flags().StringVar(&reflection.Mood, "mood", "", "mood of the day")
	reflectCmd.Flags().IntVar(&reflection.Rating, "rating", 0, "day rating 1-5 (0 for none)")
	reflectCmd.Flags().StringVar(&reflection.Highlights, "highlights", "", "highlights of the day")
}
