package diary

import (
	"fmt"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/spf13/cobra"
)

var (
	story      commands.SetDayStoryCommand
	clearStory bool
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Tell the story of the day",
	Long: `Record how the day started, what mattered most and how it is closing.
--significant is required unless --clear is given.

Examples:
  daylog diary story --significant "Shipped the release" --closing "Tired but happy"
  daylog diary story --clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		command := story
		if clearStory {
			command = commands.SetDayStoryCommand{}
		}
		if err := app.JournalHandler.SetDayStory(cmd.Context(), command); err != nil {
			return fmt.Errorf("failed to save story: %w", err)
		}
		if clearStory {
			fmt.Fprintln(cmd.OutOrStdout(), "Story cleared")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Story saved")
		return nil
	},
}

func init() {
	storyCmd.Flags().StringVar(&story.HowStarted, "started", "", "how the day started")
	storyCmd.Flags().StringVar(&story.MostSignificant, "significant", "", "the most significant moment")
	storyCmd.Flags().StringVar(&story.HowClosing, "closing", "", "how the day is closing")
	storyCmd.Flags().BoolVar(&clearStory, "clear", false, "remove the story")
}
