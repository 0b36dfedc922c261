package diary

import (
	"fmt"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/spf13/cobra"
)

var checkin commands.RecordCheckInCommand

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record the morning check-in",
	Long: `Record how you feel before the day starts. Only --feeling is required.

Examples:
  daylog diary checkin --feeling "Rested" --goal "Finish the draft"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.JournalHandler.RecordCheckIn(cmd.Context(), checkin); err != nil {
			return fmt.Errorf("failed to record check-in: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Check-in recorded")
		return nil
	},
}

func init() {
	f := checkinCmd.Flags()
	f.StringVar(&checkin.Feeling, "feeling", "", "how you feel right now")
	f.StringVar(&checkin.MentalNoise, "noise", "", "what is on your mind")
	f.StringVar(&checkin.NeedsToday, "needs", "", "what you need today")
	f.StringVar(&checkin.CurrentGoal, "goal", "", "your current goal")
	f.StringVar(&checkin.FutureVision, "vision", "", "where you are heading")
	f.StringVar(&checkin.MainObstacle, "obstacle", "", "what stands in the way")
	f.StringVar(&checkin.ShareThoughts, "thoughts", "", "anything else to share")
	f.StringVar(&checkin.ActionIntention, "action", "", "one action you will take")
	_ = checkinCmd.MarkFlagRequired("feeling")
}
