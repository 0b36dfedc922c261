package activity

import (
	"fmt"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/spf13/cobra"
)

var (
	icon     string
	label    string
	duration int
	color    string
	facets   []string
	notes    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an activity to today",
	Long: `Add an activity with a category icon and the minutes spent on it.

Icons: work, study, exercise, social, creative, rest, chores, selfcare, other.
Facets are key=value pairs: a 1-5 rating or true/false.

Examples:
  daylog activity add --icon exercise --label Run --duration 45
  daylog activity add -i work -d 120 --facet energy=2 --facet focus=4
  daylog activity add -i social -d 60 --facet outdoors=true --notes "Picnic"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		parsed, err := cli.ParseFacetFlags(facets)
		if err != nil {
			return err
		}

		activity, err := app.AddActivityHandler.Handle(cmd.Context(), commands.AddActivityCommand{
			Icon:     icon,
			Label:    label,
			Duration: duration,
			Color:    color,
			Facets:   parsed,
			Notes:    notes,
		})
		if err != nil {
			return fmt.Errorf("failed to add activity: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, activity)
		}
		fmt.Fprintf(out, "Activity added: %s\n", activity.ID)
		cli.PrintActivity(out, activity)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&icon, "icon", "i", "", "category icon")
	addCmd.Flags().StringVarP(&label, "label", "l", "", "short label")
	addCmd.Flags().IntVarP(&duration, "duration", "d", 0, "minutes spent")
	addCmd.Flags().StringVar(&color, "color", "", "display color")
	addCmd.Flags().StringArrayVar(&facets, "facet", nil, "facet as key=value (repeatable)")
	addCmd.Flags().StringVar(&notes, "notes", "", "short notes")
	_ = addCmd.MarkFlagRequired("icon")
	_ = addCmd.MarkFlagRequired("duration")
}
