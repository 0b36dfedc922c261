package activity

import (
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/spf13/cobra"
)

var durationCmd = &cobra.Command{
	Use:   "duration [id] [minutes]",
	Short: "Change how long an activity took",
	Long: `Change the minutes of an activity. The change is also written to the
time log.

Examples:
  daylog activity duration 6f1c... 90`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid minutes %q: %w", args[1], err)
		}

		activity, err := app.UpdateActivityDurationHandler.Handle(cmd.Context(), commands.UpdateActivityDurationCommand{
			ActivityID: id,
			Duration:   minutes,
		})
		if err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Activity updated:")
		cli.PrintActivity(cmd.OutOrStdout(), activity)
		return nil
	},
}

var (
	facetUpdates []string
	facetNotes   string
)

var facetsCmd = &cobra.Command{
	Use:   "facets [id]",
	Short: "Replace an activity's facets and notes",
	Long: `Replace the facets and notes of an activity. Omitted facets are removed.

Examples:
  daylog activity facets 6f1c... --facet energy=4 --notes "Felt great"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		parsed, err := cli.ParseFacetFlags(facetUpdates)
		if err != nil {
			return err
		}

		activity, err := app.UpdateActivityFacetsHandler.Handle(cmd.Context(), commands.UpdateActivityFacetsCommand{
			ActivityID: id,
			Facets:     parsed,
			Notes:      facetNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Activity updated:")
		cli.PrintActivity(cmd.OutOrStdout(), activity)
		return nil
	},
}

func init() {
	facetsCmd.Flags().StringArrayVar(&facetUpdates, "facet", nil, "facet as key=value (repeatable)")
	facetsCmd.Flags().StringVar(&facetNotes, "notes", "", "short notes")
}
