package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/daylog/internal/journal/application/queries"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the local cache and remote store",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if app.Health == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}

		results := app.Health.Check(cmd.Context(), queries.DefaultHealthTimeout)
		overall := observability.Overall(results)
		if jsonOutput {
			if err := PrintJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
		} else {
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s %s\n", r.Name, r.Status, r.Message)
			}
		}
		if overall == observability.HealthStatusUnhealthy {
			return errors.New("local cache unavailable")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
