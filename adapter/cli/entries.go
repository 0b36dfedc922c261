package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries [date]",
	Short: "List saved entries or show one day",
	Long: `List every saved day, newest first. Entries stored only on the remote
are included when a profile email is set.

Examples:
  daylog entries
  daylog entries 2024-03-10`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			date, err := ParseDate(args[0], "")
			if err != nil {
				return err
			}
			entry, err := app.EntryReader.GetEntry(cmd.Context(), date)
			if err != nil {
				return fmt.Errorf("failed to load entry: %w", err)
			}
			if jsonOutput {
				return PrintJSON(out, entry)
			}
			PrintEntry(out, *entry)
			return nil
		}

		entries, err := app.EntryReader.ListEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		if jsonOutput {
			return PrintJSON(out, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No entries yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "  %s  %8s  %d activities  %d tasks\n",
				e.Date, FormatMinutes(e.TotalMinutes), len(e.Activities), len(e.Tasks))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
}
