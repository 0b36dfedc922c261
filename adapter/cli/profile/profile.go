package profile

import (
	"fmt"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/felixgeelhaar/daylog/internal/journal/application/commands"
	"github.com/spf13/cobra"
)

// Cmd is the profile command group
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your name and email",
	Long: `Your email identifies you on the remote store. Without one, daylog
keeps everything on this device.`,
}

var (
	name  string
	email string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set your name and email",
	Long: `Set the profile. Existing values are kept for omitted flags.

Examples:
  daylog profile set --name Ada --email ada@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		current, err := app.GetStatusHandler.Handle(cmd.Context())
		if err != nil {
			return err
		}
		command := commands.UpdateProfileCommand{Name: current.Profile.Name, Email: current.Profile.Email}
		if cmd.Flags().Changed("name") {
			command.Name = name
		}
		if cmd.Flags().Changed("email") {
			command.Email = email
		}

		result, err := app.UpdateProfileHandler.Handle(cmd.Context(), command)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "Profile saved: %s <%s>\n", result.Profile.Name, result.Profile.Email)
		if current.RemoteEnabled && !result.Mirrored {
			fmt.Fprintln(out, "Saved locally; the remote was not updated.")
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		status, err := app.GetStatusHandler.Handle(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, status.Profile)
		}
		if status.Profile.Name == "" && status.Profile.Email == "" {
			fmt.Fprintln(out, "No profile set.")
			return nil
		}
		fmt.Fprintf(out, "Name:  %s\n", status.Profile.Name)
		fmt.Fprintf(out, "Email: %s\n", status.Profile.Email)
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&name, "name", "", "display name")
	setCmd.Flags().StringVar(&email, "email", "", "email used as your remote identity")
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(showCmd)
}
