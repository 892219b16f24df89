package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/branding"
	"github.com/see-platform/seesync/internal/config"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check SEEweb credentials",
	Long: `Open a session on SEEweb with the configured credentials.

Credentials come from --user/--password, the ` + branding.EnvVar("user") + ` / ` + branding.EnvVar("pwd") + `
environment variables or the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.Current()
		if s.User == "" {
			return fmt.Errorf("no SEEweb user configured; use --user or '%s config set user <id>'", branding.CLIName())
		}
		if _, err := newClient(cmd.Context(), true); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", s.Root, s.User)
		return nil
	},
}
