package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	Long: `Sign out of the portal. The persisted token and user record are
removed; no network call is made. Logging out while already signed out
is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		wasAuthenticated := a.manager.Current().Authenticated()
		a.manager.Logout()

		if wasAuthenticated {
			a.view.Success("Logged out")
		} else {
			a.view.Info("Not logged in.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
