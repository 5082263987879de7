package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Long: `Fetch the canonical profile of the signed-in account from the portal
and show it. The stored user record is refreshed as a side effect; a
rejected token ends the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		user, err := a.manager.RefreshUser(cmd.Context())
		if err != nil {
			return err
		}

		return a.emit(cmd, user, func() {
			a.view.Profile(user)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state",
	Long: `Show the local session state without a network call: signed in,
waiting for a verification code, or signed out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		s := a.manager.Current()

		type status struct {
			State string `json:"state" yaml:"state"`
			User  string `json:"user,omitempty" yaml:"user,omitempty"`
			Role  string `json:"role,omitempty" yaml:"role,omitempty"`
		}

		st := status{State: "anonymous"}
		switch {
		case s.Authenticated():
			st = status{State: "authenticated", User: s.User.DisplayName(), Role: string(s.User.Role)}
		case s.MFAPending():
			st = status{State: "mfa-pending"}
		}

		return a.emit(cmd, st, func() {
			switch st.State {
			case "authenticated":
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", st.User, st.Role)
			case "mfa-pending":
				a.view.Info("A verification code is pending. Run 'caresync mfa verify'.")
			default:
				a.view.Info("Not signed in. Run 'caresync login'.")
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(statusCmd)
}
