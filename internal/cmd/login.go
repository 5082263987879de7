package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/errors"
	"github.com/caresync/caresync/internal/session"
	"github.com/caresync/caresync/internal/tui"
	"github.com/caresync/caresync/internal/validate"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the portal",
	Long: `Sign in to the CareSync portal with your email and password.

Without flags an interactive form collects the credentials. When the
account has multi-factor authentication enabled, a verification code is
asked for before the session is established.

Examples:
  caresync login
  caresync login --email user@example.com --role client
  caresync login --email doc@example.com --password secret123 --role doctor --code 123456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")
		code, _ := cmd.Flags().GetString("code")

		input := tui.LoginInput{Email: email, Password: password, Role: api.Role(role)}

		if email == "" || password == "" {
			if !tui.IsInteractive() {
				return errors.New(errors.ErrCodeInputRequired, "--email and --password are required when not running interactively")
			}
			input, err = tui.RunLoginForm(input)
			if err != nil {
				return err
			}
		} else {
			if err := validate.Email(input.Email); err != nil {
				return err
			}
			if err := validate.Password(input.Password); err != nil {
				return err
			}
			if err := validate.Role(string(input.Role)); err != nil {
				return err
			}
		}

		s, err := a.manager.Login(cmd.Context(), input.Email, input.Password, input.Role)
		if err != nil {
			return err
		}

		if s.MFAPending() {
			s, err = completeMFA(cmd, a, code)
			if err != nil {
				return err
			}
		}

		a.view.Success(fmt.Sprintf("Logged in as %s (%s)", s.User.DisplayName(), s.User.Role))
		return nil
	},
}

// completeMFA finishes a pending challenge, prompting for a code when
// one was not supplied.
func completeMFA(cmd *cobra.Command, a *app, code string) (session.Session, error) {
	if code == "" {
		if !tui.IsInteractive() {
			return session.Session{}, errors.New(errors.ErrCodeAuthMFARequired,
				"this account requires a verification code").
				WithSuggestion("Re-run with --code from your authenticator app")
		}
		var err error
		code, err = tui.RunMFAForm()
		if err != nil {
			return session.Session{}, err
		}
	}
	return a.manager.VerifyMFA(cmd.Context(), code)
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	loginCmd.Flags().String("role", "client", "account type (doctor or client)")
	loginCmd.Flags().String("code", "", "6-digit verification code, if MFA is enabled")
	rootCmd.AddCommand(loginCmd)
}
