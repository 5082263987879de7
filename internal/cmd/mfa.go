package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/tui"
	"github.com/caresync/caresync/internal/validate"
)

var mfaCmd = &cobra.Command{
	Use:   "mfa",
	Short: "Manage multi-factor authentication",
	Long: `Manage multi-factor authentication for your account.

Subcommands:
  verify   Complete a pending verification after login
  enable   Turn on MFA and show the authenticator secret
  disable  Turn off MFA
  logs     Show the authentication audit trail

Examples:
  caresync mfa verify --code 123456
  caresync mfa enable
  caresync mfa disable --code 123456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var mfaVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Complete a pending verification",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		code, _ := cmd.Flags().GetString("code")
		s, err := completeMFA(cmd, a, code)
		if err != nil {
			return err
		}

		a.view.Success(fmt.Sprintf("Logged in as %s (%s)", s.User.DisplayName(), s.User.Role))
		return nil
	},
}

var mfaEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Turn on multi-factor authentication",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		enrollment, err := a.client.EnableMFA(cmd.Context())
		if err != nil {
			return err
		}

		return a.emit(cmd, enrollment, func() {
			a.view.Success("Multi-factor authentication enabled")
			a.view.Info("Add this secret to your authenticator app:")
			fmt.Fprintln(cmd.OutOrStdout(), enrollment.Secret)
			if enrollment.OTPAuthURL != "" {
				a.view.Info(enrollment.OTPAuthURL)
			}
		})
	},
}

var mfaDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn off multi-factor authentication",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		code, _ := cmd.Flags().GetString("code")
		if code == "" {
			if !tui.IsInteractive() {
				return fmt.Errorf("--code is required when not running interactively")
			}
			code, err = tui.RunMFAForm()
			if err != nil {
				return err
			}
		}
		if err := validate.MFACode(code); err != nil {
			return err
		}

		if err := a.client.DisableMFA(cmd.Context(), code); err != nil {
			return err
		}

		a.view.Success("Multi-factor authentication disabled")
		return nil
	},
}

var mfaLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the authentication audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		logs, err := a.client.AuthLogs(cmd.Context())
		if err != nil {
			return err
		}

		return a.emit(cmd, logs, func() {
			if len(logs) == 0 {
				a.view.Info("No authentication events.")
				return
			}
			for _, entry := range logs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %s\n", entry.CreatedAt, entry.Event, entry.IPAddress)
			}
		})
	},
}

func init() {
	mfaVerifyCmd.Flags().String("code", "", "6-digit verification code")
	mfaDisableCmd.Flags().String("code", "", "6-digit verification code")
	mfaCmd.AddCommand(mfaVerifyCmd)
	mfaCmd.AddCommand(mfaEnableCmd)
	mfaCmd.AddCommand(mfaDisableCmd)
	mfaCmd.AddCommand(mfaLogsCmd)
	rootCmd.AddCommand(mfaCmd)
}
