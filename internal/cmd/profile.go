package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/errors"
	"github.com/caresync/caresync/internal/validate"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your account profile",
	Long: `Show and update your account profile.

Examples:
  caresync profile show
  caresync profile update --phone +33612345678 --city Lyon
  caresync profile password
  caresync profile price --amount 60 --currency EUR`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		return a.emit(cmd, s.User, func() {
			a.view.Profile(s.User)
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if cmd.Flags().Changed("phone") {
			phone, _ := cmd.Flags().GetString("phone")
			if err := validate.Phone(phone); err != nil {
				return err
			}
			updates["telephone"] = phone
		}
		if cmd.Flags().Changed("city") {
			city, _ := cmd.Flags().GetString("city")
			updates["ville"] = city
		}
		if cmd.Flags().Changed("email") {
			email, _ := cmd.Flags().GetString("email")
			if err := validate.Email(email); err != nil {
				return err
			}
			updates["email"] = email
		}
		if len(updates) == 0 {
			return fmt.Errorf("nothing to update; pass --phone, --city, or --email")
		}

		if _, err := a.client.UpdateProfile(cmd.Context(), s.User.Role, s.User.ID, updates); err != nil {
			return err
		}

		// The stored record is refreshed from the canonical profile.
		user, err := a.manager.RefreshUser(cmd.Context())
		if err != nil {
			return err
		}

		return a.emit(cmd, user, func() {
			a.view.Success("Profile updated")
			a.view.Profile(user)
		})
	},
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		current, _ := cmd.Flags().GetString("current")
		newPassword, _ := cmd.Flags().GetString("new")
		if current == "" || newPassword == "" {
			return fmt.Errorf("--current and --new are required")
		}
		if err := validate.Password(newPassword); err != nil {
			return err
		}

		if err := a.client.ChangePassword(cmd.Context(), s.User.Role, s.User.ID, current, newPassword); err != nil {
			return err
		}

		a.view.Success("Password changed")
		return nil
	},
}

var profilePriceCmd = &cobra.Command{
	Use:   "price",
	Short: "Set your consultation price (doctors only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}
		if s.User.Role != api.RoleDoctor {
			return errors.New(errors.ErrCodeAuthUnauthorized, "only doctors have a consultation price")
		}

		amount, _ := cmd.Flags().GetFloat64("amount")
		currency, _ := cmd.Flags().GetString("currency")
		if amount <= 0 {
			return fmt.Errorf("--amount must be positive")
		}

		if err := a.client.UpdateDoctorPrice(cmd.Context(), s.User.ID, amount, currency); err != nil {
			return err
		}

		a.view.Success(fmt.Sprintf("Consultation price set to %.2f %s", amount, currency))
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().String("phone", "", "phone number")
	profileUpdateCmd.Flags().String("city", "", "city")
	profileUpdateCmd.Flags().String("email", "", "email address")
	profilePasswordCmd.Flags().String("current", "", "current password")
	profilePasswordCmd.Flags().String("new", "", "new password (minimum 8 characters)")
	profilePriceCmd.Flags().Float64("amount", 0, "price per consultation")
	profilePriceCmd.Flags().String("currency", "EUR", "ISO currency code")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profilePasswordCmd)
	profileCmd.AddCommand(profilePriceCmd)
	rootCmd.AddCommand(profileCmd)
}
