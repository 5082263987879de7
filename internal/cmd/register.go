package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/errors"
	"github.com/caresync/caresync/internal/tui"
	"github.com/caresync/caresync/internal/validate"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a portal account",
	Long: `Create a CareSync account and sign in with it immediately.

Without flags an interactive form collects the details. Doctor accounts
additionally need a specialty.

Examples:
  caresync register
  caresync register --role client --name Pond --first-name Amy --email amy@example.com --password secret123
  caresync register --role doctor --name Who --email doc@example.com --password secret123 --specialty cardiology`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		roleFlag, _ := cmd.Flags().GetString("role")
		name, _ := cmd.Flags().GetString("name")
		firstName, _ := cmd.Flags().GetString("first-name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		phone, _ := cmd.Flags().GetString("phone")
		city, _ := cmd.Flags().GetString("city")
		specialty, _ := cmd.Flags().GetString("specialty")

		var data api.RegistrationData
		role := api.Role(roleFlag)

		if name == "" || email == "" || password == "" {
			if !tui.IsInteractive() {
				return errors.New(errors.ErrCodeInputRequired, "--name, --email and --password are required when not running interactively")
			}
			data, role, err = tui.RunRegisterForm(role)
			if err != nil {
				return err
			}
		} else {
			if err := validate.Role(string(role)); err != nil {
				return err
			}
			if err := validate.Email(email); err != nil {
				return err
			}
			if err := validate.Password(password); err != nil {
				return err
			}
			if err := validate.Phone(phone); err != nil {
				return err
			}
			if role == api.RoleDoctor {
				if err := validate.Required("specialty", specialty); err != nil {
					return err
				}
			}
			data = api.RegistrationData{
				Name:      name,
				FirstName: firstName,
				Email:     email,
				Password:  password,
				Phone:     phone,
				City:      city,
				Specialty: specialty,
			}
		}

		s, err := a.manager.Register(cmd.Context(), data, role)
		if err != nil {
			return err
		}

		a.view.Success(fmt.Sprintf("Welcome, %s. Your %s account is ready.", s.User.DisplayName(), s.User.Role))
		return nil
	},
}

func init() {
	registerCmd.Flags().String("role", "client", "account type (doctor or client)")
	registerCmd.Flags().String("name", "", "last name")
	registerCmd.Flags().String("first-name", "", "first name")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password (minimum 8 characters)")
	registerCmd.Flags().String("phone", "", "phone number")
	registerCmd.Flags().String("city", "", "city")
	registerCmd.Flags().String("specialty", "", "medical specialty (doctor accounts)")
	rootCmd.AddCommand(registerCmd)
}
