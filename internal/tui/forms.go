// Package tui holds the interactive surfaces: huh forms for the auth
// flows and a bubbletea conversation view for live messaging.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/validate"
)

// LoginInput is what the login form collects.
type LoginInput struct {
	Email    string
	Password string
	Role     api.Role
}

// RunLoginForm collects credentials interactively. Defaults pre-fill
// fields already supplied on the command line.
func RunLoginForm(defaults LoginInput) (LoginInput, error) {
	input := defaults
	if input.Role == "" {
		input.Role = api.RoleClient
	}
	role := string(input.Role)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account type").
				Options(
					huh.NewOption("Patient", string(api.RoleClient)),
					huh.NewOption("Doctor", string(api.RoleDoctor)),
				).
				Value(&role),
			huh.NewInput().
				Title("Email").
				Placeholder("name@example.com").
				Validate(validate.Email).
				Value(&input.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validate.Password).
				Value(&input.Password),
		),
	)

	if err := form.Run(); err != nil {
		return LoginInput{}, fmt.Errorf("login prompt failed: %w", err)
	}

	input.Role = api.Role(role)
	return input, nil
}

// RunMFAForm collects a six-digit authenticator code.
func RunMFAForm() (string, error) {
	var code string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Verification code").
				Description("Enter the 6-digit code from your authenticator app").
				CharLimit(6).
				Validate(validate.MFACode).
				Value(&code),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("verification prompt failed: %w", err)
	}

	return code, nil
}

// RunRegisterForm collects the registration payload. Doctor accounts
// get an extra specialty step.
func RunRegisterForm(role api.Role) (api.RegistrationData, api.Role, error) {
	roleValue := string(role)
	if roleValue == "" {
		roleValue = string(api.RoleClient)
	}

	var data api.RegistrationData

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account type").
				Options(
					huh.NewOption("Patient", string(api.RoleClient)),
					huh.NewOption("Doctor", string(api.RoleDoctor)),
				).
				Value(&roleValue),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Last name").
				Validate(func(s string) error { return validate.Required("last name", s) }).
				Value(&data.Name),
			huh.NewInput().
				Title("First name").
				Value(&data.FirstName),
			huh.NewInput().
				Title("Email").
				Placeholder("name@example.com").
				Validate(validate.Email).
				Value(&data.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validate.Password).
				Value(&data.Password),
			huh.NewInput().
				Title("Phone").
				Placeholder("+33612345678").
				Validate(validate.Phone).
				Value(&data.Phone),
			huh.NewInput().
				Title("City").
				Value(&data.City),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Specialty").
				Validate(func(s string) error { return validate.Required("specialty", s) }).
				Value(&data.Specialty),
		).WithHideFunc(func() bool {
			return roleValue != string(api.RoleDoctor)
		}),
	)

	if err := form.Run(); err != nil {
		return api.RegistrationData{}, "", fmt.Errorf("registration prompt failed: %w", err)
	}

	return data, api.Role(roleValue), nil
}

// Confirm asks a yes/no question.
func Confirm(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(message).
			Value(&confirmed),
	))

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
