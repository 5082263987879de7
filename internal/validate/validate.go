// Package validate enforces the input formats the backend expects.
// Validation happens in the presentation layer before a credential ever
// reaches the session manager.
package validate

import (
	"regexp"
	"strings"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/errors"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// MinPasswordLength is the backend's minimum accepted password length.
const MinPasswordLength = 8

// Email checks the address shape, not deliverability.
func Email(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New(errors.ErrCodeInputRequired, "email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New(errors.ErrCodeInputEmail, "invalid email address").
			WithSuggestion("Use the form name@example.com")
	}
	return nil
}

// Password enforces the minimum length only; composition rules belong
// to the backend.
func Password(password string) error {
	if password == "" {
		return errors.New(errors.ErrCodeInputRequired, "password is required")
	}
	if len(password) < MinPasswordLength {
		return errors.New(errors.ErrCodeInputPassword, "password must be at least 8 characters")
	}
	return nil
}

// Phone accepts international numbers with an optional leading plus.
// Empty is allowed; the field is optional at registration.
func Phone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return errors.New(errors.ErrCodeInputPhone, "invalid phone number").
			WithSuggestion("Use 10 to 15 digits, optionally prefixed with +")
	}
	return nil
}

// Role checks the account type tag.
func Role(role string) error {
	if !api.Role(role).Valid() {
		return errors.New(errors.ErrCodeInputRole, "role must be doctor or client")
	}
	return nil
}

// Required rejects blank values for a named field.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(errors.ErrCodeInputRequired, field+" is required")
	}
	return nil
}

// MFACode checks the shape of a six-digit authenticator code.
func MFACode(code string) error {
	if code == "" {
		return errors.New(errors.ErrCodeInputRequired, "verification code is required")
	}
	if len(code) != 6 {
		return errors.New(errors.ErrCodeInputRequired, "verification code must be 6 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return errors.New(errors.ErrCodeInputRequired, "verification code must be 6 digits")
		}
	}
	return nil
}
