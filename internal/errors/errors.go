package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthFailed         ErrorCode = "AUTH-001"
	ErrCodeAuthTokenExpired   ErrorCode = "AUTH-002"
	ErrCodeAuthUnauthorized   ErrorCode = "AUTH-003"
	ErrCodeAuthMFARequired    ErrorCode = "AUTH-004"
	ErrCodeAuthMFAInvalidCode ErrorCode = "AUTH-005"
	ErrCodeAuthNoChallenge    ErrorCode = "AUTH-006"
	ErrCodeAuthRegisterFailed ErrorCode = "AUTH-007"

	// API gateway errors (API-001 to API-099)
	ErrCodeAPIUnreachable   ErrorCode = "API-001"
	ErrCodeAPIBadResponse   ErrorCode = "API-002"
	ErrCodeAPIServerMessage ErrorCode = "API-003"
	ErrCodeAPIEncode        ErrorCode = "API-004"

	// Storage errors (STORE-001 to STORE-099)
	ErrCodeStoreRead    ErrorCode = "STORE-001"
	ErrCodeStoreWrite   ErrorCode = "STORE-002"
	ErrCodeStoreRemove  ErrorCode = "STORE-003"
	ErrCodeStoreCorrupt ErrorCode = "STORE-004"
	ErrCodeStoreSecret  ErrorCode = "STORE-005"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"

	// Input errors (INPUT-001 to INPUT-099)
	ErrCodeInputEmail    ErrorCode = "INPUT-001"
	ErrCodeInputPassword ErrorCode = "INPUT-002"
	ErrCodeInputPhone    ErrorCode = "INPUT-003"
	ErrCodeInputRole     ErrorCode = "INPUT-004"
	ErrCodeInputRequired ErrorCode = "INPUT-005"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// CareSyncError represents an enhanced error with code, suggestions, and documentation
type CareSyncError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *CareSyncError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CareSyncError) Unwrap() error {
	return e.Cause
}

// New creates a new CareSyncError
func New(code ErrorCode, message string) *CareSyncError {
	return &CareSyncError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CareSyncError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *CareSyncError {
	return &CareSyncError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CareSyncError) WithSuggestion(suggestion string) *CareSyncError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *CareSyncError) WithSuggestions(suggestions ...string) *CareSyncError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *CareSyncError) WithDocs(url string) *CareSyncError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewAuthFailedError creates an authentication failure error
func NewAuthFailedError(message string) *CareSyncError {
	return New(ErrCodeAuthFailed, message).
		WithSuggestion("Check your email and password").
		WithSuggestion("Run 'caresync login' to re-authenticate")
}

// NewSessionExpiredError creates a token expiry error
func NewSessionExpiredError() *CareSyncError {
	return New(ErrCodeAuthTokenExpired, "your session has expired").
		WithSuggestion("Run 'caresync login' to start a new session")
}

// NewMFAInvalidCodeError creates an invalid MFA code error
func NewMFAInvalidCodeError(message string) *CareSyncError {
	return New(ErrCodeAuthMFAInvalidCode, message).
		WithSuggestion("Enter the current 6-digit code from your authenticator app").
		WithSuggestion("Codes rotate every 30 seconds; wait for a fresh one if unsure")
}

// NewNoChallengeError creates an error for MFA verification without a pending challenge
func NewNoChallengeError() *CareSyncError {
	return New(ErrCodeAuthNoChallenge, "no multi-factor challenge is pending").
		WithSuggestion("Run 'caresync login' first; verification only applies after a login that requires a second factor")
}

// NewAPIUnreachableError creates a network/transport failure error
func NewAPIUnreachableError(cause error) *CareSyncError {
	return Wrap(ErrCodeAPIUnreachable, "could not reach the portal API", cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Verify the API URL with 'caresync config show'")
}

// NewStoreCorruptError creates an error for unreadable persisted state
func NewStoreCorruptError(key string, cause error) *CareSyncError {
	return Wrap(ErrCodeStoreCorrupt, fmt.Sprintf("persisted state for %q is unreadable", key), cause).
		WithSuggestion("The cached entry will be cleared; log in again to recreate it")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *CareSyncError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Check $HOME/.caresync/config.yaml").
		WithSuggestion("Environment overrides use the CARESYNC_ prefix")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *CareSyncError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}
