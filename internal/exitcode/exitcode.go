package exitcode

import (
	"errors"
	"os"

	cserrors "github.com/caresync/caresync/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication or authorization failure
	AuthError = 3

	// NetworkError indicates a network connectivity issue
	NetworkError = 4

	// ConfigError indicates an invalid or missing configuration
	ConfigError = 5

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var csErr *cserrors.CareSyncError
	if errors.As(err, &csErr) {
		switch csErr.Code {
		case cserrors.ErrCodeAuthFailed,
			cserrors.ErrCodeAuthTokenExpired,
			cserrors.ErrCodeAuthUnauthorized,
			cserrors.ErrCodeAuthMFAInvalidCode,
			cserrors.ErrCodeAuthNoChallenge,
			cserrors.ErrCodeAuthRegisterFailed:
			return AuthError
		case cserrors.ErrCodeAPIUnreachable:
			return NetworkError
		case cserrors.ErrCodeConfigNotFound, cserrors.ErrCodeConfigInvalid:
			return ConfigError
		case cserrors.ErrCodeInputEmail,
			cserrors.ErrCodeInputPassword,
			cserrors.ErrCodeInputPhone,
			cserrors.ErrCodeInputRole,
			cserrors.ErrCodeInputRequired:
			return UsageError
		}
	}

	return GeneralError
}
