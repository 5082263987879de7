package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is a decoded non-2xx API response.
type Error struct {
	StatusCode int
	Message    string

	// MFA challenge fields, present when the backend answers a login with
	// a second-factor requirement instead of a token.
	MFARequired bool
	TempToken   string
	UserID      int64
	UserType    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// errorBody is the backend's error envelope. Some endpoints use "message",
// others "error"; login endpoints may carry an MFA challenge.
type errorBody struct {
	Message     string `json:"message"`
	Err         string `json:"error"`
	MFARequired bool   `json:"mfaRequired"`
	TempToken   string `json:"tempToken"`
	UserID      int64  `json:"userId"`
	UserType    string `json:"userType"`
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}

	switch {
	case eb.Message != "":
		apiErr.Message = eb.Message
	case eb.Err != "":
		apiErr.Message = eb.Err
	default:
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	apiErr.MFARequired = eb.MFARequired
	apiErr.TempToken = eb.TempToken
	apiErr.UserID = eb.UserID
	apiErr.UserType = eb.UserType

	return apiErr
}

// IsUnauthorized reports whether err is an API error with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ServerMessage extracts the backend-provided message from err, or returns
// fallback for transport failures and undecodable responses.
func ServerMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
