package api

import (
	"context"
	"errors"
	"fmt"
)

// Role distinguishes the two portal account types.
type Role string

const (
	RoleDoctor Role = "doctor"
	RoleClient Role = "client"
)

// Valid reports whether the role is one the backend knows.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RoleClient
}

// User is a portal account profile. The backend keys role-specific records
// under the role name in login responses; the gateway lifts them into this
// shape. Field names follow the backend's wire format.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"nom"`
	FirstName string `json:"prenom,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"telephone,omitempty"`
	City      string `json:"ville,omitempty"`
	Role      Role   `json:"role,omitempty"`

	// Doctor-only fields.
	Specialty    string  `json:"specialite,omitempty"`
	DefaultPrice float64 `json:"default_price,omitempty"`
	CurrencyCode string  `json:"currency_code,omitempty"`
}

// DisplayName returns the user's human-readable name.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName + " " + u.Name
	}
	return u.Name
}

// MFAChallenge holds the state needed to complete a second factor without
// re-sending the password.
type MFAChallenge struct {
	TempToken string `json:"tempToken"`
	UserID    int64  `json:"userId"`
	UserType  Role   `json:"userType"`
}

// LoginResult is the outcome of a login round trip: either a credential
// (Token and User set) or a pending second factor (Challenge set).
type LoginResult struct {
	Token     string
	User      *User
	Challenge *MFAChallenge
}

// MFAPending reports whether the backend asked for a second factor.
func (r *LoginResult) MFAPending() bool {
	return r.Challenge != nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse covers both outcomes of the login endpoint. The user record
// arrives keyed by role.
type loginResponse struct {
	Token  string `json:"token"`
	Doctor *User  `json:"doctor"`
	Client *User  `json:"client"`

	MFARequired bool   `json:"mfaRequired"`
	TempToken   string `json:"tempToken"`
	UserID      int64  `json:"userId"`
	UserType    string `json:"userType"`
}

func (r *loginResponse) user(role Role) *User {
	switch role {
	case RoleDoctor:
		return r.Doctor
	case RoleClient:
		return r.Client
	}
	return nil
}

// Login authenticates with email and password. The backend signals a
// required second factor either in a 2xx body or in a rejected response
// carrying the challenge; both surface as a LoginResult with a Challenge.
func (c *Client) Login(ctx context.Context, email, password string, role Role) (*LoginResult, error) {
	req := loginRequest{Email: email, Password: password}

	var resp loginResponse
	err := c.do(ctx, "POST", fmt.Sprintf("/auth/enhanced/login/%s", role), req, &resp, requestFlags{authExempt: true})
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.MFARequired {
			return &LoginResult{
				Challenge: &MFAChallenge{
					TempToken: apiErr.TempToken,
					UserID:    apiErr.UserID,
					UserType:  Role(apiErr.UserType),
				},
			}, nil
		}
		return nil, err
	}

	if resp.MFARequired {
		return &LoginResult{
			Challenge: &MFAChallenge{
				TempToken: resp.TempToken,
				UserID:    resp.UserID,
				UserType:  Role(resp.UserType),
			},
		}, nil
	}

	return &LoginResult{Token: resp.Token, User: resp.user(role)}, nil
}

type verifyMFARequest struct {
	UserID    int64  `json:"userId"`
	UserType  Role   `json:"userType"`
	Token     string `json:"token"`
	TempToken string `json:"tempToken"`
}

type verifyMFAResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// VerifyMFA completes a pending second-factor challenge with a code from
// the user's authenticator.
func (c *Client) VerifyMFA(ctx context.Context, challenge MFAChallenge, code string) (*LoginResult, error) {
	req := verifyMFARequest{
		UserID:    challenge.UserID,
		UserType:  challenge.UserType,
		Token:     code,
		TempToken: challenge.TempToken,
	}

	var resp verifyMFAResponse
	if err := c.do(ctx, "POST", "/auth/enhanced/mfa/verify", req, &resp, requestFlags{authExempt: true}); err != nil {
		return nil, err
	}

	return &LoginResult{Token: resp.Token, User: resp.User}, nil
}

// RegistrationData is the payload for creating a new account. Role-specific
// fields are optional for the other role.
type RegistrationData struct {
	Name      string `json:"nom"`
	FirstName string `json:"prenom,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"telephone,omitempty"`
	City      string `json:"ville,omitempty"`
	Specialty string `json:"specialite,omitempty"`
}

// Register creates an account and returns an immediate credential;
// registration never goes through a second factor.
func (c *Client) Register(ctx context.Context, data RegistrationData, role Role) (*LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, "POST", fmt.Sprintf("/auth/basic/register/%s", role), data, &resp, requestFlags{authExempt: true})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: resp.Token, User: resp.user(role)}, nil
}

// CurrentUser fetches the canonical profile of the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/auth/basic/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// EnableMFA starts second-factor enrollment and returns the secret the
// backend provisions for the authenticator app.
func (c *Client) EnableMFA(ctx context.Context) (*MFAEnrollment, error) {
	var enrollment MFAEnrollment
	if err := c.post(ctx, "/auth/enhanced/mfa/enable", nil, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// MFAEnrollment is the provisioning material returned when enabling MFA.
type MFAEnrollment struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

// DisableMFA turns off the second factor; the backend requires a current
// code to confirm.
func (c *Client) DisableMFA(ctx context.Context, code string) error {
	return c.post(ctx, "/auth/enhanced/mfa/disable", map[string]string{"token": code}, nil)
}

// AuthLogEntry is one entry of the account's authentication audit trail.
type AuthLogEntry struct {
	ID        int64  `json:"id"`
	Event     string `json:"event"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
	CreatedAt string `json:"createdAt"`
}

// AuthLogs fetches the account's authentication audit trail.
func (c *Client) AuthLogs(ctx context.Context) ([]AuthLogEntry, error) {
	var logs []AuthLogEntry
	if err := c.get(ctx, "/auth/enhanced/logs", &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
