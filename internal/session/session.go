// Package session owns the client-side authentication state machine:
// anonymous, second-factor pending, and authenticated. It is the only
// legal writer of the persisted token and user record, and keeps the
// in-memory session and the store in lockstep.
package session

import "github.com/caresync/caresync/internal/api"

// Session is an immutable snapshot of the authentication state. Exactly
// one of Anonymous, MFAPending, Authenticated is true at any time.
type Session struct {
	// User is the authenticated account profile, nil when unauthenticated.
	User *api.User

	// Token is the bearer credential, empty when unauthenticated.
	Token string

	// Challenge is the outstanding second-factor challenge, nil otherwise.
	Challenge *api.MFAChallenge

	// Err is the failure of the most recent operation, cleared at the
	// start of every new one.
	Err error
}

// Authenticated reports whether a live credential is held.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// MFAPending reports whether a second factor is outstanding.
func (s Session) MFAPending() bool {
	return s.Challenge != nil
}

// Anonymous reports whether no credential and no challenge are held.
func (s Session) Anonymous() bool {
	return !s.Authenticated() && !s.MFAPending()
}
