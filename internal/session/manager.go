package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/errors"
	"github.com/caresync/caresync/internal/log"
	"github.com/caresync/caresync/internal/storage"
)

// Gateway is the slice of the portal API the session manager drives.
// *api.Client satisfies it.
type Gateway interface {
	Login(ctx context.Context, email, password string, role api.Role) (*api.LoginResult, error)
	VerifyMFA(ctx context.Context, challenge api.MFAChallenge, code string) (*api.LoginResult, error)
	Register(ctx context.Context, data api.RegistrationData, role api.Role) (*api.LoginResult, error)
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Navigator is signaled when the session is forcibly ended (expired or
// rejected credential) so the presentation layer can send the user back
// to the login entry point. It fires at most once per forced logout.
type Navigator func()

// Manager owns the Session and is the only legal way to mutate it.
// Every credential write is mirrored to the store before it becomes
// visible in memory, so the two never disagree.
//
// Methods are safe for concurrent use, but overlapping mutating calls
// (two logins racing) resolve by last write wins; callers are expected
// not to issue them.
type Manager struct {
	mu       sync.Mutex
	gateway  Gateway
	store    storage.Store
	logger   *log.Logger
	navigate Navigator
	now      func() time.Time

	user      *api.User
	token     string
	challenge *api.MFAChallenge
	lastErr   error
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithNavigator registers the forced-logout navigation signal.
func WithNavigator(n Navigator) ManagerOption {
	return func(m *Manager) {
		m.navigate = n
	}
}

// WithManagerLogger sets the logger used for session diagnostics.
func WithManagerLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates an anonymous session manager over the given
// gateway and store. Call Initialize to hydrate persisted state.
func NewManager(gateway Gateway, store storage.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		gateway: gateway,
		store:   store,
		logger:  log.DefaultLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Session{
		User:      m.user,
		Token:     m.token,
		Challenge: m.challenge,
		Err:       m.lastErr,
	}
}

// Token returns the current bearer credential, empty when anonymous.
// It satisfies api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Initialize hydrates the session from the store, run once at startup.
// A missing, unreadable, or expired persisted credential clears the
// store and leaves the session anonymous; only a live token and a
// decodable user record restore an authenticated session.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokenBytes, ok, err := m.store.GetItem(storage.KeyToken)
	if err != nil {
		m.clearStorageLocked()
		return err
	}
	if !ok {
		// No credential; a pending challenge may still be waiting for
		// its verification code.
		if challengeBytes, ok, err := m.store.GetItem(storage.KeyChallenge); err == nil && ok {
			var challenge api.MFAChallenge
			if json.Unmarshal(challengeBytes, &challenge) == nil {
				m.challenge = &challenge
				m.logger.Debug("pending second factor restored", "user_id", challenge.UserID)
				return nil
			}
		}
		m.clearStorageLocked()
		return nil
	}

	token := string(tokenBytes)
	if TokenExpired(token, m.now()) {
		m.logger.Debug("persisted token expired, clearing session")
		m.clearStorageLocked()
		return nil
	}

	userBytes, ok, err := m.store.GetItem(storage.KeyUser)
	if err != nil || !ok {
		m.clearStorageLocked()
		return err
	}

	var user api.User
	if err := json.Unmarshal(userBytes, &user); err != nil {
		m.logger.Warn("persisted user record unreadable, clearing session")
		m.clearStorageLocked()
		return nil
	}

	m.token = token
	m.user = &user
	if err := m.store.RemoveItem(storage.KeyChallenge); err != nil {
		m.logger.Warn("could not remove stale challenge", "error", err)
	}
	m.logger.Debug("session restored", "user_id", user.ID, "role", user.Role)
	return nil
}

// Login authenticates with primary credentials. When the backend asks
// for a second factor the session moves to MFA-pending and the returned
// session snapshot carries the challenge; no credential is persisted
// until the factor is verified. A failed login leaves the session
// anonymous. Starting a fresh login discards any stale challenge.
func (m *Manager) Login(ctx context.Context, email, password string, role api.Role) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
	m.challenge = nil
	if err := m.store.RemoveItem(storage.KeyChallenge); err != nil {
		m.logger.Warn("could not remove stale challenge", "error", err)
	}

	result, err := m.gateway.Login(ctx, email, password, role)
	if err != nil {
		msg := api.ServerMessage(err, "login failed, please try again")
		m.lastErr = errors.Wrap(errors.ErrCodeAuthFailed, msg, err).
			WithSuggestion("Check your email and password and retry")
		return m.snapshotLocked(), m.lastErr
	}

	if result.MFAPending() {
		m.challenge = result.Challenge
		if challengeBytes, err := json.Marshal(result.Challenge); err == nil {
			if err := m.store.SetItem(storage.KeyChallenge, challengeBytes); err != nil {
				m.logger.Warn("could not persist pending challenge", "error", err)
			}
		}
		m.logger.Debug("second factor required", "user_id", result.Challenge.UserID)
		return m.snapshotLocked(), nil
	}

	user := result.User
	if user != nil && user.Role == "" {
		user.Role = role
	}
	if err := m.persistLocked(result.Token, user); err != nil {
		m.lastErr = err
		return m.snapshotLocked(), err
	}
	m.logger.Info("logged in", "user_id", user.ID, "role", user.Role)
	return m.snapshotLocked(), nil
}

// VerifyMFA completes a pending challenge with a code from the user's
// authenticator. A wrong code leaves the challenge in place so the code
// can be retried; success persists the credential and clears it.
func (m *Manager) VerifyMFA(ctx context.Context, code string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil

	if m.challenge == nil {
		m.lastErr = errors.NewNoChallengeError()
		return m.snapshotLocked(), m.lastErr
	}

	result, err := m.gateway.VerifyMFA(ctx, *m.challenge, code)
	if err != nil {
		msg := api.ServerMessage(err, "verification failed, please try again")
		m.lastErr = errors.NewMFAInvalidCodeError(msg)
		return m.snapshotLocked(), m.lastErr
	}

	user := result.User
	if user != nil && user.Role == "" {
		user.Role = m.challenge.UserType
	}
	if err := m.persistLocked(result.Token, user); err != nil {
		m.lastErr = err
		return m.snapshotLocked(), err
	}
	m.challenge = nil
	m.logger.Info("second factor verified", "user_id", user.ID)
	return m.snapshotLocked(), nil
}

// Register creates an account and signs it in immediately. Registration
// never goes through a second factor.
func (m *Manager) Register(ctx context.Context, data api.RegistrationData, role api.Role) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
	m.challenge = nil
	if err := m.store.RemoveItem(storage.KeyChallenge); err != nil {
		m.logger.Warn("could not remove stale challenge", "error", err)
	}

	result, err := m.gateway.Register(ctx, data, role)
	if err != nil {
		msg := api.ServerMessage(err, "registration failed, please try again")
		m.lastErr = errors.Wrap(errors.ErrCodeAuthRegisterFailed, msg, err)
		return m.snapshotLocked(), m.lastErr
	}

	user := result.User
	if user != nil && user.Role == "" {
		user.Role = role
	}
	if err := m.persistLocked(result.Token, user); err != nil {
		m.lastErr = err
		return m.snapshotLocked(), err
	}
	m.logger.Info("registered", "user_id", user.ID, "role", user.Role)
	return m.snapshotLocked(), nil
}

// Logout clears the credential, any pending challenge, and the store.
// It never fails and makes no network call; logging out while already
// anonymous is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
	m.clearStorageLocked()
	m.logger.Debug("logged out")
}

// RefreshUser fetches the canonical profile and overwrites the persisted
// user record, leaving the token untouched. A rejected credential forces
// a logout; any other failure leaves the session as it was.
func (m *Manager) RefreshUser(ctx context.Context) (*api.User, error) {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return nil, errors.New(errors.ErrCodeAuthUnauthorized, "not logged in")
	}
	m.mu.Unlock()

	user, err := m.gateway.CurrentUser(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			m.HandleUnauthorized()
			return nil, errors.NewSessionExpiredError()
		}
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		// Forced out while the request was in flight.
		return user, nil
	}
	if user.Role == "" && m.user != nil {
		user.Role = m.user.Role
	}
	if err := m.persistUserLocked(user); err != nil {
		return nil, err
	}
	return user, nil
}

// HandleUnauthorized is the 401 hook: the backend rejected a credential
// we believed live, so the session ends and the navigation signal fires.
// Idempotent; repeated rejections after the first are no-ops and do not
// signal again.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	wasAuthenticated := m.token != ""
	m.clearStorageLocked()
	m.mu.Unlock()

	if wasAuthenticated {
		m.logger.Warn("session rejected by the backend, logging out")
		if m.navigate != nil {
			m.navigate()
		}
	}
}

// snapshotLocked builds a Session; callers must hold mu.
func (m *Manager) snapshotLocked() Session {
	return Session{
		User:      m.user,
		Token:     m.token,
		Challenge: m.challenge,
		Err:       m.lastErr,
	}
}

// persistLocked mirrors a credential to the store before exposing it in
// memory, so a write failure never leaves the two disagreeing.
func (m *Manager) persistLocked(token string, user *api.User) error {
	if token == "" || user == nil {
		return errors.New(errors.ErrCodeAPIBadResponse, "backend returned an incomplete credential")
	}

	userBytes, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "could not encode user record", err)
	}
	if err := m.store.SetItem(storage.KeyToken, []byte(token)); err != nil {
		return err
	}
	if err := m.store.SetItem(storage.KeyUser, userBytes); err != nil {
		m.store.RemoveItem(storage.KeyToken)
		return err
	}

	if err := m.store.RemoveItem(storage.KeyChallenge); err != nil {
		m.logger.Warn("could not remove completed challenge", "error", err)
	}

	m.token = token
	m.user = user
	return nil
}

// persistUserLocked overwrites the stored user record only.
func (m *Manager) persistUserLocked(user *api.User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "could not encode user record", err)
	}
	if err := m.store.SetItem(storage.KeyUser, userBytes); err != nil {
		return err
	}
	m.user = user
	return nil
}

// clearStorageLocked resets the session to anonymous in memory and in
// the store; callers must hold mu.
func (m *Manager) clearStorageLocked() {
	m.user = nil
	m.token = ""
	m.challenge = nil
	if err := m.store.RemoveItem(storage.KeyToken); err != nil {
		m.logger.Warn("could not remove persisted token", "error", err)
	}
	if err := m.store.RemoveItem(storage.KeyUser); err != nil {
		m.logger.Warn("could not remove persisted user", "error", err)
	}
	if err := m.store.RemoveItem(storage.KeyChallenge); err != nil {
		m.logger.Warn("could not remove persisted challenge", "error", err)
	}
}
