package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/caresync/internal/api"
	caresyncerrors "github.com/caresync/caresync/internal/errors"
	"github.com/caresync/caresync/internal/storage"
)

type fakeGateway struct {
	loginResult    *api.LoginResult
	loginErr       error
	loginCalls     int
	verifyResult   *api.LoginResult
	verifyErr      error
	verifyCalls    []api.MFAChallenge
	registerResult *api.LoginResult
	registerErr    error
	currentUser    *api.User
	currentErr     error
}

func (g *fakeGateway) Login(ctx context.Context, email, password string, role api.Role) (*api.LoginResult, error) {
	g.loginCalls++
	return g.loginResult, g.loginErr
}

func (g *fakeGateway) VerifyMFA(ctx context.Context, challenge api.MFAChallenge, code string) (*api.LoginResult, error) {
	g.verifyCalls = append(g.verifyCalls, challenge)
	return g.verifyResult, g.verifyErr
}

func (g *fakeGateway) Register(ctx context.Context, data api.RegistrationData, role api.Role) (*api.LoginResult, error) {
	return g.registerResult, g.registerErr
}

func (g *fakeGateway) CurrentUser(ctx context.Context) (*api.User, error) {
	return g.currentUser, g.currentErr
}

type memStore struct {
	items map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{items: map[string][]byte{}}
}

func (s *memStore) GetItem(key string) ([]byte, bool, error) {
	value, ok := s.items[key]
	return value, ok, nil
}

func (s *memStore) SetItem(key string, value []byte) error {
	s.items[key] = value
	return nil
}

func (s *memStore) RemoveItem(key string) error {
	delete(s.items, key)
	return nil
}

func makeToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// assertInvariants checks the state-machine invariants that must hold
// after every operation: the three states are mutually exclusive, a
// pending challenge excludes any credential, and the store mirrors
// memory exactly.
func assertInvariants(t *testing.T, m *Manager, store *memStore) {
	t.Helper()
	s := m.Current()

	if s.MFAPending() {
		assert.Nil(t, s.User, "a pending challenge must not coexist with a user")
		assert.Empty(t, s.Token, "a pending challenge must not coexist with a token")
		assert.NotNil(t, s.Challenge)
	}
	if s.User != nil {
		assert.NotEmpty(t, s.Token, "an authenticated user must hold a credential")
	}

	states := 0
	for _, held := range []bool{s.Authenticated(), s.MFAPending(), s.Anonymous()} {
		if held {
			states++
		}
	}
	assert.Equal(t, 1, states, "exactly one session state must hold")

	storedToken, hasToken, err := store.GetItem(storage.KeyToken)
	require.NoError(t, err)
	storedUser, hasUser, err := store.GetItem(storage.KeyUser)
	require.NoError(t, err)

	if s.Authenticated() {
		require.True(t, hasToken, "store must mirror the in-memory token")
		require.True(t, hasUser, "store must mirror the in-memory user")
		assert.Equal(t, s.Token, string(storedToken))

		var u api.User
		require.NoError(t, json.Unmarshal(storedUser, &u))
		assert.Equal(t, *s.User, u)
	} else {
		assert.False(t, hasToken, "store must hold no token outside the authenticated state")
		assert.False(t, hasUser, "store must hold no user outside the authenticated state")
	}

	storedChallenge, hasChallenge, err := store.GetItem(storage.KeyChallenge)
	require.NoError(t, err)
	if s.MFAPending() {
		require.True(t, hasChallenge, "store must mirror the pending challenge")
		var c api.MFAChallenge
		require.NoError(t, json.Unmarshal(storedChallenge, &c))
		assert.Equal(t, *s.Challenge, c)
	} else {
		assert.False(t, hasChallenge, "store must hold no challenge outside the pending state")
	}
}

func TestLoginSuccess(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{
			Token: "T1",
			User:  &api.User{ID: 5, Name: "A"},
		},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	s, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	assert.True(t, s.Authenticated())
	assert.Equal(t, "T1", s.Token)
	assert.Equal(t, int64(5), s.User.ID)
	assert.Equal(t, "A", s.User.Name)
	assert.Equal(t, api.RoleClient, s.User.Role, "the requested role is stamped onto the profile")
	assertInvariants(t, m, store)
}

func TestLoginMFARequired(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{
			Challenge: &api.MFAChallenge{TempToken: "X", UserID: 5, UserType: api.RoleClient},
		},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	s, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	assert.True(t, s.MFAPending())
	assert.Equal(t, "X", s.Challenge.TempToken)
	assert.Equal(t, int64(5), s.Challenge.UserID)
	assert.Equal(t, api.RoleClient, s.Challenge.UserType)
	assert.Nil(t, s.User)
	assert.Empty(t, s.Token)
	assertInvariants(t, m, store)
}

func TestLoginFailure(t *testing.T) {
	gw := &fakeGateway{
		loginErr: &api.Error{StatusCode: 401, Message: "invalid credentials"},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Login(context.Background(), "a@b.com", "wrong", api.RoleClient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	s := m.Current()
	assert.True(t, s.Anonymous())
	assert.ErrorContains(t, s.Err, "invalid credentials")
	assertInvariants(t, m, store)
}

func TestLoginClearsStaleChallenge(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{
			Challenge: &api.MFAChallenge{TempToken: "X", UserID: 5, UserType: api.RoleClient},
		},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)
	require.True(t, m.Current().MFAPending())

	gw.loginResult = &api.LoginResult{Token: "T1", User: &api.User{ID: 5, Name: "A"}}
	s, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	assert.True(t, s.Authenticated())
	assert.Nil(t, s.Challenge, "a fresh login attempt discards the old challenge")
	assertInvariants(t, m, store)
}

func TestVerifyMFASuccess(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{
			Challenge: &api.MFAChallenge{TempToken: "X", UserID: 5, UserType: api.RoleClient},
		},
		verifyResult: &api.LoginResult{
			Token: "T2",
			User:  &api.User{ID: 5, Name: "A"},
		},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	s, err := m.VerifyMFA(context.Background(), "123456")
	require.NoError(t, err)

	assert.True(t, s.Authenticated())
	assert.Equal(t, "T2", s.Token)
	assert.False(t, s.MFAPending())
	require.Len(t, gw.verifyCalls, 1)
	assert.Equal(t, "X", gw.verifyCalls[0].TempToken)
	assertInvariants(t, m, store)
}

func TestVerifyMFAFailureIsRetryable(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{
			Challenge: &api.MFAChallenge{TempToken: "X", UserID: 5, UserType: api.RoleClient},
		},
		verifyErr: &api.Error{StatusCode: 401, Message: "invalid code"},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	_, err = m.VerifyMFA(context.Background(), "000000")
	require.Error(t, err)
	assert.True(t, m.Current().MFAPending(), "a wrong code keeps the challenge alive")
	assertInvariants(t, m, store)

	gw.verifyErr = nil
	gw.verifyResult = &api.LoginResult{Token: "T2", User: &api.User{ID: 5, Name: "A"}}
	s, err := m.VerifyMFA(context.Background(), "123456")
	require.NoError(t, err)

	assert.True(t, s.Authenticated())
	require.Len(t, gw.verifyCalls, 2)
	assert.Equal(t, "X", gw.verifyCalls[1].TempToken, "the retry reuses the original challenge")
	assertInvariants(t, m, store)
}

func TestVerifyMFAWithoutChallenge(t *testing.T) {
	gw := &fakeGateway{}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.VerifyMFA(context.Background(), "123456")
	require.Error(t, err)

	var csErr *caresyncerrors.CareSyncError
	require.ErrorAs(t, err, &csErr)
	assert.Equal(t, caresyncerrors.ErrCodeAuthNoChallenge, csErr.Code)
	assert.Empty(t, gw.verifyCalls, "no round trip is made without a challenge")
	assertInvariants(t, m, store)
}

func TestRegisterSuccess(t *testing.T) {
	gw := &fakeGateway{
		registerResult: &api.LoginResult{
			Token: "T3",
			User:  &api.User{ID: 8, Name: "C"},
		},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	data := api.RegistrationData{Name: "C", Email: "c@b.com", Password: "pw123456"}
	s, err := m.Register(context.Background(), data, api.RoleDoctor)
	require.NoError(t, err)

	assert.True(t, s.Authenticated(), "registration is an implicit login")
	assert.False(t, s.MFAPending(), "registration never asks for a second factor")
	assert.Equal(t, api.RoleDoctor, s.User.Role)
	assertInvariants(t, m, store)
}

func TestRegisterFailure(t *testing.T) {
	gw := &fakeGateway{
		registerErr: &api.Error{StatusCode: 400, Message: "email already registered"},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Register(context.Background(), api.RegistrationData{Email: "c@b.com"}, api.RoleClient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")
	assert.True(t, m.Current().Anonymous())
	assertInvariants(t, m, store)
}

func TestLogout(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{Token: "T1", User: &api.User{ID: 5, Name: "A"}},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	m.Logout()
	assert.True(t, m.Current().Anonymous())
	assertInvariants(t, m, store)

	// Logging out again is a no-op.
	m.Logout()
	assert.True(t, m.Current().Anonymous())
	assertInvariants(t, m, store)
}

func TestLogoutClearsPendingChallenge(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{
			Challenge: &api.MFAChallenge{TempToken: "X", UserID: 5, UserType: api.RoleClient},
		},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)
	require.True(t, m.Current().MFAPending())

	m.Logout()
	assert.True(t, m.Current().Anonymous())
	assertInvariants(t, m, store)
}

func TestInitializeRestoresSession(t *testing.T) {
	store := newMemStore()
	token := makeToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, store.SetItem(storage.KeyToken, []byte(token)))
	userBytes, err := json.Marshal(&api.User{ID: 5, Name: "A", Role: api.RoleClient})
	require.NoError(t, err)
	require.NoError(t, store.SetItem(storage.KeyUser, userBytes))

	m := NewManager(&fakeGateway{}, store)
	require.NoError(t, m.Initialize())

	s := m.Current()
	assert.True(t, s.Authenticated())
	assert.Equal(t, token, s.Token)
	assert.Equal(t, int64(5), s.User.ID)
	assertInvariants(t, m, store)
}

func TestInitializeExpiredTokenClearsStorage(t *testing.T) {
	store := newMemStore()
	token := makeToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, store.SetItem(storage.KeyToken, []byte(token)))
	userBytes, err := json.Marshal(&api.User{ID: 5, Name: "A"})
	require.NoError(t, err)
	require.NoError(t, store.SetItem(storage.KeyUser, userBytes))

	m := NewManager(&fakeGateway{}, store)
	require.NoError(t, m.Initialize())

	assert.True(t, m.Current().Anonymous())
	assertInvariants(t, m, store)
}

func TestInitializeMalformedTokenClearsStorage(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.SetItem(storage.KeyToken, []byte("not-a-token")))

	m := NewManager(&fakeGateway{}, store)
	require.NoError(t, m.Initialize())

	assert.True(t, m.Current().Anonymous())
	assertInvariants(t, m, store)
}

func TestInitializeTokenWithoutExpiry(t *testing.T) {
	store := newMemStore()
	token := makeToken(t, jwt.MapClaims{"sub": "5"})
	require.NoError(t, store.SetItem(storage.KeyToken, []byte(token)))
	userBytes, err := json.Marshal(&api.User{ID: 5, Name: "A", Role: api.RoleClient})
	require.NoError(t, err)
	require.NoError(t, store.SetItem(storage.KeyUser, userBytes))

	m := NewManager(&fakeGateway{}, store)
	require.NoError(t, m.Initialize())

	assert.True(t, m.Current().Authenticated(), "a token without an expiry claim never expires client-side")
	assertInvariants(t, m, store)
}

func TestInitializeTokenWithoutUserClearsStorage(t *testing.T) {
	store := newMemStore()
	token := makeToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, store.SetItem(storage.KeyToken, []byte(token)))

	m := NewManager(&fakeGateway{}, store)
	require.NoError(t, m.Initialize())

	assert.True(t, m.Current().Anonymous())
	assertInvariants(t, m, store)
}

func TestInitializeRestoresPendingChallenge(t *testing.T) {
	store := newMemStore()
	challengeBytes, err := json.Marshal(&api.MFAChallenge{TempToken: "X", UserID: 5, UserType: api.RoleClient})
	require.NoError(t, err)
	require.NoError(t, store.SetItem(storage.KeyChallenge, challengeBytes))

	gw := &fakeGateway{
		verifyResult: &api.LoginResult{Token: "T2", User: &api.User{ID: 5, Name: "A"}},
	}
	m := NewManager(gw, store)
	require.NoError(t, m.Initialize())

	require.True(t, m.Current().MFAPending(), "a pending challenge survives a restart")
	assertInvariants(t, m, store)

	s, err := m.VerifyMFA(context.Background(), "123456")
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	require.Len(t, gw.verifyCalls, 1)
	assert.Equal(t, "X", gw.verifyCalls[0].TempToken)
	assertInvariants(t, m, store)
}

func TestInitializeEmptyStore(t *testing.T) {
	store := newMemStore()
	m := NewManager(&fakeGateway{}, store)
	require.NoError(t, m.Initialize())
	assert.True(t, m.Current().Anonymous())
	assertInvariants(t, m, store)
}

func TestRefreshUserOverwritesProfile(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{Token: "T1", User: &api.User{ID: 5, Name: "A"}},
		currentUser: &api.User{ID: 5, Name: "A", Email: "new@b.com"},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	user, err := m.RefreshUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", user.Email)

	s := m.Current()
	assert.Equal(t, "T1", s.Token, "a profile refresh leaves the token alone")
	assert.Equal(t, "new@b.com", s.User.Email)
	assert.Equal(t, api.RoleClient, s.User.Role, "the stamped role survives the refresh")
	assertInvariants(t, m, store)
}

func TestRefreshUserUnauthorizedForcesLogout(t *testing.T) {
	navigations := 0
	gw := &fakeGateway{
		loginResult: &api.LoginResult{Token: "T1", User: &api.User{ID: 5, Name: "A"}},
		currentErr:  &api.Error{StatusCode: 401, Message: "token expired"},
	}
	store := newMemStore()
	m := NewManager(gw, store, WithNavigator(func() { navigations++ }))

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	_, err = m.RefreshUser(context.Background())
	require.Error(t, err)

	var csErr *caresyncerrors.CareSyncError
	require.ErrorAs(t, err, &csErr)
	assert.Equal(t, caresyncerrors.ErrCodeAuthTokenExpired, csErr.Code)

	assert.True(t, m.Current().Anonymous())
	assert.Equal(t, 1, navigations, "the navigation signal fires exactly once")
	assertInvariants(t, m, store)

	// A logout after the forced one is a state no-op.
	m.Logout()
	assert.True(t, m.Current().Anonymous())
	assert.Equal(t, 1, navigations)
	assertInvariants(t, m, store)
}

func TestRefreshUserOtherFailureLeavesSession(t *testing.T) {
	gw := &fakeGateway{
		loginResult: &api.LoginResult{Token: "T1", User: &api.User{ID: 5, Name: "A"}},
		currentErr:  &api.Error{StatusCode: 500, Message: "internal error"},
	}
	store := newMemStore()
	m := NewManager(gw, store)

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	_, err = m.RefreshUser(context.Background())
	require.Error(t, err)

	s := m.Current()
	assert.True(t, s.Authenticated(), "a transient failure does not end the session")
	assert.Equal(t, "T1", s.Token)
	assertInvariants(t, m, store)
}

func TestRefreshUserWhileAnonymous(t *testing.T) {
	m := NewManager(&fakeGateway{}, newMemStore())
	_, err := m.RefreshUser(context.Background())
	require.Error(t, err)
}

func TestHandleUnauthorizedSignalsOnce(t *testing.T) {
	navigations := 0
	gw := &fakeGateway{
		loginResult: &api.LoginResult{Token: "T1", User: &api.User{ID: 5, Name: "A"}},
	}
	store := newMemStore()
	m := NewManager(gw, store, WithNavigator(func() { navigations++ }))

	_, err := m.Login(context.Background(), "a@b.com", "pw123456", api.RoleClient)
	require.NoError(t, err)

	m.HandleUnauthorized()
	m.HandleUnauthorized()

	assert.True(t, m.Current().Anonymous())
	assert.Equal(t, 1, navigations, "repeated rejections do not signal again")
	assertInvariants(t, m, store)
}

func TestHandleUnauthorizedWhileAnonymous(t *testing.T) {
	navigations := 0
	m := NewManager(&fakeGateway{}, newMemStore(), WithNavigator(func() { navigations++ }))

	m.HandleUnauthorized()
	assert.Zero(t, navigations, "an anonymous session has nothing to end")
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{
			name:    "future expiry",
			token:   makeToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}),
			expired: false,
		},
		{
			name:    "past expiry",
			token:   makeToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}),
			expired: true,
		},
		{
			name:    "no expiry claim",
			token:   makeToken(t, jwt.MapClaims{"sub": "5"}),
			expired: false,
		},
		{
			name:    "malformed token",
			token:   "garbage",
			expired: true,
		},
		{
			name:    "empty token",
			token:   "",
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, TokenExpired(tt.token, now))
		})
	}
}
