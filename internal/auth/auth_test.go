package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loopstate/loopstate/internal/api"
	"github.com/loopstate/loopstate/internal/auth"
	"github.com/loopstate/loopstate/internal/config"
	"github.com/loopstate/loopstate/internal/models"
	"github.com/loopstate/loopstate/internal/store"
)

type fakeProvider struct {
	identity  auth.ProviderIdentity
	loggedIn  bool
	loginErr  error
	logoutErr error
}

func (p *fakeProvider) Authenticated() bool { return p.loggedIn }

func (p *fakeProvider) Login() error {
	if p.loginErr != nil {
		return p.loginErr
	}
	p.loggedIn = true
	return nil
}

func (p *fakeProvider) Logout() error {
	p.loggedIn = false
	return p.logoutErr
}

func (p *fakeProvider) Identity() (auth.ProviderIdentity, error) { return p.identity, nil }

func (p *fakeProvider) CreateWallet() (string, error) { return "0xabc", nil }

func newBackend(t *testing.T) (*httptest.Server, *[]models.User) {
	t.Helper()
	var created []models.User
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/users":
			var user models.User
			require.NoError(t, json.NewDecoder(r.Body).Decode(&user))
			user.ID = 11
			created = append(created, user)
			json.NewEncoder(w).Encode(user)
		case r.Method == http.MethodGet && r.URL.Path == "/users/11":
			json.NewEncoder(w).Encode(models.User{ID: 11, Username: "ada", Email: "ada@example.com"})
		case r.Method == http.MethodPut && r.URL.Path == "/users/11":
			var user models.User
			require.NoError(t, json.NewDecoder(r.Body).Decode(&user))
			json.NewEncoder(w).Encode(models.User{
				ID:            11,
				Username:      "ada",
				Email:         "ada@example.com",
				WalletAddress: user.WalletAddress,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &created
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenPath(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoginSyncsAndPersists(t *testing.T) {
	srv, created := newBackend(t)
	st := newStore(t)
	provider := &fakeProvider{identity: auth.ProviderIdentity{
		ID:    "did:privy:abc12345",
		Email: "ada@example.com",
	}}

	session := auth.NewSession(provider, api.New(srv.URL, 0, nil), st, nil)
	require.False(t, session.IsLoggedIn())

	require.NoError(t, session.Login())
	require.True(t, session.IsLoggedIn())
	require.Equal(t, int64(11), session.CurrentUser().ID)

	require.Len(t, *created, 1)
	require.Equal(t, "ada", (*created)[0].Username)
	require.Equal(t, "did:privy:abc12345", (*created)[0].PrivyID)

	persisted, err := st.SessionUserID()
	require.NoError(t, err)
	require.Equal(t, int64(11), persisted)
}

func TestLogoutClearsSession(t *testing.T) {
	srv, _ := newBackend(t)
	st := newStore(t)
	provider := &fakeProvider{identity: auth.ProviderIdentity{Email: "ada@example.com"}}

	session := auth.NewSession(provider, api.New(srv.URL, 0, nil), st, nil)
	require.NoError(t, session.Login())
	require.NoError(t, session.Logout())

	require.False(t, session.IsLoggedIn())
	require.Nil(t, session.CurrentUser())
	persisted, err := st.SessionUserID()
	require.NoError(t, err)
	require.Zero(t, persisted)
}

func TestRestoreBringsSessionBack(t *testing.T) {
	srv, _ := newBackend(t)
	st := newStore(t)
	require.NoError(t, st.SetSessionUserID(11))

	session := auth.NewSession(&fakeProvider{}, api.New(srv.URL, 0, nil), st, nil)
	require.NoError(t, session.Restore())
	require.True(t, session.IsLoggedIn())
	require.Equal(t, "ada", session.CurrentUser().Username)
}

func TestBootstrapLogsInWhenProviderVouches(t *testing.T) {
	srv, created := newBackend(t)
	st := newStore(t)
	// The provider already vouches for an account at startup, before any
	// explicit login.
	provider := &fakeProvider{
		identity: auth.ProviderIdentity{ID: "did:privy:abc12345", Email: "ada@example.com"},
		loggedIn: true,
	}

	session := auth.NewSession(provider, api.New(srv.URL, 0, nil), st, nil)
	require.NoError(t, session.Bootstrap(config.IdentityConfig{}))

	require.True(t, session.IsLoggedIn())
	require.Equal(t, int64(11), session.CurrentUser().ID)
	require.Len(t, *created, 1)

	persisted, err := st.SessionUserID()
	require.NoError(t, err)
	require.Equal(t, int64(11), persisted)
}

func TestBootstrapNoopWithoutIdentity(t *testing.T) {
	srv, created := newBackend(t)
	st := newStore(t)

	session := auth.NewSession(&fakeProvider{}, api.New(srv.URL, 0, nil), st, nil)
	require.NoError(t, session.Bootstrap(config.IdentityConfig{}))

	require.False(t, session.IsLoggedIn())
	require.Empty(t, *created)
}

func TestBootstrapCreatesWalletWhenConfigured(t *testing.T) {
	srv, _ := newBackend(t)
	st := newStore(t)
	provider := &fakeProvider{
		identity: auth.ProviderIdentity{Email: "ada@example.com"},
		loggedIn: true,
	}

	session := auth.NewSession(provider, api.New(srv.URL, 0, nil), st, nil)
	require.NoError(t, session.Bootstrap(config.IdentityConfig{CreateWalletOnLogin: true}))

	require.True(t, session.IsLoggedIn())
	require.Equal(t, "0xabc", session.CurrentUser().WalletAddress)
}

func TestRestoreDropsStaleSession(t *testing.T) {
	srv, _ := newBackend(t)
	st := newStore(t)
	require.NoError(t, st.SetSessionUserID(999))

	session := auth.NewSession(&fakeProvider{}, api.New(srv.URL, 0, nil), st, nil)
	require.NoError(t, session.Restore())
	require.False(t, session.IsLoggedIn())

	persisted, err := st.SessionUserID()
	require.NoError(t, err)
	require.Zero(t, persisted)
}
