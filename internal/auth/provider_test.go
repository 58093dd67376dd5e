package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loopstate/loopstate/internal/auth"
	"github.com/loopstate/loopstate/internal/config"
)

func clearIdentityEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LOOPSTATE_IDENTITY_EMAIL", "")
	t.Setenv("LOOPSTATE_IDENTITY_SUBJECT", "")
	t.Setenv("LOOPSTATE_IDENTITY_PHONE", "")
	t.Setenv("LOOPSTATE_IDENTITY_WALLET", "")
}

func TestEnvProviderAuthenticatedWhenConfigured(t *testing.T) {
	clearIdentityEnv(t)
	provider := auth.NewEnvProvider(config.IdentityConfig{})
	require.False(t, provider.Authenticated())

	t.Setenv("LOOPSTATE_IDENTITY_EMAIL", "ada@example.com")
	require.True(t, provider.Authenticated())

	t.Setenv("LOOPSTATE_IDENTITY_EMAIL", "")
	t.Setenv("LOOPSTATE_IDENTITY_SUBJECT", "did:privy:abc12345")
	require.True(t, provider.Authenticated())
}

func TestEnvProviderLoginRequiresIdentity(t *testing.T) {
	clearIdentityEnv(t)
	provider := auth.NewEnvProvider(config.IdentityConfig{})
	require.Error(t, provider.Login())

	t.Setenv("LOOPSTATE_IDENTITY_EMAIL", "ada@example.com")
	require.NoError(t, provider.Login())
}

func TestEnvProviderLoginMethodGate(t *testing.T) {
	clearIdentityEnv(t)
	t.Setenv("LOOPSTATE_IDENTITY_EMAIL", "ada@example.com")

	walletOnly := auth.NewEnvProvider(config.IdentityConfig{LoginMethods: []string{"wallet"}})
	err := walletOnly.Login()
	require.Error(t, err)
	require.Contains(t, err.Error(), "email")

	emailAllowed := auth.NewEnvProvider(config.IdentityConfig{LoginMethods: []string{"email", "wallet"}})
	require.NoError(t, emailAllowed.Login())
}

func TestEnvProviderSubjectDerivedFromAppID(t *testing.T) {
	clearIdentityEnv(t)
	t.Setenv("LOOPSTATE_IDENTITY_EMAIL", "ada@example.com")

	provider := auth.NewEnvProvider(config.IdentityConfig{AppID: "privy"})
	require.NoError(t, provider.Login())

	identity, err := provider.Identity()
	require.NoError(t, err)
	require.Equal(t, "did:privy:ada@example.com", identity.ID)
	require.Equal(t, "ada@example.com", identity.Email)
}

func TestEnvProviderExplicitSubjectWins(t *testing.T) {
	clearIdentityEnv(t)
	t.Setenv("LOOPSTATE_IDENTITY_EMAIL", "ada@example.com")
	t.Setenv("LOOPSTATE_IDENTITY_SUBJECT", "did:privy:abc12345")

	provider := auth.NewEnvProvider(config.IdentityConfig{AppID: "privy"})
	require.NoError(t, provider.Login())

	identity, err := provider.Identity()
	require.NoError(t, err)
	require.Equal(t, "did:privy:abc12345", identity.ID)
}
