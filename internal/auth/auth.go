// Package auth exposes the identity/wallet collaborator as a capability
// object injected at the composition root. The provider's own protocol is
// not modeled here; only the surface the views need.
package auth

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/loopstate/loopstate/internal/api"
	"github.com/loopstate/loopstate/internal/config"
	"github.com/loopstate/loopstate/internal/models"
	"github.com/loopstate/loopstate/internal/store"
)

// Identity is what the rest of the app sees
type Identity interface {
	IsLoggedIn() bool
	CurrentUser() *models.User
	Login() error
	Logout() error
}

// ProviderIdentity is the account the external provider vouches for
type ProviderIdentity struct {
	ID            string
	Email         string
	Phone         string
	WalletAddress string
}

// Provider is the external auth/wallet collaborator
type Provider interface {
	Authenticated() bool
	Identity() (ProviderIdentity, error)
	Login() error
	Logout() error
	CreateWallet() (string, error)
}

// Session binds a provider identity to a backend user record and keeps it
// across restarts via the local store.
type Session struct {
	provider Provider
	client   *api.Client
	store    *store.Store
	log      *zap.Logger

	user *models.User
}

// NewSession wires the capability together
func NewSession(provider Provider, client *api.Client, st *store.Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{provider: provider, client: client, store: st, log: log}
}

func (s *Session) IsLoggedIn() bool {
	return s.user != nil
}

func (s *Session) CurrentUser() *models.User {
	return s.user
}

// Login authenticates with the provider and upserts the matching user in
// the backend, persisting the session locally.
func (s *Session) Login() error {
	if err := s.provider.Login(); err != nil {
		return fmt.Errorf("provider login: %w", err)
	}

	identity, err := s.provider.Identity()
	if err != nil {
		return fmt.Errorf("read provider identity: %w", err)
	}

	user, err := s.client.CreateUser(models.User{
		PrivyID:       identity.ID,
		Email:         identity.Email,
		Phone:         identity.Phone,
		WalletAddress: identity.WalletAddress,
		Username:      models.UsernameFromEmail(identity.Email, identity.ID),
	})
	if err != nil {
		return fmt.Errorf("sync user with backend: %w", err)
	}

	s.user = user
	if s.store != nil {
		if err := s.store.SetSessionUserID(user.ID); err != nil {
			s.log.Warn("persist session", zap.Error(err))
		}
	}
	s.log.Info("logged in", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

// Bootstrap signs in automatically when the provider already vouches for
// an account, then provisions a missing embedded wallet when the identity
// configuration asks for one. Called once at startup, after Restore.
func (s *Session) Bootstrap(cfg config.IdentityConfig) error {
	if s.user == nil && s.provider.Authenticated() {
		if err := s.Login(); err != nil {
			return err
		}
	}
	if s.user != nil && cfg.CreateWalletOnLogin && s.user.WalletAddress == "" {
		if _, err := s.CreateWallet(); err != nil {
			s.log.Warn("create wallet on login", zap.Error(err))
		}
	}
	return nil
}

// Logout ends the provider session and clears the persisted one. The
// local session is cleared even when the provider call fails.
func (s *Session) Logout() error {
	err := s.provider.Logout()

	s.user = nil
	if s.store != nil {
		if serr := s.store.SetSessionUserID(0); serr != nil {
			s.log.Warn("clear session", zap.Error(serr))
		}
	}
	if err != nil {
		return fmt.Errorf("provider logout: %w", err)
	}
	return nil
}

// Restore brings back a persisted session, if any. A stale id (user gone
// from the backend) is dropped silently.
func (s *Session) Restore() error {
	if s.store == nil {
		return nil
	}
	id, err := s.store.SessionUserID()
	if err != nil || id == 0 {
		return err
	}

	user, err := s.client.GetUser(id)
	if err != nil {
		s.log.Warn("restore session", zap.Int64("user_id", id), zap.Error(err))
		return s.store.SetSessionUserID(0)
	}
	s.user = user
	return nil
}

// CreateWallet asks the provider for an embedded wallet and records the
// address on the backend profile.
func (s *Session) CreateWallet() (string, error) {
	if s.user == nil {
		return "", fmt.Errorf("not logged in")
	}
	address, err := s.provider.CreateWallet()
	if err != nil {
		return "", fmt.Errorf("create wallet: %w", err)
	}

	updated, err := s.client.UpdateUser(s.user.ID, models.User{WalletAddress: address})
	if err != nil {
		return "", fmt.Errorf("record wallet on profile: %w", err)
	}
	s.user = updated
	return address, nil
}
