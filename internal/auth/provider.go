package auth

import (
	"fmt"
	"os"

	"github.com/loopstate/loopstate/internal/config"
)

// EnvProvider is a development stand-in for the hosted identity provider:
// it treats LOOPSTATE_IDENTITY_EMAIL (and optional _SUBJECT, _WALLET) as
// the authenticated account. The hosted provider would slot in behind the
// same Provider interface.
type EnvProvider struct {
	cfg       config.IdentityConfig
	loggedIn  bool
	walletSeq int
}

// NewEnvProvider creates the provider from identity configuration
func NewEnvProvider(cfg config.IdentityConfig) *EnvProvider {
	return &EnvProvider{cfg: cfg}
}

// Authenticated reports whether the provider already vouches for an
// account before any explicit login. For the env provider that is simply
// whether an identity is configured, the way a hosted provider restores
// its own session at startup.
func (p *EnvProvider) Authenticated() bool {
	return os.Getenv("LOOPSTATE_IDENTITY_EMAIL") != "" || os.Getenv("LOOPSTATE_IDENTITY_SUBJECT") != ""
}

func (p *EnvProvider) Login() error {
	if !p.Authenticated() {
		return fmt.Errorf("no identity configured; set LOOPSTATE_IDENTITY_EMAIL")
	}
	if err := p.checkLoginMethod(); err != nil {
		return err
	}
	p.loggedIn = true
	return nil
}

// checkLoginMethod rejects identities signing in through a method the
// configuration does not enable
func (p *EnvProvider) checkLoginMethod() error {
	if len(p.cfg.LoginMethods) == 0 {
		return nil
	}
	method := "wallet"
	if os.Getenv("LOOPSTATE_IDENTITY_EMAIL") != "" {
		method = "email"
	} else if os.Getenv("LOOPSTATE_IDENTITY_PHONE") != "" {
		method = "sms"
	}
	for _, allowed := range p.cfg.LoginMethods {
		if allowed == method {
			return nil
		}
	}
	return fmt.Errorf("login method %q not enabled", method)
}

func (p *EnvProvider) Logout() error {
	p.loggedIn = false
	return nil
}

func (p *EnvProvider) Identity() (ProviderIdentity, error) {
	if !p.loggedIn {
		return ProviderIdentity{}, fmt.Errorf("not authenticated")
	}
	email := os.Getenv("LOOPSTATE_IDENTITY_EMAIL")
	subject := os.Getenv("LOOPSTATE_IDENTITY_SUBJECT")
	if subject == "" {
		appID := p.cfg.AppID
		if appID == "" {
			appID = "env"
		}
		subject = fmt.Sprintf("did:%s:%s", appID, email)
	}
	return ProviderIdentity{
		ID:            subject,
		Email:         email,
		Phone:         os.Getenv("LOOPSTATE_IDENTITY_PHONE"),
		WalletAddress: os.Getenv("LOOPSTATE_IDENTITY_WALLET"),
	}, nil
}

func (p *EnvProvider) CreateWallet() (string, error) {
	if !p.loggedIn {
		return "", fmt.Errorf("not authenticated")
	}
	if wallet := os.Getenv("LOOPSTATE_IDENTITY_WALLET"); wallet != "" {
		return wallet, nil
	}
	p.walletSeq++
	return fmt.Sprintf("0xdev%036d", p.walletSeq), nil
}
