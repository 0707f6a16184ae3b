package services

import (
	portsrepo "github.com/payswift/payswift_backend/internal/core/ports/repositories"
	portssvc "github.com/payswift/payswift_backend/internal/core/ports/services"
	"github.com/payswift/payswift_backend/internal/platform/config"
)

// NewContainer creates the service container with properly initialized
// dependencies.
func NewContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, opts ...LedgerServiceOption) (*portssvc.ServiceContainer, error) {
	session, err := NewSessionService(
		repos.UserRepo,
		cfg.DemoEmail,
		cfg.DemoPassword,
		cfg.JWTSecret,
		cfg.JWTIssuer,
		cfg.JWTExpiryDuration,
	)
	if err != nil {
		return nil, err
	}

	return &portssvc.ServiceContainer{
		Ledger:   NewLedgerService(repos, opts...),
		Session:  session,
		Checkout: NewCheckoutService(cfg.CheckoutBaseURL, cfg.CheckoutKeyID, cfg.CheckoutKeySecret, cfg.CheckoutTimeout),
	}, nil
}
