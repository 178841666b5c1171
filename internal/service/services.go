package service

import (
	"github.com/rafael/central-backend/internal/config"
	"github.com/rafael/central-backend/internal/gateway"
	"github.com/rafael/central-backend/internal/repository"
	"github.com/rs/zerolog"
	stripeclient "github.com/stripe/stripe-go/v78/client"
)

// Services bundles the business layer for handler wiring.
type Services struct {
	Auth     *AuthService
	User     *UserService
	Customer *CustomerService
	Team     *TeamService
}

func NewServices(repos *repository.Repositories, gatewayClient *gateway.PaymentGatewayClient, cfg *config.Config, logger zerolog.Logger) *Services {
	var stripeAPI *stripeclient.API
	if cfg.StripeSecretKey != "" {
		stripeAPI = &stripeclient.API{}
		stripeAPI.Init(cfg.StripeSecretKey, nil)
	}

	return &Services{
		Auth:     NewAuthService(repos.User, repos.Session, repos.Approval, repos.Role, cfg, logger),
		User:     NewUserService(repos, cfg, logger),
		Customer: NewCustomerService(repos, gatewayClient, stripeAPI, cfg, logger),
		Team:     NewTeamService(repos, logger),
	}
}
