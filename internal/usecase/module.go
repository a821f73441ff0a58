package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/eshop/internal/config"
	"github.com/polkiloo/eshop/internal/domain/repository"
	pkgAuth "github.com/polkiloo/eshop/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newAuthUseCase,
	DefaultPolicy,
	newOrderOptions,
	newOrderUseCase,
)

type authParams struct {
	fx.In

	Users    repository.UserRepository
	Hasher   pkgAuth.PasswordHasher
	Strategy pkgAuth.Strategy
	Config   *config.Config
	Logger   *slog.Logger
}

func newAuthUseCase(p authParams) *AuthUseCase {
	if len(p.Config.AdminLogins) > 0 {
		p.Logger.Info("admin bootstrap logins configured", slog.Int("count", len(p.Config.AdminLogins)))
	}
	return NewAuthUseCase(p.Users, p.Hasher, p.Strategy, WithAdminLogins(p.Config.AdminLogins...))
}

func newOrderOptions(cfg *config.Config) OrderOptions {
	return OrderOptions{
		DefaultStatusID: cfg.DefaultOrderStatus,
		Transitions:     cfg.StatusTransitions,
	}
}

type orderParams struct {
	fx.In

	Products repository.ProductRepository
	Users    repository.UserRepository
	Statuses repository.StatusRepository
	Orders   repository.OrderRepository
	Policy   Policy
	Options  OrderOptions
	Logger   *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Products, p.Users, p.Statuses, p.Orders, p.Policy, p.Options,
		p.Logger.With(slog.String("component", "orders")))
}
