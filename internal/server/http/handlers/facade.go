package handlers

import (
	"context"

	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in usecase.RegisterRequest) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	Requester(ctx context.Context, token string) (model.Requester, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	ListOrders(ctx context.Context, req model.Requester, page model.Page) ([]model.Order, error)
	Order(ctx context.Context, req model.Requester, id int64) (*model.Order, error)
	UserOrders(ctx context.Context, req model.Requester, userName string, statusID *int64) ([]model.Order, error)
	OrdersByStatus(ctx context.Context, req model.Requester, statusID int64) ([]model.Order, error)
	CreateOrder(ctx context.Context, req model.Requester, in usecase.CreateOrderRequest) (*model.Order, error)
	UpdateOrder(ctx context.Context, req model.Requester, id int64, in usecase.UpdateOrderRequest) (*model.Order, error)
	ChangeOrderStatus(ctx context.Context, req model.Requester, id, statusID int64) (*model.Order, error)
	DeleteOrder(ctx context.Context, req model.Requester, id int64) error
}

// HealthFacade reports whether backing services are reachable.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	AuthFacade
	OrderFacade
	HealthFacade
}
