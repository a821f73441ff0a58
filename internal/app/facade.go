package app

import (
	"context"

	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/usecase"
)

// HealthChecker reports backing storage reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ShopFacade is the single entry point of the HTTP layer into the use cases.
type ShopFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
	health HealthChecker
}

func NewShopFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, health HealthChecker) *ShopFacade {
	return &ShopFacade{auth: auth, orders: orders, health: health}
}

func (f *ShopFacade) Register(ctx context.Context, in usecase.RegisterRequest) (string, error) {
	_, token, err := f.auth.Register(ctx, in)
	return token, err
}

func (f *ShopFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *ShopFacade) Requester(ctx context.Context, token string) (model.Requester, error) {
	return f.auth.Requester(ctx, token)
}

func (f *ShopFacade) ListOrders(ctx context.Context, req model.Requester, page model.Page) ([]model.Order, error) {
	return f.orders.ListAll(ctx, req, page)
}

func (f *ShopFacade) Order(ctx context.Context, req model.Requester, id int64) (*model.Order, error) {
	return f.orders.GetByID(ctx, req, id)
}

func (f *ShopFacade) UserOrders(ctx context.Context, req model.Requester, userName string, statusID *int64) ([]model.Order, error) {
	return f.orders.ListForUser(ctx, req, userName, statusID)
}

func (f *ShopFacade) OrdersByStatus(ctx context.Context, req model.Requester, statusID int64) ([]model.Order, error) {
	return f.orders.ListByStatus(ctx, req, statusID)
}

func (f *ShopFacade) CreateOrder(ctx context.Context, req model.Requester, in usecase.CreateOrderRequest) (*model.Order, error) {
	return f.orders.Create(ctx, req, in)
}

func (f *ShopFacade) UpdateOrder(ctx context.Context, req model.Requester, id int64, in usecase.UpdateOrderRequest) (*model.Order, error) {
	return f.orders.Update(ctx, req, id, in)
}

func (f *ShopFacade) ChangeOrderStatus(ctx context.Context, req model.Requester, id, statusID int64) (*model.Order, error) {
	return f.orders.ChangeStatus(ctx, req, id, statusID)
}

func (f *ShopFacade) DeleteOrder(ctx context.Context, req model.Requester, id int64) error {
	return f.orders.Delete(ctx, req, id)
}

func (f *ShopFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
