package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/usecase"
)

// ShopFacadeStub provides controllable behaviour for HTTP layer tests.
// Requester resolves tokens through Tokens unless RequesterFn is set.
type ShopFacadeStub struct {
	Tokens map[string]model.Requester

	RegisterFn          func(context.Context, usecase.RegisterRequest) (string, error)
	AuthenticateFn      func(context.Context, string, string) (string, error)
	RequesterFn         func(context.Context, string) (model.Requester, error)
	ListOrdersFn        func(context.Context, model.Requester, model.Page) ([]model.Order, error)
	OrderFn             func(context.Context, model.Requester, int64) (*model.Order, error)
	UserOrdersFn        func(context.Context, model.Requester, string, *int64) ([]model.Order, error)
	OrdersByStatusFn    func(context.Context, model.Requester, int64) ([]model.Order, error)
	CreateOrderFn       func(context.Context, model.Requester, usecase.CreateOrderRequest) (*model.Order, error)
	UpdateOrderFn       func(context.Context, model.Requester, int64, usecase.UpdateOrderRequest) (*model.Order, error)
	ChangeOrderStatusFn func(context.Context, model.Requester, int64, int64) (*model.Order, error)
	DeleteOrderFn       func(context.Context, model.Requester, int64) error
	HealthCheckFn       func(context.Context) error
}

// SampleOrder returns an order with one line of two items.
func SampleOrder(id, userID int64) *model.Order {
	o := &model.Order{
		ID:              id,
		UserID:          userID,
		StatusID:        model.StatusNew,
		ShippingAddress: model.Address{Country: "NL", City: "Utrecht", Street: "Oudegracht 1", PostalCode: "3511"},
		CreatedAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Lines: []model.OrderLine{{
			ID: 1, OrderID: id, ProductID: 7, ProductName: "mug", Quantity: 2,
			UnitPrice: decimal.RequireFromString("4.50"), UnitWeight: decimal.RequireFromString("0.300"),
		}},
	}
	o.Recalculate()
	return o
}

func (s ShopFacadeStub) Register(ctx context.Context, in usecase.RegisterRequest) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return "token", nil
}

func (s ShopFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

func (s ShopFacadeStub) Requester(ctx context.Context, token string) (model.Requester, error) {
	if s.RequesterFn != nil {
		return s.RequesterFn(ctx, token)
	}
	return RequesterResolverStub{Tokens: s.Tokens}.Requester(ctx, token)
}

func (s ShopFacadeStub) ListOrders(ctx context.Context, req model.Requester, page model.Page) ([]model.Order, error) {
	if s.ListOrdersFn != nil {
		return s.ListOrdersFn(ctx, req, page)
	}
	return []model.Order{*SampleOrder(1, req.UserID)}, nil
}

func (s ShopFacadeStub) Order(ctx context.Context, req model.Requester, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, req, id)
	}
	return SampleOrder(id, req.UserID), nil
}

func (s ShopFacadeStub) UserOrders(ctx context.Context, req model.Requester, userName string, statusID *int64) ([]model.Order, error) {
	if s.UserOrdersFn != nil {
		return s.UserOrdersFn(ctx, req, userName, statusID)
	}
	return []model.Order{*SampleOrder(1, req.UserID)}, nil
}

func (s ShopFacadeStub) OrdersByStatus(ctx context.Context, req model.Requester, statusID int64) ([]model.Order, error) {
	if s.OrdersByStatusFn != nil {
		return s.OrdersByStatusFn(ctx, req, statusID)
	}
	return []model.Order{}, nil
}

func (s ShopFacadeStub) CreateOrder(ctx context.Context, req model.Requester, in usecase.CreateOrderRequest) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, req, in)
	}
	return SampleOrder(1, req.UserID), nil
}

func (s ShopFacadeStub) UpdateOrder(ctx context.Context, req model.Requester, id int64, in usecase.UpdateOrderRequest) (*model.Order, error) {
	if s.UpdateOrderFn != nil {
		return s.UpdateOrderFn(ctx, req, id, in)
	}
	return SampleOrder(id, req.UserID), nil
}

func (s ShopFacadeStub) ChangeOrderStatus(ctx context.Context, req model.Requester, id, statusID int64) (*model.Order, error) {
	if s.ChangeOrderStatusFn != nil {
		return s.ChangeOrderStatusFn(ctx, req, id, statusID)
	}
	o := SampleOrder(id, req.UserID)
	o.StatusID = statusID
	return o, nil
}

func (s ShopFacadeStub) DeleteOrder(ctx context.Context, req model.Requester, id int64) error {
	if s.DeleteOrderFn != nil {
		return s.DeleteOrderFn(ctx, req, id)
	}
	return nil
}

func (s ShopFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthCheckFn != nil {
		return s.HealthCheckFn(ctx)
	}
	return nil
}

// HealthCheckerStub reports a fixed storage health.
type HealthCheckerStub struct {
	Err   error
	Calls int
}

func (s *HealthCheckerStub) HealthCheck(ctx context.Context) error {
	s.Calls++
	return s.Err
}
