package repository

import (
	"context"

	"github.com/polkiloo/eshop/internal/domain/model"
)

// OrderRepository describes persistence of order aggregates.
// Reads see the latest committed state; every mutation goes through WithinTransaction.
type OrderRepository interface {
	List(ctx context.Context, page model.Page) ([]model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64, statusID *int64) ([]model.Order, error)
	ListByStatus(ctx context.Context, statusID int64) ([]model.Order, error)
	WithinTransaction(ctx context.Context, fn func(OrderTx) error) error
}

// OrderTx is a transaction-scoped handle. Nothing written through it is visible
// outside the transaction until fn passed to WithinTransaction returns nil.
type OrderTx interface {
	Get(ctx context.Context, id int64) (*model.Order, error)
	Insert(ctx context.Context, order *model.Order) error
	ReplaceLines(ctx context.Context, order *model.Order) error
	UpdateTotals(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, orderID, statusID int64) error
	Delete(ctx context.Context, orderID int64) error
}
