package repository

import (
	"context"

	"github.com/polkiloo/eshop/internal/domain/model"
)

// StatusRepository exposes the order status registry.
type StatusRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.OrderStatus, error)
	List(ctx context.Context) ([]model.OrderStatus, error)
}
