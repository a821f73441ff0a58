package repository

import (
	"context"

	"github.com/polkiloo/eshop/internal/domain/model"
)

// ProductRepository resolves catalog entries referenced by orders.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetByName(ctx context.Context, name string) (*model.Product, error)
}
