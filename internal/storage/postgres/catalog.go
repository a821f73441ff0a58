package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/eshop/internal/domain/model"
)

type productRepository struct {
	storage *Storage
}

type statusRepository struct {
	storage *Storage
}

const selectProduct = `SELECT id, name, description, price::text, weight::text, COALESCE(category_id, 0) FROM products`

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return scanProduct(r.storage.pool.QueryRow(ctx, selectProduct+` WHERE id=$1`, id))
}

func (r *productRepository) GetByName(ctx context.Context, name string) (*model.Product, error) {
	return scanProduct(r.storage.pool.QueryRow(ctx, selectProduct+` WHERE name=$1`, name))
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p             model.Product
		price, weight string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &weight, &p.CategoryID); err != nil {
		return nil, classify(err)
	}
	var err error
	if p.Price, err = parseNumeric(price); err != nil {
		return nil, err
	}
	if p.Weight, err = parseNumeric(weight); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *statusRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM order_statuses WHERE id=$1)`
	var ok bool
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, classify(err)
	}
	return ok, nil
}

func (r *statusRepository) GetByID(ctx context.Context, id int64) (*model.OrderStatus, error) {
	const query = `SELECT id, name FROM order_statuses WHERE id=$1`
	var st model.OrderStatus
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(&st.ID, &st.Name); err != nil {
		return nil, classify(err)
	}
	return &st, nil
}

func (r *statusRepository) List(ctx context.Context) ([]model.OrderStatus, error) {
	const query = `SELECT id, name FROM order_statuses ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var result []model.OrderStatus
	for rows.Next() {
		var st model.OrderStatus
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
