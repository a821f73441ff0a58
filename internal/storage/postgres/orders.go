package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/domain/repository"
)

type orderRepository struct {
	storage *Storage
}

// orderTx binds order writes to a single pgx transaction.
type orderTx struct {
	tx pgx.Tx
}

// Numeric columns are read as text so decimal values keep their exact scale.
const selectOrder = `SELECT id, user_id, status_id, total_price::text, total_weight::text,
                            ship_country, ship_city, ship_street, ship_postal_code, created_at
                     FROM orders`

const selectLines = `SELECT id, order_id, product_id, product_name, quantity, unit_price::text, unit_weight::text
                     FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, id`

const newestFirst = ` ORDER BY created_at DESC, id DESC`

func (r *orderRepository) List(ctx context.Context, page model.Page) ([]model.Order, error) {
	return listOrders(ctx, r.storage.pool, selectOrder+newestFirst+` LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return loadOrder(ctx, r.storage.pool, id)
}

// ListByUser returns the user's orders, optionally narrowed to one status.
func (r *orderRepository) ListByUser(ctx context.Context, userID int64, statusID *int64) ([]model.Order, error) {
	const filter = ` WHERE user_id=$1 AND ($2::bigint IS NULL OR status_id=$2)`
	return listOrders(ctx, r.storage.pool, selectOrder+filter+newestFirst, userID, statusID)
}

func (r *orderRepository) ListByStatus(ctx context.Context, statusID int64) ([]model.Order, error) {
	return listOrders(ctx, r.storage.pool, selectOrder+` WHERE status_id=$1`+newestFirst, statusID)
}

func (r *orderRepository) WithinTransaction(ctx context.Context, fn func(repository.OrderTx) error) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return fn(&orderTx{tx: tx})
	})
}

func (t *orderTx) Get(ctx context.Context, id int64) (*model.Order, error) {
	return loadOrder(ctx, t.tx, id)
}

// Insert writes header and lines, filling the generated ids and creation time.
func (t *orderTx) Insert(ctx context.Context, order *model.Order) error {
	const query = `INSERT INTO orders (user_id, status_id, total_price, total_weight,
                                       ship_country, ship_city, ship_street, ship_postal_code)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, created_at`
	a := order.ShippingAddress
	err := t.tx.QueryRow(ctx, query, order.UserID, order.StatusID, order.TotalPrice, order.TotalWeight,
		a.Country, a.City, a.Street, a.PostalCode).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return classify(err)
	}
	return t.insertLines(ctx, order)
}

// ReplaceLines drops the current line set and writes order.Lines in its place.
func (t *orderTx) ReplaceLines(ctx context.Context, order *model.Order) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id=$1`, order.ID); err != nil {
		return classify(err)
	}
	return t.insertLines(ctx, order)
}

func (t *orderTx) UpdateTotals(ctx context.Context, order *model.Order) error {
	const query = `UPDATE orders SET total_price=$1, total_weight=$2 WHERE id=$3`
	tag, err := t.tx.Exec(ctx, query, order.TotalPrice, order.TotalWeight, order.ID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (t *orderTx) UpdateStatus(ctx context.Context, orderID, statusID int64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE orders SET status_id=$1 WHERE id=$2`, statusID, orderID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (t *orderTx) Delete(ctx context.Context, orderID int64) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id=$1`, orderID); err != nil {
		return classify(err)
	}
	tag, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (t *orderTx) insertLines(ctx context.Context, order *model.Order) error {
	const query = `INSERT INTO order_lines (order_id, product_id, product_name, quantity, unit_price, unit_weight)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id`
	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = order.ID
		err := t.tx.QueryRow(ctx, query, order.ID, line.ProductID, line.ProductName, line.Quantity,
			line.UnitPrice, line.UnitWeight).Scan(&line.ID)
		if err != nil {
			return classify(err)
		}
	}
	return nil
}

func loadOrder(ctx context.Context, q querier, id int64) (*model.Order, error) {
	orders, err := listOrders(ctx, q, selectOrder+` WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return &orders[0], nil
}

// listOrders reads order headers and then all their lines with one extra query.
func listOrders(ctx context.Context, q querier, query string, args ...any) ([]model.Order, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var (
		orders []model.Order
		ids    []int64
	)
	for rows.Next() {
		var (
			o             model.Order
			price, weight string
		)
		a := &o.ShippingAddress
		if err := rows.Scan(&o.ID, &o.UserID, &o.StatusID, &price, &weight,
			&a.Country, &a.City, &a.Street, &a.PostalCode, &o.CreatedAt); err != nil {
			return nil, err
		}
		if o.TotalPrice, err = parseNumeric(price); err != nil {
			return nil, err
		}
		if o.TotalWeight, err = parseNumeric(weight); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(orders) == 0 {
		return orders, nil
	}
	if err := attachLines(ctx, q, orders, ids); err != nil {
		return nil, err
	}
	return orders, nil
}

func attachLines(ctx context.Context, q querier, orders []model.Order, ids []int64) error {
	rows, err := q.Query(ctx, selectLines, ids)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()

	byOrder := make(map[int64][]model.OrderLine, len(orders))
	for rows.Next() {
		var (
			l             model.OrderLine
			price, weight string
		)
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &price, &weight); err != nil {
			return err
		}
		if l.UnitPrice, err = parseNumeric(price); err != nil {
			return err
		}
		if l.UnitWeight, err = parseNumeric(weight); err != nil {
			return err
		}
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range orders {
		orders[i].Lines = byOrder[orders[i].ID]
	}
	return nil
}

func parseNumeric(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse numeric %q: %w", raw, err)
	}
	return d, nil
}
