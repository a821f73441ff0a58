package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/domain/repository"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500

	// MaxLineQuantity bounds a line quantity, merged duplicates included. It matches the INTEGER column.
	MaxLineQuantity = math.MaxInt32
)

// OrderOptions tune the workflow.
type OrderOptions struct {
	DefaultStatusID int64
	Transitions     model.Transitions
}

// LineRequest references a product by id or, when ProductID is zero, by name.
type LineRequest struct {
	ProductID   int64
	ProductName string
	Quantity    int
}

// CreateOrderRequest places an order for UserName (the requester when empty).
type CreateOrderRequest struct {
	UserName string
	Lines    []LineRequest
}

// UpdateOrderRequest changes the line set, the status or both. Nil fields are left alone.
type UpdateOrderRequest struct {
	Lines    []LineRequest
	StatusID *int64
}

// OrderUseCase runs the order workflow: every call is policy-checked first and
// every mutation happens inside one storage transaction.
type OrderUseCase struct {
	products repository.ProductRepository
	users    repository.UserRepository
	statuses repository.StatusRepository
	orders   repository.OrderRepository
	policy   Policy
	opts     OrderOptions
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	products repository.ProductRepository,
	users repository.UserRepository,
	statuses repository.StatusRepository,
	orders repository.OrderRepository,
	policy Policy,
	opts OrderOptions,
	logger *slog.Logger,
) *OrderUseCase {
	if opts.DefaultStatusID <= 0 {
		opts.DefaultStatusID = model.StatusNew
	}
	return &OrderUseCase{
		products: products,
		users:    users,
		statuses: statuses,
		orders:   orders,
		policy:   policy,
		opts:     opts,
		logger:   logger,
	}
}

// ListAll returns a page of all orders, newest first.
func (u *OrderUseCase) ListAll(ctx context.Context, req model.Requester, page model.Page) ([]model.Order, error) {
	if err := u.policy.Authorize(req, OpListAll); err != nil {
		return nil, err
	}
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}
	return u.orders.List(ctx, page)
}

func (u *OrderUseCase) GetByID(ctx context.Context, req model.Requester, id int64) (*model.Order, error) {
	if err := u.policy.Authorize(req, OpGetByID); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, id)
}

// ListForUser returns orders placed by userName, optionally only those in statusID.
func (u *OrderUseCase) ListForUser(ctx context.Context, req model.Requester, userName string, statusID *int64) ([]model.Order, error) {
	if err := u.policy.Authorize(req, OpListForUser); err != nil {
		return nil, err
	}
	if err := u.policy.AuthorizeLogin(req, OpListForUser, userName); err != nil {
		return nil, err
	}
	user, err := u.users.GetByLogin(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", userName, err)
	}
	if err := u.policy.AuthorizeTarget(req, OpListForUser, user.ID); err != nil {
		return nil, err
	}
	if statusID != nil {
		if err := u.requireStatus(ctx, *statusID); err != nil {
			return nil, err
		}
	}
	return u.orders.ListByUser(ctx, user.ID, statusID)
}

func (u *OrderUseCase) ListByStatus(ctx context.Context, req model.Requester, statusID int64) ([]model.Order, error) {
	if err := u.policy.Authorize(req, OpListByStatus); err != nil {
		return nil, err
	}
	if err := u.requireStatus(ctx, statusID); err != nil {
		return nil, err
	}
	return u.orders.ListByStatus(ctx, statusID)
}

// Create places a new order. Prices and weights are frozen from the catalog and the
// shipping address is copied from the owner's default address.
func (u *OrderUseCase) Create(ctx context.Context, req model.Requester, in CreateOrderRequest) (*model.Order, error) {
	if err := u.policy.Authorize(req, OpCreate); err != nil {
		return nil, err
	}
	userName := in.UserName
	if userName == "" {
		userName = req.Login
	}
	if err := u.policy.AuthorizeLogin(req, OpCreate, userName); err != nil {
		return nil, err
	}

	var created *model.Order
	err := u.orders.WithinTransaction(ctx, func(tx repository.OrderTx) error {
		user, err := u.users.GetByLogin(ctx, userName)
		if err != nil {
			return fmt.Errorf("user %q: %w", userName, err)
		}
		if err := u.policy.AuthorizeTarget(req, OpCreate, user.ID); err != nil {
			return err
		}
		if user.ShippingAddress == nil || user.ShippingAddress.IsZero() {
			return fmt.Errorf("shipping address of %q: %w", userName, domainErrors.ErrNotFound)
		}

		lines, err := u.resolveLines(ctx, in.Lines)
		if err != nil {
			return err
		}
		if err := u.requireStatus(ctx, u.opts.DefaultStatusID); err != nil {
			return err
		}

		order := &model.Order{
			UserID:          user.ID,
			StatusID:        u.opts.DefaultStatusID,
			ShippingAddress: *user.ShippingAddress,
			Lines:           lines,
		}
		order.Recalculate()
		if err := tx.Insert(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", created.ID),
		slog.String("user", userName),
		slog.Int64("status_id", created.StatusID),
		slog.String("total_price", created.TotalPrice.String()),
	)
	return created, nil
}

// Update replaces lines and/or the status of an existing order. Owner and shipping
// address never change.
func (u *OrderUseCase) Update(ctx context.Context, req model.Requester, id int64, in UpdateOrderRequest) (*model.Order, error) {
	if err := u.policy.Authorize(req, OpUpdate); err != nil {
		return nil, err
	}
	if in.Lines != nil && len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one line", domainErrors.ErrInvalidOrder)
	}

	var updated *model.Order
	err := u.orders.WithinTransaction(ctx, func(tx repository.OrderTx) error {
		order, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if _, err := u.users.GetByID(ctx, order.UserID); err != nil {
			return fmt.Errorf("order owner %d: %w", order.UserID, err)
		}

		if in.Lines != nil {
			lines, err := u.resolveLines(ctx, in.Lines)
			if err != nil {
				return err
			}
			order.Lines = lines
			order.Recalculate()
			if err := tx.ReplaceLines(ctx, order); err != nil {
				return err
			}
			if err := tx.UpdateTotals(ctx, order); err != nil {
				return err
			}
		}

		if in.StatusID != nil {
			if err := u.moveStatus(ctx, tx, order, *in.StatusID); err != nil {
				return err
			}
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "order updated",
		slog.Int64("order_id", updated.ID),
		slog.Int64("status_id", updated.StatusID),
		slog.Bool("lines_replaced", in.Lines != nil),
	)
	return updated, nil
}

// ChangeStatus moves an order to statusID and touches nothing else.
func (u *OrderUseCase) ChangeStatus(ctx context.Context, req model.Requester, id, statusID int64) (*model.Order, error) {
	if err := u.policy.Authorize(req, OpChangeStatus); err != nil {
		return nil, err
	}

	var (
		changed *model.Order
		from    int64
	)
	err := u.orders.WithinTransaction(ctx, func(tx repository.OrderTx) error {
		order, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		from = order.StatusID
		if err := u.moveStatus(ctx, tx, order, statusID); err != nil {
			return err
		}
		changed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "order status changed",
		slog.Int64("order_id", id),
		slog.Int64("from", from),
		slog.Int64("to", statusID),
		slog.String("by", req.Login),
	)
	return changed, nil
}

// Delete removes the order and its lines.
func (u *OrderUseCase) Delete(ctx context.Context, req model.Requester, id int64) error {
	if err := u.policy.Authorize(req, OpDelete); err != nil {
		return err
	}
	err := u.orders.WithinTransaction(ctx, func(tx repository.OrderTx) error {
		if _, err := tx.Get(ctx, id); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	u.logger.InfoContext(ctx, "order deleted", slog.Int64("order_id", id), slog.String("by", req.Login))
	return nil
}

func (u *OrderUseCase) moveStatus(ctx context.Context, tx repository.OrderTx, order *model.Order, statusID int64) error {
	if err := u.requireStatus(ctx, statusID); err != nil {
		return err
	}
	if !u.opts.Transitions.Allows(order.StatusID, statusID) {
		return fmt.Errorf("%w: %d -> %d", domainErrors.ErrInvalidTransition, order.StatusID, statusID)
	}
	if err := tx.UpdateStatus(ctx, order.ID, statusID); err != nil {
		return err
	}
	order.StatusID = statusID
	return nil
}

func (u *OrderUseCase) requireStatus(ctx context.Context, statusID int64) error {
	if statusID <= 0 {
		return fmt.Errorf("%w: %d", domainErrors.ErrInvalidStatus, statusID)
	}
	ok, err := u.statuses.Exists(ctx, statusID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", domainErrors.ErrInvalidStatus, statusID)
	}
	return nil
}

// resolveLines validates requested lines, looks products up and freezes their
// price and weight. Lines naming the same product are merged.
func (u *OrderUseCase) resolveLines(ctx context.Context, in []LineRequest) ([]model.OrderLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one line", domainErrors.ErrInvalidOrder)
	}
	for i, l := range in {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d: quantity must be positive", domainErrors.ErrInvalidOrder, i+1)
		}
		if l.Quantity > MaxLineQuantity {
			return nil, fmt.Errorf("%w: line %d: quantity exceeds %d", domainErrors.ErrInvalidOrder, i+1, MaxLineQuantity)
		}
		if l.ProductID <= 0 && l.ProductName == "" {
			return nil, fmt.Errorf("%w: line %d: product id or name required", domainErrors.ErrInvalidOrder, i+1)
		}
	}

	lines := make([]model.OrderLine, 0, len(in))
	index := make(map[int64]int, len(in))
	for _, l := range in {
		product, err := u.lookupProduct(ctx, l)
		if err != nil {
			return nil, err
		}
		if at, seen := index[product.ID]; seen {
			if lines[at].Quantity > MaxLineQuantity-l.Quantity {
				return nil, fmt.Errorf("%w: product %d: merged quantity exceeds %d", domainErrors.ErrInvalidOrder, product.ID, MaxLineQuantity)
			}
			lines[at].Quantity += l.Quantity
			continue
		}
		index[product.ID] = len(lines)
		lines = append(lines, model.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   product.Price,
			UnitWeight:  product.Weight,
		})
	}
	return lines, nil
}

func (u *OrderUseCase) lookupProduct(ctx context.Context, l LineRequest) (*model.Product, error) {
	if l.ProductID > 0 {
		p, err := u.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", l.ProductID, err)
		}
		return p, nil
	}
	p, err := u.products.GetByName(ctx, l.ProductName)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", l.ProductName, err)
	}
	return p, nil
}

func normalizePage(page model.Page) (model.Page, error) {
	if page.Limit < 0 || page.Offset < 0 {
		return page, fmt.Errorf("%w: negative limit or offset", domainErrors.ErrInvalidOrder)
	}
	if page.Limit == 0 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	return page, nil
}
