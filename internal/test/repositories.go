package test

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[user.Login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	stored := *user
	stored.ID = s.Next
	if len(stored.Roles) == 0 {
		stored.Roles = []model.Role{model.RoleUser}
	}
	s.Next++
	s.Users[stored.Login] = &stored
	s.ByID[stored.ID] = &stored
	return &stored, nil
}

// Add stores a ready user, keeping its identifier.
func (s *UserRepositoryStub) Add(user *model.User) *model.User {
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	s.Users[user.Login] = user
	s.ByID[user.ID] = user
	if user.ID >= s.Next {
		s.Next = user.ID + 1
	}
	return user
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProductRepositoryStub serves a fixed catalog.
type ProductRepositoryStub struct {
	Products []model.Product
	Err      error
}

func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ProductRepositoryStub) GetByName(ctx context.Context, name string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.Name == name {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// StatusRepositoryStub serves the status registry. A nil Statuses slice means the seeded defaults.
type StatusRepositoryStub struct {
	Statuses []model.OrderStatus
	Err      error
}

func (s *StatusRepositoryStub) registry() []model.OrderStatus {
	if s.Statuses == nil {
		return model.DefaultStatuses()
	}
	return s.Statuses
}

func (s *StatusRepositoryStub) Exists(ctx context.Context, id int64) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	_, err := s.GetByID(ctx, id)
	return err == nil, nil
}

func (s *StatusRepositoryStub) GetByID(ctx context.Context, id int64) (*model.OrderStatus, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, st := range s.registry() {
		if st.ID == id {
			status := st
			return &status, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *StatusRepositoryStub) List(ctx context.Context) ([]model.OrderStatus, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return slices.Clone(s.registry()), nil
}

// OrderRepositoryStub keeps orders in memory. Writes made inside WithinTransaction
// land on a copy that replaces the committed state only when fn returns nil.
type OrderRepositoryStub struct {
	mu        sync.Mutex
	orders    map[int64]model.Order
	nextOrder int64
	nextLine  int64
	clock     func() time.Time

	// Writes counts mutating calls made through any transaction, committed or not.
	Writes int
	// FailOn makes the named transactional method ("Insert", "UpdateStatus", ...) return Err.
	FailOn string
	Err    error
}

// NewOrderRepositoryStub constructs an empty store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int64
	return &OrderRepositoryStub{
		orders:    make(map[int64]model.Order),
		nextOrder: 1,
		nextLine:  1,
		clock: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		},
	}
}

// Len returns the number of committed orders.
func (s *OrderRepositoryStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *OrderRepositoryStub) List(ctx context.Context, page model.Page) ([]model.Order, error) {
	all := s.filter(func(model.Order) bool { return true })
	if page.Offset >= len(all) {
		return []model.Order{}, nil
	}
	all = all[page.Offset:]
	if page.Limit > 0 && page.Limit < len(all) {
		all = all[:page.Limit]
	}
	return all, nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64, statusID *int64) ([]model.Order, error) {
	return s.filter(func(o model.Order) bool {
		return o.UserID == userID && (statusID == nil || o.StatusID == *statusID)
	}), nil
}

func (s *OrderRepositoryStub) ListByStatus(ctx context.Context, statusID int64) ([]model.Order, error) {
	return s.filter(func(o model.Order) bool { return o.StatusID == statusID }), nil
}

func (s *OrderRepositoryStub) WithinTransaction(ctx context.Context, fn func(repository.OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := make(map[int64]model.Order, len(s.orders))
	for id, o := range s.orders {
		work[id] = cloneOrder(o)
	}
	tx := &orderTxStub{store: s, orders: work}
	if err := fn(tx); err != nil {
		return err
	}
	s.orders = work
	return nil
}

func (s *OrderRepositoryStub) filter(keep func(model.Order) bool) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type orderTxStub struct {
	store  *OrderRepositoryStub
	orders map[int64]model.Order
}

func (t *orderTxStub) fail(method string) error {
	if t.store.FailOn == method {
		return t.store.Err
	}
	return nil
}

func (t *orderTxStub) Get(ctx context.Context, id int64) (*model.Order, error) {
	if err := t.fail("Get"); err != nil {
		return nil, err
	}
	o, ok := t.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (t *orderTxStub) Insert(ctx context.Context, order *model.Order) error {
	t.store.Writes++
	if err := t.fail("Insert"); err != nil {
		return err
	}
	order.ID = t.store.nextOrder
	t.store.nextOrder++
	order.CreatedAt = t.store.clock()
	t.assignLines(order)
	t.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (t *orderTxStub) ReplaceLines(ctx context.Context, order *model.Order) error {
	t.store.Writes++
	if err := t.fail("ReplaceLines"); err != nil {
		return err
	}
	stored, ok := t.orders[order.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	t.assignLines(order)
	stored.Lines = cloneOrder(*order).Lines
	t.orders[order.ID] = stored
	return nil
}

func (t *orderTxStub) UpdateTotals(ctx context.Context, order *model.Order) error {
	t.store.Writes++
	if err := t.fail("UpdateTotals"); err != nil {
		return err
	}
	stored, ok := t.orders[order.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	stored.TotalPrice = order.TotalPrice
	stored.TotalWeight = order.TotalWeight
	t.orders[order.ID] = stored
	return nil
}

func (t *orderTxStub) UpdateStatus(ctx context.Context, orderID, statusID int64) error {
	t.store.Writes++
	if err := t.fail("UpdateStatus"); err != nil {
		return err
	}
	stored, ok := t.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	stored.StatusID = statusID
	t.orders[orderID] = stored
	return nil
}

func (t *orderTxStub) Delete(ctx context.Context, orderID int64) error {
	t.store.Writes++
	if err := t.fail("Delete"); err != nil {
		return err
	}
	if _, ok := t.orders[orderID]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(t.orders, orderID)
	return nil
}

func (t *orderTxStub) assignLines(order *model.Order) {
	for i := range order.Lines {
		order.Lines[i].ID = t.store.nextLine
		order.Lines[i].OrderID = order.ID
		t.store.nextLine++
	}
}

func cloneOrder(o model.Order) model.Order {
	o.Lines = slices.Clone(o.Lines)
	return o
}

var (
	_ repository.UserRepository    = (*UserRepositoryStub)(nil)
	_ repository.ProductRepository = (*ProductRepositoryStub)(nil)
	_ repository.StatusRepository  = (*StatusRepositoryStub)(nil)
	_ repository.OrderRepository   = (*OrderRepositoryStub)(nil)
)
