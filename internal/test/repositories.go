package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/swiftdrop/swiftdrop/internal/domain/errors"
	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	"github.com/swiftdrop/swiftdrop/internal/domain/repository"
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
func (s *UserRepositoryStub) Create(ctx context.Context, name, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Name: name, Login: login, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
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

// OrderRepositoryStub allows tests to customize behaviour per call.
type OrderRepositoryStub struct {
	CreateFn                  func(context.Context, repository.OrderDraft) (*model.Order, error)
	GetByIDFn                 func(context.Context, int64) (*model.Order, error)
	ListByCustomerFn          func(context.Context, int64) ([]model.Order, error)
	ListByCourierFn           func(context.Context, int64) ([]model.Order, error)
	ListUnassignedPendingFn   func(context.Context) ([]model.Order, error)
	ListDeliveredByCustomerFn func(context.Context, int64) ([]model.Order, error)
	ListDeliveredByCourierFn  func(context.Context, int64) ([]model.Order, error)
	CompareAndUpdateFn        func(context.Context, int64, repository.ExpectedState, repository.StateUpdate) (*model.Order, error)

	Orders  []model.Order
	Updates []CompareAndUpdateCall
}

// CompareAndUpdateCall records conditional write invocations.
type CompareAndUpdateCall struct {
	OrderID  int64
	Expected repository.ExpectedState
	Update   repository.StateUpdate
}

// Create delegates to override or stores nothing and echoes the draft.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	return &model.Order{
		ID:         1,
		CustomerID: draft.CustomerID,
		Product:    draft.Product,
		Quantity:   draft.Quantity,
		Location:   draft.Location,
		Status:     model.OrderStatusPending,
	}, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCustomer returns orders from configured slice.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.ListByCustomerFn != nil {
		return s.ListByCustomerFn(ctx, customerID)
	}
	return s.Orders, nil
}

// ListByCourier returns orders from configured slice.
func (s *OrderRepositoryStub) ListByCourier(ctx context.Context, courierID int64) ([]model.Order, error) {
	if s.ListByCourierFn != nil {
		return s.ListByCourierFn(ctx, courierID)
	}
	return s.Orders, nil
}

// ListUnassignedPending returns orders from configured slice.
func (s *OrderRepositoryStub) ListUnassignedPending(ctx context.Context) ([]model.Order, error) {
	if s.ListUnassignedPendingFn != nil {
		return s.ListUnassignedPendingFn(ctx)
	}
	return s.Orders, nil
}

// ListDeliveredByCustomer returns orders from configured slice.
func (s *OrderRepositoryStub) ListDeliveredByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.ListDeliveredByCustomerFn != nil {
		return s.ListDeliveredByCustomerFn(ctx, customerID)
	}
	return s.Orders, nil
}

// ListDeliveredByCourier returns orders from configured slice.
func (s *OrderRepositoryStub) ListDeliveredByCourier(ctx context.Context, courierID int64) ([]model.Order, error) {
	if s.ListDeliveredByCourierFn != nil {
		return s.ListDeliveredByCourierFn(ctx, courierID)
	}
	return s.Orders, nil
}

// CompareAndUpdate records invocation and delegates to override.
func (s *OrderRepositoryStub) CompareAndUpdate(ctx context.Context, orderID int64, expected repository.ExpectedState, update repository.StateUpdate) (*model.Order, error) {
	s.Updates = append(s.Updates, CompareAndUpdateCall{OrderID: orderID, Expected: expected, Update: update})
	if s.CompareAndUpdateFn != nil {
		return s.CompareAndUpdateFn(ctx, orderID, expected, update)
	}
	order := &model.Order{ID: orderID, Status: update.Status, CourierID: update.AssignCourierID}
	return order, nil
}

// InMemoryOrderRepository is a mutex-guarded repository whose
// CompareAndUpdate honors the conditional-write contract. It lets tests
// race real goroutines against the claim path.
type InMemoryOrderRepository struct {
	mu     sync.Mutex
	next   int64
	orders map[int64]*model.Order
}

// NewInMemoryOrderRepository constructs an empty repository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{next: 1, orders: make(map[int64]*model.Order)}
}

// Create stores a pending order and assigns id and timestamps.
func (r *InMemoryOrderRepository) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	order := &model.Order{
		ID:         r.next,
		CustomerID: draft.CustomerID,
		Product:    draft.Product,
		Quantity:   draft.Quantity,
		Location:   draft.Location,
		Status:     model.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.next++
	r.orders[order.ID] = order
	copied := *order
	return &copied, nil
}

// GetByID fetches a copy of the stored order.
func (r *InMemoryOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

// ListByCustomer returns orders owned by the customer.
func (r *InMemoryOrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return r.list(func(o *model.Order) bool { return o.CustomerID == customerID })
}

// ListByCourier returns orders assigned to the courier.
func (r *InMemoryOrderRepository) ListByCourier(ctx context.Context, courierID int64) ([]model.Order, error) {
	return r.list(func(o *model.Order) bool { return o.AssignedTo(courierID) })
}

// ListUnassignedPending returns claimable orders.
func (r *InMemoryOrderRepository) ListUnassignedPending(ctx context.Context) ([]model.Order, error) {
	return r.list(func(o *model.Order) bool { return o.Status == model.OrderStatusPending && !o.Assigned() })
}

// ListDeliveredByCustomer returns completed orders placed by the customer.
func (r *InMemoryOrderRepository) ListDeliveredByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return r.list(func(o *model.Order) bool {
		return o.CustomerID == customerID && o.Status == model.OrderStatusDelivered
	})
}

// ListDeliveredByCourier returns completed orders delivered by the courier.
func (r *InMemoryOrderRepository) ListDeliveredByCourier(ctx context.Context, courierID int64) ([]model.Order, error) {
	return r.list(func(o *model.Order) bool {
		return o.AssignedTo(courierID) && o.Status == model.OrderStatusDelivered
	})
}

// CompareAndUpdate applies the update only when the stored record still
// matches the expected state, otherwise fails with ErrConflict.
func (r *InMemoryOrderRepository) CompareAndUpdate(ctx context.Context, orderID int64, expected repository.ExpectedState, update repository.StateUpdate) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}

	if order.Status != expected.Status {
		return nil, domainErrors.ErrConflict
	}
	if expected.CourierUnassigned && order.Assigned() {
		return nil, domainErrors.ErrConflict
	}
	if expected.CourierID != nil && !order.AssignedTo(*expected.CourierID) {
		return nil, domainErrors.ErrConflict
	}

	order.Status = update.Status
	if update.AssignCourierID != nil {
		courierID := *update.AssignCourierID
		order.CourierID = &courierID
	}
	order.UpdatedAt = time.Now()

	copied := *order
	return &copied, nil
}

func (r *InMemoryOrderRepository) list(match func(*model.Order) bool) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []model.Order
	for _, o := range r.orders {
		if match(o) {
			result = append(result, *o)
		}
	}
	return result, nil
}
