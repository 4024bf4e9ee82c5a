package repository

import (
	"context"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
)

// OrderDraft carries the immutable payload of a new order.
type OrderDraft struct {
	CustomerID int64
	Product    string
	Quantity   int
	Location   string
}

// ExpectedState is the precondition of a conditional write. A write only
// applies when the stored record still matches it.
type ExpectedState struct {
	Status model.OrderStatus
	// CourierUnassigned requires courier_id to be NULL (the claim path).
	CourierUnassigned bool
	// CourierID, when set, requires the order to be assigned to exactly
	// this courier (ordinary transitions).
	CourierID *int64
}

// StateUpdate is the new state applied by a conditional write.
type StateUpdate struct {
	Status model.OrderStatus
	// AssignCourierID, when set, binds the order to a courier. Only the
	// claim transition sets it; assignment is never cleared.
	AssignCourierID *int64
}

// OrderRepository describes persistence operations with orders.
// CompareAndUpdate is the only mutation path after creation and must be
// atomic: when the record no longer matches the expected state it fails
// with ErrConflict instead of overwriting.
type OrderRepository interface {
	Create(ctx context.Context, draft OrderDraft) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListByCourier(ctx context.Context, courierID int64) ([]model.Order, error)
	ListUnassignedPending(ctx context.Context) ([]model.Order, error)
	ListDeliveredByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListDeliveredByCourier(ctx context.Context, courierID int64) ([]model.Order, error)
	CompareAndUpdate(ctx context.Context, orderID int64, expected ExpectedState, update StateUpdate) (*model.Order, error)
}
