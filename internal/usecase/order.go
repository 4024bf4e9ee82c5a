package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/swiftdrop/swiftdrop/internal/domain/errors"
	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	"github.com/swiftdrop/swiftdrop/internal/domain/repository"
)

// EventPublisher broadcasts order change events to connected observers.
// Publication is fire-and-forget: it runs after the store confirms the
// write and its outcome never affects the transition result.
type EventPublisher interface {
	Publish(ctx context.Context, kind model.EventKind, order model.Order)
}

// OrderUseCase owns the order state machine: authorization per edge,
// transition legality, and the conditional-write claim. It never holds a
// lock across read-then-write; correctness rests on the repository's
// CompareAndUpdate contract.
type OrderUseCase struct {
	orders    repository.OrderRepository
	publisher EventPublisher
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, publisher EventPublisher) *OrderUseCase {
	return &OrderUseCase{orders: orders, publisher: publisher}
}

// Create places a new order in PENDING state. Only customers create orders.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Actor, product string, quantity int, location string) (*model.Order, error) {
	if actor.Role != model.RoleCustomer {
		return nil, fmt.Errorf("only customers can create orders: %w", domainErrors.ErrUnauthorized)
	}

	product = strings.TrimSpace(product)
	location = strings.TrimSpace(location)
	if product == "" || location == "" {
		return nil, fmt.Errorf("product and location are required: %w", domainErrors.ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", domainErrors.ErrValidation)
	}

	order, err := u.orders.Create(ctx, repository.OrderDraft{
		CustomerID: actor.ID,
		Product:    product,
		Quantity:   quantity,
		Location:   location,
	})
	if err != nil {
		return nil, err
	}

	u.publisher.Publish(ctx, model.EventOrderCreated, *order)
	return order, nil
}

// Transition advances an order to the target status on behalf of the
// actor. The authorization gate always runs before the legality gate, so
// unauthorized callers cannot probe the state machine through differing
// error types. The mutation is a conditional write keyed on the observed
// state; a lost race surfaces as ErrConflict and is never retried here.
func (u *OrderUseCase) Transition(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error) {
	if !target.Valid() || target == model.OrderStatusPending {
		return nil, fmt.Errorf("unknown target status %q: %w", target, domainErrors.ErrValidation)
	}

	if actor.Role != model.RoleCourier {
		return nil, fmt.Errorf("only couriers can update order status: %w", domainErrors.ErrUnauthorized)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Authorization first. For the claim the order must still be free;
	// for later edges the caller must be the assigned courier.
	if target == model.OrderStatusAccepted {
		if order.Assigned() && !order.AssignedTo(actor.ID) {
			return nil, fmt.Errorf("order is assigned to another courier: %w", domainErrors.ErrUnauthorized)
		}
	} else if !order.AssignedTo(actor.ID) {
		return nil, fmt.Errorf("order is not assigned to you: %w", domainErrors.ErrUnauthorized)
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, &domainErrors.TransitionError{From: string(order.Status), To: string(target)}
	}

	expected := repository.ExpectedState{Status: order.Status}
	update := repository.StateUpdate{Status: target}
	if target == model.OrderStatusAccepted {
		expected.CourierUnassigned = true
		courierID := actor.ID
		update.AssignCourierID = &courierID
	} else {
		courierID := actor.ID
		expected.CourierID = &courierID
	}

	updated, err := u.orders.CompareAndUpdate(ctx, orderID, expected, update)
	if err != nil {
		if target == model.OrderStatusAccepted && errors.Is(err, domainErrors.ErrConflict) {
			return nil, fmt.Errorf("order already accepted by another courier: %w", domainErrors.ErrConflict)
		}
		return nil, err
	}

	u.publisher.Publish(ctx, model.EventOrderUpdated, *updated)
	return updated, nil
}

// CustomerOrders lists a customer's orders, newest first. Actors may only
// read their own listings unless they are admins.
func (u *OrderUseCase) CustomerOrders(ctx context.Context, actor model.Actor, customerID int64) ([]model.Order, error) {
	if actor.ID != customerID && actor.Role != model.RoleAdmin {
		return nil, fmt.Errorf("cannot list another customer's orders: %w", domainErrors.ErrUnauthorized)
	}
	return u.orders.ListByCustomer(ctx, customerID)
}

// CourierOrders lists orders assigned to a courier, newest first.
func (u *OrderUseCase) CourierOrders(ctx context.Context, actor model.Actor, courierID int64) ([]model.Order, error) {
	if actor.ID != courierID && actor.Role != model.RoleAdmin {
		return nil, fmt.Errorf("cannot list another courier's orders: %w", domainErrors.ErrUnauthorized)
	}
	return u.orders.ListByCourier(ctx, courierID)
}

// UnassignedPending lists claimable orders. Courier role only.
func (u *OrderUseCase) UnassignedPending(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if actor.Role != model.RoleCourier {
		return nil, fmt.Errorf("only couriers can browse pending orders: %w", domainErrors.ErrUnauthorized)
	}
	return u.orders.ListUnassignedPending(ctx)
}

// DeliveredHistory lists completed orders for a user, newest updated
// first. The listing is role scoped: customers see orders they placed,
// couriers see orders they delivered. Only the user themselves may ask.
func (u *OrderUseCase) DeliveredHistory(ctx context.Context, actor model.Actor, userID int64) ([]model.Order, error) {
	if actor.ID != userID {
		return nil, fmt.Errorf("cannot read another user's history: %w", domainErrors.ErrUnauthorized)
	}

	switch actor.Role {
	case model.RoleCustomer:
		return u.orders.ListDeliveredByCustomer(ctx, userID)
	case model.RoleCourier:
		return u.orders.ListDeliveredByCourier(ctx, userID)
	default:
		return nil, fmt.Errorf("history is scoped to customers and couriers: %w", domainErrors.ErrUnauthorized)
	}
}
