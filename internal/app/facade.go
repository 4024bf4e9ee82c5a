package app

import (
	"context"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
	"github.com/swiftdrop/swiftdrop/internal/usecase"
)

// DeliveryFacade aggregates use cases behind the single surface the
// transport layer depends on.
type DeliveryFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
}

// NewDeliveryFacade constructs DeliveryFacade.
func NewDeliveryFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase) *DeliveryFacade {
	return &DeliveryFacade{auth: auth, orders: orders}
}

func (f *DeliveryFacade) Register(ctx context.Context, name, login, password, role string) (*model.User, string, error) {
	return f.auth.Register(ctx, name, login, password, role)
}

func (f *DeliveryFacade) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *DeliveryFacade) ParseToken(token string) (*pkgAuth.TokenClaims, error) {
	return f.auth.ParseToken(token)
}

func (f *DeliveryFacade) User(ctx context.Context, id int64) (*model.User, error) {
	return f.auth.GetByID(ctx, id)
}

func (f *DeliveryFacade) CreateOrder(ctx context.Context, actor model.Actor, product string, quantity int, location string) (*model.Order, error) {
	return f.orders.Create(ctx, actor, product, quantity, location)
}

func (f *DeliveryFacade) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error) {
	return f.orders.Transition(ctx, actor, orderID, target)
}

func (f *DeliveryFacade) CustomerOrders(ctx context.Context, actor model.Actor, customerID int64) ([]model.Order, error) {
	return f.orders.CustomerOrders(ctx, actor, customerID)
}

func (f *DeliveryFacade) CourierOrders(ctx context.Context, actor model.Actor, courierID int64) ([]model.Order, error) {
	return f.orders.CourierOrders(ctx, actor, courierID)
}

func (f *DeliveryFacade) PendingOrders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	return f.orders.UnassignedPending(ctx, actor)
}

func (f *DeliveryFacade) DeliveredHistory(ctx context.Context, actor model.Actor, userID int64) ([]model.Order, error) {
	return f.orders.DeliveredHistory(ctx, actor, userID)
}
