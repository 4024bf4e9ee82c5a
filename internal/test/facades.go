package test

import (
	"context"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
)

// DeliveryFacadeStub satisfies the transport facade with overridable
// functions. Zero-value methods succeed with canned data.
type DeliveryFacadeStub struct {
	RegisterFn         func(ctx context.Context, name, login, password, role string) (*model.User, string, error)
	AuthenticateFn     func(ctx context.Context, login, password string) (*model.User, string, error)
	ParseTokenFn       func(token string) (*pkgAuth.TokenClaims, error)
	UserFn             func(ctx context.Context, id int64) (*model.User, error)
	CreateOrderFn      func(ctx context.Context, actor model.Actor, product string, quantity int, location string) (*model.Order, error)
	UpdateStatusFn     func(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error)
	CustomerOrdersFn   func(ctx context.Context, actor model.Actor, customerID int64) ([]model.Order, error)
	CourierOrdersFn    func(ctx context.Context, actor model.Actor, courierID int64) ([]model.Order, error)
	PendingOrdersFn    func(ctx context.Context, actor model.Actor) ([]model.Order, error)
	DeliveredHistoryFn func(ctx context.Context, actor model.Actor, userID int64) ([]model.Order, error)
}

func (s DeliveryFacadeStub) Register(ctx context.Context, name, login, password, role string) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, name, login, password, role)
	}
	return &model.User{ID: 1, Name: name, Login: login, Role: model.Role(role)}, "session-token", nil
}

func (s DeliveryFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.User{ID: 1, Login: login, Role: model.RoleCustomer}, "session-token", nil
}

func (s DeliveryFacadeStub) ParseToken(token string) (*pkgAuth.TokenClaims, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return StrategyStub{}.ParseToken(token)
}

func (s DeliveryFacadeStub) User(ctx context.Context, id int64) (*model.User, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, id)
	}
	return &model.User{ID: id, Name: "stub", Login: "stub", Role: model.RoleCustomer}, nil
}

func (s DeliveryFacadeStub) CreateOrder(ctx context.Context, actor model.Actor, product string, quantity int, location string) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, actor, product, quantity, location)
	}
	return &model.Order{ID: 1, CustomerID: actor.ID, Product: product, Quantity: quantity, Location: location, Status: model.OrderStatusPending}, nil
}

func (s DeliveryFacadeStub) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, actor, orderID, target)
	}
	courierID := actor.ID
	return &model.Order{ID: orderID, CourierID: &courierID, Status: target}, nil
}

func (s DeliveryFacadeStub) CustomerOrders(ctx context.Context, actor model.Actor, customerID int64) ([]model.Order, error) {
	if s.CustomerOrdersFn != nil {
		return s.CustomerOrdersFn(ctx, actor, customerID)
	}
	return nil, nil
}

func (s DeliveryFacadeStub) CourierOrders(ctx context.Context, actor model.Actor, courierID int64) ([]model.Order, error) {
	if s.CourierOrdersFn != nil {
		return s.CourierOrdersFn(ctx, actor, courierID)
	}
	return nil, nil
}

func (s DeliveryFacadeStub) PendingOrders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if s.PendingOrdersFn != nil {
		return s.PendingOrdersFn(ctx, actor)
	}
	return nil, nil
}

func (s DeliveryFacadeStub) DeliveredHistory(ctx context.Context, actor model.Actor, userID int64) ([]model.Order, error) {
	if s.DeliveredHistoryFn != nil {
		return s.DeliveredHistoryFn(ctx, actor, userID)
	}
	return nil, nil
}

// TokenParserStub satisfies the middleware and realtime token parser
// interfaces with a fixed outcome.
type TokenParserStub struct {
	Claims *pkgAuth.TokenClaims
	Err    error
}

func (s TokenParserStub) ParseToken(string) (*pkgAuth.TokenClaims, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Claims != nil {
		return s.Claims, nil
	}
	return &pkgAuth.TokenClaims{UserID: 1, Role: model.RoleCustomer}, nil
}
