package handlers

import (
	"context"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, login, password, role string) (*model.User, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	ParseToken(token string) (*pkgAuth.TokenClaims, error)
	User(ctx context.Context, id int64) (*model.User, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, actor model.Actor, product string, quantity int, location string) (*model.Order, error)
	UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error)
	CustomerOrders(ctx context.Context, actor model.Actor, customerID int64) ([]model.Order, error)
	CourierOrders(ctx context.Context, actor model.Actor, courierID int64) ([]model.Order, error)
	PendingOrders(ctx context.Context, actor model.Actor) ([]model.Order, error)
	DeliveredHistory(ctx context.Context, actor model.Actor, userID int64) ([]model.Order, error)
}

// DeliveryFacade aggregates the full set of operations used across handlers.
type DeliveryFacade interface {
	AuthFacade
	OrderFacade
}
