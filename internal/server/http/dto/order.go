package dto

import (
	"time"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
)

// CreateOrderRequest describes the order creation payload.
type CreateOrderRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Location string `json:"location"`
}

// UpdateStatusRequest carries the requested target status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderResponse is the order record as served to clients.
type OrderResponse struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	CourierID    *int64    `json:"courier_id,omitempty"`
	Product      string    `json:"product"`
	Quantity     int       `json:"quantity"`
	Location     string    `json:"location"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name,omitempty"`
	CourierName  string    `json:"courier_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewOrderResponse maps a domain order onto the wire shape.
func NewOrderResponse(order model.Order) OrderResponse {
	return OrderResponse{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CourierID:    order.CourierID,
		Product:      order.Product,
		Quantity:     order.Quantity,
		Location:     order.Location,
		Status:       string(order.Status),
		CustomerName: order.CustomerName,
		CourierName:  order.CourierName,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	// Status carries the order's true current status on transition
	// conflicts so clients can resync.
	Status string `json:"status,omitempty"`
}
