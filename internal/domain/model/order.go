package model

import "time"

// OrderStatus describes the delivery lifecycle. The chain only ever
// moves forward: PENDING -> ACCEPTED -> OUT_FOR_DELIVERY -> DELIVERED.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusAccepted       OrderStatus = "ACCEPTED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
)

var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusAccepted:       1,
	OrderStatusOutForDelivery: 2,
	OrderStatusDelivered:      3,
}

// Valid reports whether the status is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether next is the immediate successor of s.
// Skipping states and moving backward are both rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered
}

// Order is the central entity: a delivery request placed by a customer
// and fulfilled by exactly one courier.
type Order struct {
	ID         int64
	CustomerID int64
	// CourierID is nil until the order is claimed. It is written exactly
	// once and never cleared or reassigned.
	CourierID *int64
	Product   string
	Quantity  int
	Location  string
	Status    OrderStatus

	// Counterpart display names resolved by list queries for presentation.
	CustomerName string
	CourierName  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assigned reports whether a courier has claimed the order.
func (o *Order) Assigned() bool {
	return o.CourierID != nil
}

// AssignedTo reports whether the order belongs to the given courier.
func (o *Order) AssignedTo(courierID int64) bool {
	return o.CourierID != nil && *o.CourierID == courierID
}
