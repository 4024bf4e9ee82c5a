package model

import "time"

// EventKind distinguishes order change notifications.
type EventKind string

const (
	EventOrderCreated EventKind = "order_created"
	EventOrderUpdated EventKind = "order_updated"
)

// OrderEvent is the envelope broadcast to connected observers. Delivery
// is best effort and at most once; observers that are offline when the
// event fires never receive it.
type OrderEvent struct {
	ID    string
	Kind  EventKind
	Order Order
	At    time.Time
}
