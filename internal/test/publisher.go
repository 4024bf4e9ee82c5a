package test

import (
	"context"
	"sync"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
)

// PublishedEvent captures a single Publish invocation.
type PublishedEvent struct {
	Kind  model.EventKind
	Order model.Order
}

// PublisherRecorder collects published events. Safe for concurrent use.
type PublisherRecorder struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// Publish records the event.
func (p *PublisherRecorder) Publish(ctx context.Context, kind model.EventKind, order model.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{Kind: kind, Order: order})
}

// Events returns a snapshot of recorded events.
func (p *PublisherRecorder) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}
