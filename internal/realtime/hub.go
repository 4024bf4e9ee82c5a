package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
)

// Hub fans order events out to connected observers. Delivery is best
// effort and at most once: there is no backlog, and observers that
// connect later never see earlier events. Publish never blocks and never
// fails the state change that triggered it.
type Hub struct {
	eventBuffer    int
	observerBuffer int
	logger         *slog.Logger

	events chan model.OrderEvent

	mu        sync.Mutex
	observers map[*Subscription]struct{}
	started   bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Subscription is one observer's view of the event stream.
type Subscription struct {
	hub *Hub
	ch  chan model.OrderEvent

	once sync.Once
}

// Events returns the channel events arrive on. It is closed when the
// subscription is cancelled or the hub stops.
func (s *Subscription) Events() <-chan model.OrderEvent {
	return s.ch
}

// Close detaches the observer from the hub.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// NewHub constructs a hub with the given buffer sizes.
func NewHub(eventBuffer, observerBuffer int, logger *slog.Logger) *Hub {
	if eventBuffer <= 0 {
		eventBuffer = 1
	}
	if observerBuffer <= 0 {
		observerBuffer = 1
	}
	return &Hub{
		eventBuffer:    eventBuffer,
		observerBuffer: observerBuffer,
		logger:         logger,
		events:         make(chan model.OrderEvent, eventBuffer),
		observers:      make(map[*Subscription]struct{}),
	}
}

// Start launches the broadcast pump.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.started = true

	h.wg.Add(1)
	go h.pump(runCtx)
}

// Stop terminates the pump and detaches every observer.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()

	h.wg.Wait()

	h.mu.Lock()
	for sub := range h.observers {
		sub.once.Do(func() { close(sub.ch) })
		delete(h.observers, sub)
	}
	h.started = false
	h.mu.Unlock()
}

// Publish enqueues an event for broadcast. It never blocks: when the hub
// buffer is full the event is dropped with a warning, matching the best
// effort contract.
func (h *Hub) Publish(ctx context.Context, kind model.EventKind, order model.Order) {
	event := model.OrderEvent{
		ID:    uuid.NewString(),
		Kind:  kind,
		Order: order,
		At:    time.Now(),
	}

	select {
	case h.events <- event:
	default:
		h.logger.Warn("event dropped: hub buffer full",
			slog.String("kind", string(kind)),
			slog.Int64("order_id", order.ID),
		)
	}
}

// Subscribe attaches a new observer. The caller must Close the
// subscription when done.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{hub: h, ch: make(chan model.OrderEvent, h.observerBuffer)}

	h.mu.Lock()
	h.observers[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if _, ok := h.observers[sub]; ok {
		delete(h.observers, sub)
		sub.once.Do(func() { close(sub.ch) })
	}
	h.mu.Unlock()
}

func (h *Hub) pump(ctx context.Context) {
	defer h.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-h.events:
			h.broadcast(event)
		}
	}
}

func (h *Hub) broadcast(event model.OrderEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.observers {
		select {
		case sub.ch <- event:
		default:
			// Slow observer: drop this event for them, keep the rest moving.
			h.logger.Warn("event dropped: observer buffer full",
				slog.String("event_id", event.ID),
			)
		}
	}
}

// ObserverCount reports the number of attached observers.
func (h *Hub) ObserverCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}
