// Package notify routes cart mutation events to the single live observer
// registered for each cart id.
package notify

import (
	"context"
	"log"
	"sync"

	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/events"
)

// Observer is one live downstream connection for a cart.
type Observer interface {
	Send(ev events.Event) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev events.Event) error

func (f ObserverFunc) Send(ev events.Event) error {
	return f(ev)
}

type registration struct {
	id  uint64
	obs Observer
}

// Router keeps at most one observer per cart id. Registering over an existing
// id displaces the previous observer without closing it; an observer whose
// send fails is evicted and treated as disconnected.
type Router struct {
	logger *log.Logger

	mu        sync.Mutex
	nextID    uint64
	observers map[string]registration
}

func NewRouter(logger *log.Logger) *Router {
	return &Router{
		logger:    logger,
		observers: make(map[string]registration),
	}
}

// Register installs the observer for the cart id, last registration wins.
// The returned handle identifies this registration for Release.
func (r *Router) Register(cartID string, obs Observer) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.observers[cartID] = registration{id: r.nextID, obs: obs}
	return r.nextID
}

// Unregister drops whatever observer is currently registered for the cart id.
func (r *Router) Unregister(cartID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.observers, cartID)
}

// Release drops the registration only if the handle still owns the slot, so a
// displaced observer's teardown cannot evict its replacement.
func (r *Router) Release(cartID string, handle uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.observers[cartID]; ok && reg.id == handle {
		delete(r.observers, cartID)
	}
}

// PublishCartEvent sends the event to the observer for its cart id, if any.
// The send runs on the caller's goroutine; a failed send evicts the observer.
// Delivery failure is a disconnect, not a publish error.
func (r *Router) PublishCartEvent(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	reg, ok := r.observers[ev.CartID]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	if err := reg.obs.Send(ev); err != nil {
		r.logger.Printf("observer for cart %s failed, evicting: %v", ev.CartID, err)
		r.Release(ev.CartID, reg.id)
	}
	return nil
}
