package notify

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/events"
)

func newTestRouter() *Router {
	return NewRouter(log.New(io.Discard, "", 0))
}

func TestPublishReachesRegisteredObserver(t *testing.T) {
	router := newTestRouter()

	var got []events.Event
	router.Register("cart-1", ObserverFunc(func(ev events.Event) error {
		got = append(got, ev)
		return nil
	}))

	ev := events.Event{CartID: "cart-1", Type: events.TypeItemAdded, ItemName: "APPLE", Version: 2}
	if err := router.PublishCartEvent(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(got) != 1 || got[0].ItemName != "APPLE" {
		t.Fatalf("unexpected delivery %+v", got)
	}
}

func TestPublishWithoutObserverIsNoOp(t *testing.T) {
	router := newTestRouter()

	if err := router.PublishCartEvent(context.Background(), events.Event{CartID: "cart-1"}); err != nil {
		t.Fatalf("publish without observer: %v", err)
	}
}

func TestSecondRegistrationDisplacesFirst(t *testing.T) {
	router := newTestRouter()

	var first, second int
	router.Register("cart-1", ObserverFunc(func(events.Event) error {
		first++
		return nil
	}))
	router.Register("cart-1", ObserverFunc(func(events.Event) error {
		second++
		return nil
	}))

	if err := router.PublishCartEvent(context.Background(), events.Event{CartID: "cart-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if first != 0 {
		t.Fatalf("displaced observer must not receive events, got %d", first)
	}
	if second != 1 {
		t.Fatalf("expected replacement observer to receive the event, got %d", second)
	}
}

func TestFailedSendEvictsObserver(t *testing.T) {
	router := newTestRouter()

	calls := 0
	router.Register("cart-1", ObserverFunc(func(events.Event) error {
		calls++
		return errors.New("connection gone")
	}))

	// First publish fails and evicts; delivery failure is not a publish error.
	if err := router.PublishCartEvent(context.Background(), events.Event{CartID: "cart-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	// Second publish finds no observer.
	if err := router.PublishCartEvent(context.Background(), events.Event{CartID: "cart-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected exactly one send attempt, got %d", calls)
	}
}

func TestEvictionDoesNotRemoveReplacement(t *testing.T) {
	router := newTestRouter()

	// A failing observer gets displaced before its eviction runs; the
	// replacement must survive.
	router.Register("cart-1", ObserverFunc(func(events.Event) error {
		return errors.New("stale connection")
	}))

	delivered := 0
	replacement := ObserverFunc(func(events.Event) error {
		delivered++
		return nil
	})

	// Simulate the stale observer's teardown racing the new registration:
	// Release with the old handle after the replacement registered.
	router.mu.Lock()
	oldHandle := router.observers["cart-1"].id
	router.mu.Unlock()

	router.Register("cart-1", replacement)
	router.Release("cart-1", oldHandle)

	if err := router.PublishCartEvent(context.Background(), events.Event{CartID: "cart-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if delivered != 1 {
		t.Fatalf("replacement observer lost its registration")
	}
}

func TestUnregister(t *testing.T) {
	router := newTestRouter()

	delivered := 0
	router.Register("cart-1", ObserverFunc(func(events.Event) error {
		delivered++
		return nil
	}))
	router.Unregister("cart-1")

	if err := router.PublishCartEvent(context.Background(), events.Event{CartID: "cart-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if delivered != 0 {
		t.Fatalf("unregistered observer must not receive events")
	}
}

func TestObserversIsolatedPerCart(t *testing.T) {
	router := newTestRouter()

	var cart1, cart2 int
	router.Register("cart-1", ObserverFunc(func(events.Event) error {
		cart1++
		return nil
	}))
	router.Register("cart-2", ObserverFunc(func(events.Event) error {
		cart2++
		return nil
	}))

	if err := router.PublishCartEvent(context.Background(), events.Event{CartID: "cart-2"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if cart1 != 0 || cart2 != 1 {
		t.Fatalf("event routed to wrong observer: cart1=%d cart2=%d", cart1, cart2)
	}
}
