package cart

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/pricing"
	"github.com/shopspring/decimal"
)

// Pricer is the slice of the pricing engine the cart service needs.
type Pricer interface {
	BasePrice(item string) (decimal.Decimal, bool)
	Price(item string, quantity int) (decimal.Decimal, error)
}

// Sync operation types accepted from clients. Anything else is skipped with a
// warning and does not count as synced.
const (
	OpAdd    = "ADD"
	OpRemove = "REMOVE"
	OpClear  = "CLEAR"
)

// PendingOperation is one client-queued offline mutation.
type PendingOperation struct {
	Type          string `json:"type"`
	Item          string `json:"item"`
	ClientVersion int64  `json:"clientVersion"`
	Timestamp     string `json:"timestamp"`
}

// SyncResult reports a completed replay batch.
type SyncResult struct {
	Status           string `json:"status"`
	Version          int64  `json:"version"`
	SyncedOperations int    `json:"syncedOperations"`
}

// Service is the cart mutation engine. Every mutating operation runs under a
// per-cart lock: fetch, mutate, reprice, bump version, persist, then emit
// exactly one event. Different carts never contend on a shared lock.
type Service struct {
	store     Store
	pricer    Pricer
	publisher events.Publisher
	logger    *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store, pricer Pricer, publisher events.Publisher, logger *log.Logger) *Service {
	return &Service{
		store:     store,
		pricer:    pricer,
		publisher: publisher,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *Service) cartLock(cartID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[cartID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[cartID] = l
	}
	return l
}

// CreateCart allocates and persists an empty cart at version 1. No event is
// emitted for creation.
func (s *Service) CreateCart(ctx context.Context) (*Cart, error) {
	c := New()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	s.logger.Printf("created cart %s", c.ID)
	return c, nil
}

func (s *Service) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	c, err := s.store.FindByID(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c == nil {
		return nil, &NotFoundError{CartID: cartID}
	}
	return c, nil
}

// AddItem increments the item's quantity by one, repricing the line through
// the strategy chain. The line is created at the catalog base price on first
// add. clientVersion nil skips the conflict check.
func (s *Service) AddItem(ctx context.Context, cartID, itemName string, clientVersion *int64) (*Cart, error) {
	lock := s.cartLock(cartID)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(c, clientVersion); err != nil {
		return nil, err
	}

	base, ok := s.pricer.BasePrice(itemName)
	if !ok {
		return nil, &pricing.UnknownItemError{Item: itemName}
	}

	line, ok := c.Items[itemName]
	if !ok {
		line = &Line{Name: itemName, UnitPrice: base, LineTotal: decimal.Zero}
		c.Items[itemName] = line
	}
	line.Quantity++

	lineTotal, err := s.pricer.Price(itemName, line.Quantity)
	if err != nil {
		return nil, err
	}
	line.LineTotal = lineTotal

	recalculate(c)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publish(ctx, events.Event{
		CartID:   c.ID,
		Type:     events.TypeItemAdded,
		ItemName: itemName,
		Quantity: line.Quantity,
		Total:    c.Total,
		Version:  c.Version,
	})
	return c, nil
}

// RemoveItem deletes the whole line for the item. Quantity is never
// decremented; removing an item the cart does not hold is a no-op with no
// version bump and no event.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemName string, clientVersion *int64) (*Cart, error) {
	lock := s.cartLock(cartID)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(c, clientVersion); err != nil {
		return nil, err
	}

	if _, ok := c.Items[itemName]; !ok {
		return c, nil
	}
	delete(c.Items, itemName)

	recalculate(c)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publish(ctx, events.Event{
		CartID:   c.ID,
		Type:     events.TypeItemRemoved,
		ItemName: itemName,
		Total:    c.Total,
		Version:  c.Version,
	})
	return c, nil
}

// ClearCart empties all lines. It bumps the version and emits an event even
// when the cart was already empty.
func (s *Service) ClearCart(ctx context.Context, cartID string, clientVersion *int64) (*Cart, error) {
	lock := s.cartLock(cartID)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(c, clientVersion); err != nil {
		return nil, err
	}

	c.Items = make(map[string]*Line)

	recalculate(c)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publish(ctx, events.Event{
		CartID:  c.ID,
		Type:    events.TypeCartCleared,
		Total:   c.Total,
		Version: c.Version,
	})
	return c, nil
}

// Sync replays client-queued operations in order against live state. Each
// applied operation persists immediately; the batch is not atomic. The first
// failing operation aborts the replay with a SyncError reporting how many
// operations were applied before it, and those stay committed.
func (s *Service) Sync(ctx context.Context, cartID string, ops []PendingOperation) (SyncResult, error) {
	c, err := s.GetCart(ctx, cartID)
	if err != nil {
		return SyncResult{}, err
	}

	synced := 0
	for _, op := range ops {
		switch op.Type {
		case OpAdd:
			c, err = s.AddItem(ctx, cartID, op.Item, nil)
		case OpRemove:
			c, err = s.RemoveItem(ctx, cartID, op.Item, nil)
		case OpClear:
			c, err = s.ClearCart(ctx, cartID, nil)
		default:
			s.logger.Printf("sync: unknown operation type %q for cart %s", op.Type, cartID)
			continue
		}
		if err != nil {
			return SyncResult{}, &SyncError{Synced: synced, Cause: err}
		}
		synced++
	}

	return SyncResult{Status: "success", Version: c.Version, SyncedOperations: synced}, nil
}

// checkVersion implements the optimistic boundary check: only a client
// version strictly below the server version is rejected. Equal or greater
// versions pass unchecked.
func checkVersion(c *Cart, clientVersion *int64) error {
	if clientVersion != nil && *clientVersion < c.Version {
		return &VersionConflictError{ServerVersion: c.Version}
	}
	return nil
}

func recalculate(c *Cart) {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.LineTotal)
	}
	c.Total = total.Round(2)
	c.Version++
}

// publish emits the single event for a completed mutation. The mutation is
// already persisted; a delivery failure is logged, never surfaced.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCartEvent(ctx, ev); err != nil {
		s.logger.Printf("publish %s for cart %s: %v", ev.Type, ev.CartID, err)
	}
}
