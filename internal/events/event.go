package events

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Type enumerates the cart mutation events.
type Type string

const (
	TypeItemAdded    Type = "ITEM_ADDED"
	TypeItemRemoved  Type = "ITEM_REMOVED"
	TypeCartCleared  Type = "CART_CLEARED"
	TypePriceUpdated Type = "PRICE_UPDATED"
)

// Event describes one completed cart mutation. Created once per mutation and
// not persisted.
type Event struct {
	CartID   string          `json:"cartId"`
	Type     Type            `json:"type"`
	ItemName string          `json:"itemName,omitempty"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Version  int64           `json:"version"`
}

// Publisher receives the event emitted after each completed mutation.
type Publisher interface {
	PublishCartEvent(ctx context.Context, ev Event) error
}

// Fanout delivers an event to every publisher in order. A failing publisher
// does not stop delivery to the remaining ones.
type Fanout []Publisher

func (f Fanout) PublishCartEvent(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishCartEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
