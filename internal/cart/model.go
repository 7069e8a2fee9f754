package cart

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one item entry in a cart. UnitPrice is the catalog base price
// captured on first insertion; LineTotal is the strategy-chain output for the
// current quantity.
type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"totalPrice"`
}

// Cart is the versioned aggregate for one client session. Total is always the
// half-up rounded sum of all line totals; Version starts at 1 and goes up by
// exactly one per completed mutation.
type Cart struct {
	ID      string           `json:"cartId"`
	Items   map[string]*Line `json:"-"`
	Total   decimal.Decimal  `json:"total"`
	Version int64            `json:"version"`
}

func New() *Cart {
	return &Cart{
		ID:      uuid.NewString(),
		Items:   make(map[string]*Line),
		Total:   decimal.Zero,
		Version: 1,
	}
}

// Clone returns a deep copy so the store and callers never share line state.
func (c *Cart) Clone() *Cart {
	cp := &Cart{
		ID:      c.ID,
		Items:   make(map[string]*Line, len(c.Items)),
		Total:   c.Total,
		Version: c.Version,
	}
	for name, line := range c.Items {
		l := *line
		cp.Items[name] = &l
	}
	return cp
}

// Lines returns the cart lines sorted by item name for stable output.
func (c *Cart) Lines() []Line {
	names := make([]string, 0, len(c.Items))
	for name := range c.Items {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Line, 0, len(names))
	for _, name := range names {
		out = append(out, *c.Items[name])
	}
	return out
}
