package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Engine prices an item quantity through the item's ordered strategy chain.
type Engine struct {
	catalog *Catalog
}

func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// BasePrice exposes the catalog base price for line creation.
func (e *Engine) BasePrice(item string) (decimal.Decimal, bool) {
	return e.catalog.BasePrice(item)
}

// Price evaluates the chain: assignments stable-sorted ascending by priority
// (ties keep catalog order), each stage consuming the running price of the
// previous one and the original quantity. Unknown strategy identifiers are
// skipped without error.
func (e *Engine) Price(item string, quantity int) (decimal.Decimal, error) {
	base, ok := e.catalog.BasePrice(item)
	if !ok {
		return decimal.Zero, &UnknownItemError{Item: item}
	}

	assignments, ok := e.catalog.Strategies(item)
	if !ok {
		return decimal.Zero, &UnknownItemError{Item: item}
	}

	sorted := make([]StrategyAssignment, len(assignments))
	copy(sorted, assignments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectivePriority() < sorted[j].EffectivePriority()
	})

	price := base
	for _, a := range sorted {
		next, known, err := applyStrategy(a.Type, item, quantity, price)
		if err != nil {
			return decimal.Zero, err
		}
		if known {
			price = next
		}
	}

	return price.Round(2), nil
}
