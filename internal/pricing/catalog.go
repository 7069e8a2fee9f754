package pricing

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultPriority is used when a strategy assignment does not carry one.
// Lower priorities evaluate first.
const DefaultPriority = 100

// StrategyAssignment binds a strategy identifier to a position in an item's
// evaluation chain. Assignments are static for the process lifetime.
type StrategyAssignment struct {
	Type     string
	Priority *int
}

func (a StrategyAssignment) EffectivePriority() int {
	if a.Priority != nil {
		return *a.Priority
	}
	return DefaultPriority
}

type itemConfig struct {
	basePrice  decimal.Decimal
	strategies []StrategyAssignment
}

// Catalog is the read-only item lookup: name to base price plus the ordered
// strategy chain.
type Catalog struct {
	items map[string]itemConfig
}

// CatalogItem is one definition used to assemble a catalog in code.
type CatalogItem struct {
	Name       string
	BasePrice  decimal.Decimal
	Strategies []StrategyAssignment
}

func NewCatalog(items []CatalogItem) *Catalog {
	c := &Catalog{items: make(map[string]itemConfig, len(items))}
	for _, it := range items {
		c.items[it.Name] = itemConfig{basePrice: it.BasePrice, strategies: it.Strategies}
	}
	return c
}

// BasePrice reports the catalog base price for an item.
func (c *Catalog) BasePrice(item string) (decimal.Decimal, bool) {
	cfg, ok := c.items[item]
	if !ok {
		return decimal.Zero, false
	}
	return cfg.basePrice, true
}

// Strategies returns the item's strategy chain in declaration order. An item
// with no configured strategies is treated the same as a missing one.
func (c *Catalog) Strategies(item string) ([]StrategyAssignment, bool) {
	cfg, ok := c.items[item]
	if !ok || len(cfg.strategies) == 0 {
		return nil, false
	}
	return cfg.strategies, true
}

type catalogFile struct {
	Items map[string]struct {
		BasePrice  string `yaml:"basePrice"`
		Strategies []struct {
			Type     string `yaml:"type"`
			Priority *int   `yaml:"priority"`
		} `yaml:"strategies"`
	} `yaml:"items"`
}

// LoadCatalog reads an item catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{items: make(map[string]itemConfig, len(file.Items))}
	for name, raw := range file.Items {
		price, err := decimal.NewFromString(raw.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("catalog item %s: base price %q: %w", name, raw.BasePrice, err)
		}
		cfg := itemConfig{basePrice: price}
		for _, s := range raw.Strategies {
			cfg.strategies = append(cfg.strategies, StrategyAssignment{Type: s.Type, Priority: s.Priority})
		}
		c.items[name] = cfg
	}
	return c, nil
}

// DefaultCatalog is the built-in item set used when no catalog file is
// configured.
func DefaultCatalog() *Catalog {
	one := 1
	two := 2
	return NewCatalog([]CatalogItem{
		{Name: "APPLE", BasePrice: decimal.RequireFromString("0.35"),
			Strategies: []StrategyAssignment{{Type: StrategyRegular}}},
		{Name: "BANANA", BasePrice: decimal.RequireFromString("0.20"),
			Strategies: []StrategyAssignment{{Type: StrategyRegular}}},
		{Name: "MELON", BasePrice: decimal.RequireFromString("0.50"),
			Strategies: []StrategyAssignment{{Type: StrategyBOGO}}},
		{Name: "LIME", BasePrice: decimal.RequireFromString("0.15"),
			Strategies: []StrategyAssignment{{Type: StrategyThreeForTwo, Priority: &one}}},
		{Name: "MANGO", BasePrice: decimal.RequireFromString("1.40"),
			Strategies: []StrategyAssignment{
				{Type: StrategyBulkDiscount, Priority: &one},
				{Type: StrategySeasonal, Priority: &two},
			}},
	})
}
