package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy identifiers form a closed set. Identifiers outside it are skipped
// during evaluation so forward-compatible catalog entries stay harmless.
const (
	StrategyRegular      = "REGULAR"
	StrategyBOGO         = "BOGO"
	StrategyThreeForTwo  = "THREE_FOR_TWO"
	StrategyBulkDiscount = "BULK_DISCOUNT"
	StrategySeasonal     = "SEASONAL"
)

const bulkMinQuantity = 5

var (
	bulkDiscount     = decimal.RequireFromString("0.90") // 10% off
	seasonalDiscount = decimal.RequireFromString("0.95") // 5% off
)

// UnknownItemError is returned for items the catalog does not price.
type UnknownItemError struct {
	Item string
}

func (e *UnknownItemError) Error() string {
	return "unknown item: " + e.Item
}

// InvalidQuantityError is returned when a negative quantity reaches a
// strategy that rejects it.
type InvalidQuantityError struct {
	Item     string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for item %s: quantity cannot be negative", e.Quantity, e.Item)
}

// applyStrategy runs one chain stage. price is the running price handed down
// from the previous stage, quantity the original quantity, unchanged along
// the whole chain. Every stage rounds its own output half-up to 2 decimals.
// The second return is false for identifiers outside the known set.
func applyStrategy(strategyType, item string, quantity int, price decimal.Decimal) (decimal.Decimal, bool, error) {
	switch strategyType {
	case StrategyRegular:
		if quantity < 0 {
			return decimal.Zero, true, &InvalidQuantityError{Item: item, Quantity: quantity}
		}
		if quantity == 0 {
			return zeroAmount(), true, nil
		}
		return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2), true, nil

	case StrategyBOGO:
		if quantity == 0 {
			return zeroAmount(), true, nil
		}
		// pay for ceil(quantity/2) units
		payable := (quantity + 1) / 2
		return price.Mul(decimal.NewFromInt(int64(payable))).Round(2), true, nil

	case StrategyThreeForTwo:
		if quantity == 0 {
			return zeroAmount(), true, nil
		}
		sets := quantity / 3
		rem := quantity % 3
		payable := sets*2 + rem
		return price.Mul(decimal.NewFromInt(int64(payable))).Round(2), true, nil

	case StrategyBulkDiscount:
		if quantity == 0 {
			return zeroAmount(), true, nil
		}
		total := price.Mul(decimal.NewFromInt(int64(quantity)))
		if quantity >= bulkMinQuantity {
			return total.Mul(bulkDiscount).Round(2), true, nil
		}
		return total.Round(2), true, nil

	case StrategySeasonal:
		if quantity == 0 {
			return zeroAmount(), true, nil
		}
		return price.Mul(decimal.NewFromInt(int64(quantity))).Mul(seasonalDiscount).Round(2), true, nil
	}

	return decimal.Zero, false, nil
}

func zeroAmount() decimal.Decimal {
	return decimal.Zero.Round(2)
}
