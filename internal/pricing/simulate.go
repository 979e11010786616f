package pricing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
)

// Simulation is the outcome of one what-if price.
type Simulation struct {
	ManualPrice decimal.Decimal   `json:"manual_price"`
	Result      CalculationResult `json:"result"`
}

// Simulate runs Calculate once per candidate price and returns the results in
// the order of prices. Non-positive candidates fall back to the solver, the
// same as Calculate.
func Simulate(ctx context.Context, ingredients []IngredientInput, overheads []OverheadCost, params ProfitProtectionInput, prices []decimal.Decimal) ([]Simulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return iter.Map(prices, func(price *decimal.Decimal) Simulation {
		return Simulation{
			ManualPrice: *price,
			Result:      Calculate(ingredients, overheads, params, decimal.NewNullDecimal(*price)),
		}
	}), nil
}
