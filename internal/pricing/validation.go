package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeValue     = errors.New("value must not be negative")
	ErrYieldOutOfRange   = errors.New("yield percent must be greater than 0 and at most 100")
	ErrPercentOutOfRange = errors.New("percent must be between 0 and 100")
)

// ValidationError ties a rule violation to the input field that broke it.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks inputs against the ranges the calculator expects. Calculate
// never calls it; callers run it at their boundary. A labor% plus target%
// of 100 or more is not an error here, Calculate reports it through
// CalculationResult.Infeasible.
func Validate(ingredients []IngredientInput, overheads []OverheadCost, params ProfitProtectionInput) error {
	var errs []error

	for i, ing := range ingredients {
		prefix := fmt.Sprintf("ingredients[%d]", i)
		if ing.QtyNeeded.IsNegative() {
			errs = append(errs, &ValidationError{Field: prefix + ".qty_needed", Err: ErrNegativeValue})
		}
		if !ing.YieldPercent.IsPositive() || ing.YieldPercent.GreaterThan(hundred) {
			errs = append(errs, &ValidationError{Field: prefix + ".yield_percent", Err: ErrYieldOutOfRange})
		}
		if ing.CustomPrice.Valid && ing.CustomPrice.Decimal.IsNegative() {
			errs = append(errs, &ValidationError{Field: prefix + ".custom_price", Err: ErrNegativeValue})
		}
		if !ing.CustomPrice.Valid && ing.StockItem.PricePerUnit.IsNegative() {
			errs = append(errs, &ValidationError{Field: prefix + ".stock_item.price_per_unit", Err: ErrNegativeValue})
		}
	}

	for i, oh := range overheads {
		if oh.Amount.IsNegative() {
			errs = append(errs, &ValidationError{Field: fmt.Sprintf("overheads[%d].amount", i), Err: ErrNegativeValue})
		}
	}

	if !inPercentRange(params.LaborCostPercent) {
		errs = append(errs, &ValidationError{Field: "params.labor_cost_percent", Err: ErrPercentOutOfRange})
	}
	if !inPercentRange(params.TargetProfitMargin) {
		errs = append(errs, &ValidationError{Field: "params.target_profit_margin", Err: ErrPercentOutOfRange})
	}
	if params.FixedCostBuffer.IsNegative() {
		errs = append(errs, &ValidationError{Field: "params.fixed_cost_buffer", Err: ErrNegativeValue})
	}

	return errors.Join(errs...)
}

func inPercentRange(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(hundred)
}
