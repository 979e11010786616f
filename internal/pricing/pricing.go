// Package pricing computes per-portion food cost (HPP) and solves for a
// selling price that covers labor and a target profit margin.
//
// All money values are whole Rupiah held in decimal.Decimal. Nothing in this
// package performs I/O or keeps state, so every function is safe for
// concurrent use.
package pricing

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CostScale is the number of fractional digits prime cost and the solved
// price are snapped to before rounding up. Division residues below it are
// dropped.
const CostScale int32 = 8

var (
	// RiskFactorRate is the share of prime cost reserved for waste and
	// spoilage when ProfitProtectionInput.EnableRiskFactor is set.
	RiskFactorRate = decimal.RequireFromString("0.05")

	// PriceRoundingStep is the granularity suggested prices are rounded up to.
	PriceRoundingStep = decimal.NewFromInt(100)

	hundred = decimal.NewFromInt(100)
)

// StockItem is a purchasable ingredient owned by the catalog. The engine only
// reads PricePerUnit.
type StockItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// IngredientInput is one line of a costing sheet.
type IngredientInput struct {
	ID           string              `json:"id"`
	StockItem    StockItem           `json:"stock_item"`
	QtyNeeded    decimal.Decimal     `json:"qty_needed"`
	YieldPercent decimal.Decimal     `json:"yield_percent"`
	CustomPrice  decimal.NullDecimal `json:"custom_price"`
}

// OverheadCost is a flat per-portion cost that only counts when selected.
type OverheadCost struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	IsSelected bool            `json:"is_selected"`
}

// ProfitProtectionInput is the pricing policy applied to one calculation.
type ProfitProtectionInput struct {
	LaborCostPercent   decimal.Decimal `json:"labor_cost_percent"`
	FixedCostBuffer    decimal.Decimal `json:"fixed_cost_buffer"`
	EnableRiskFactor   bool            `json:"enable_risk_factor"`
	TargetProfitMargin decimal.Decimal `json:"target_profit_margin"`
}

// Divisor returns 1 - labor% - target%. A value <= 0 means no selling price
// can cover the policy.
func (p ProfitProtectionInput) Divisor() decimal.Decimal {
	return decimal.NewFromInt(1).
		Sub(p.LaborCostPercent.Div(hundred)).
		Sub(p.TargetProfitMargin.Div(hundred))
}

// CalculationResult is a snapshot of every intermediate and final figure.
type CalculationResult struct {
	PrimeCost             decimal.Decimal `json:"prime_cost"`
	OverheadCost          decimal.Decimal `json:"overhead_cost"`
	RiskCost              decimal.Decimal `json:"risk_cost"`
	FixedCost             decimal.Decimal `json:"fixed_cost"`
	LaborCost             decimal.Decimal `json:"labor_cost"`
	TotalHPP              decimal.Decimal `json:"total_hpp"`
	SuggestedSellingPrice decimal.Decimal `json:"suggested_selling_price"`
	GrossProfit           decimal.Decimal `json:"gross_profit"`
	FoodCostPercentage    decimal.Decimal `json:"food_cost_percentage"`
	NetProfitPercentage   decimal.Decimal `json:"net_profit_percentage"`
}

// TotalFixedComponent returns every cost that does not depend on the price.
func (r CalculationResult) TotalFixedComponent() decimal.Decimal {
	return r.TotalHPP.Sub(r.LaborCost)
}

// Infeasible reports a zero selling price against a non-zero cost, which is
// how Calculate signals that labor% + target% leaves nothing to cover costs.
func (r CalculationResult) Infeasible() bool {
	return r.SuggestedSellingPrice.IsZero() && r.TotalHPP.IsPositive()
}

// DefaultOverheads returns the seed overhead list, all deselected.
func DefaultOverheads() []OverheadCost {
	return []OverheadCost{
		{ID: "oh-1", Name: "Gas & Listrik", Amount: decimal.NewFromInt(1500)},
		{ID: "oh-2", Name: "Packaging", Amount: decimal.NewFromInt(2000)},
		{ID: "oh-3", Name: "Garnish", Amount: decimal.NewFromInt(500)},
		{ID: "oh-4", Name: "Minyak/Bumbu", Amount: decimal.NewFromInt(1000)},
	}
}

// RowCost returns the yield-adjusted cost of one ingredient:
// (price * qty) / (yield / 100). A yield of zero or less costs nothing.
func RowCost(ingredient IngredientInput) decimal.Decimal {
	price := ingredient.StockItem.PricePerUnit
	if ingredient.CustomPrice.Valid {
		price = ingredient.CustomPrice.Decimal
	}

	yieldFactor := ingredient.YieldPercent.Div(hundred)
	if !yieldFactor.IsPositive() {
		return decimal.Zero
	}

	return price.Mul(ingredient.QtyNeeded).Div(yieldFactor)
}

// PrimeCost sums RowCost over every ingredient, snapped to CostScale.
func PrimeCost(ingredients []IngredientInput) decimal.Decimal {
	return lo.Reduce(ingredients, func(sum decimal.Decimal, item IngredientInput, _ int) decimal.Decimal {
		return sum.Add(RowCost(item))
	}, decimal.Zero).Round(CostScale)
}

// OverheadTotal sums the amounts of the selected overheads.
func OverheadTotal(overheads []OverheadCost) decimal.Decimal {
	selected := lo.Filter(overheads, func(oh OverheadCost, _ int) bool {
		return oh.IsSelected
	})
	return lo.Reduce(selected, func(sum decimal.Decimal, oh OverheadCost, _ int) decimal.Decimal {
		return sum.Add(oh.Amount)
	}, decimal.Zero)
}

// Calculate computes the full profit protection metrics.
//
// A manualPrice that is valid and positive is used as the selling price.
// Otherwise the price is solved as
//
//	ceil(ceil(fixed / (1 - labor% - target%)) / 100) * 100
//
// and is zero when the divisor is not positive.
func Calculate(ingredients []IngredientInput, overheads []OverheadCost, params ProfitProtectionInput, manualPrice decimal.NullDecimal) CalculationResult {
	primeCost := PrimeCost(ingredients)
	overheadCost := OverheadTotal(overheads)
	fixedCost := params.FixedCostBuffer

	riskCost := decimal.Zero
	if params.EnableRiskFactor {
		riskCost = primeCost.Mul(RiskFactorRate)
	}

	totalFixedComponent := primeCost.Add(overheadCost).Add(fixedCost).Add(riskCost)

	laborRate := params.LaborCostPercent.Div(hundred)
	sellingPrice := decimal.Zero
	if manualPrice.Valid && manualPrice.Decimal.IsPositive() {
		sellingPrice = manualPrice.Decimal
	} else if divisor := params.Divisor(); divisor.IsPositive() {
		sellingPrice = totalFixedComponent.Div(divisor).Round(CostScale).Ceil()
		sellingPrice = sellingPrice.Div(PriceRoundingStep).Ceil().Mul(PriceRoundingStep)
	}
	laborCost := sellingPrice.Mul(laborRate)

	totalHPP := totalFixedComponent.Add(laborCost)
	grossProfit := sellingPrice.Sub(totalHPP)

	foodCostPercentage := decimal.Zero
	netProfitPercentage := decimal.Zero
	if sellingPrice.IsPositive() {
		foodCostPercentage = primeCost.Div(sellingPrice).Mul(hundred)
		netProfitPercentage = grossProfit.Div(sellingPrice).Mul(hundred)
	}

	return CalculationResult{
		PrimeCost:             primeCost,
		OverheadCost:          overheadCost,
		RiskCost:              riskCost,
		FixedCost:             fixedCost,
		LaborCost:             laborCost,
		TotalHPP:              totalHPP,
		SuggestedSellingPrice: sellingPrice,
		GrossProfit:           grossProfit,
		FoodCostPercentage:    foodCostPercentage,
		NetProfitPercentage:   netProfitPercentage,
	}
}
