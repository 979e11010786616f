package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsWellFormedInput(t *testing.T) {
	ingredients := []IngredientInput{ingredient("20000", "0.1", "80"), ingredient("500", "0", "100")}

	assert.NoError(t, Validate(ingredients, DefaultOverheads(), scenarioParams()))
}

func TestValidate_InfeasiblePolicyIsNotAnError(t *testing.T) {
	params := ProfitProtectionInput{LaborCostPercent: d("60"), TargetProfitMargin: d("50")}

	assert.NoError(t, Validate(nil, nil, params))
}

func TestValidate_Rules(t *testing.T) {
	cases := []struct {
		name        string
		ingredients []IngredientInput
		overheads   []OverheadCost
		params      ProfitProtectionInput
		field       string
		sentinel    error
	}{
		{
			name:        "zero yield",
			ingredients: []IngredientInput{ingredient("20000", "0.1", "0")},
			field:       "ingredients[0].yield_percent",
			sentinel:    ErrYieldOutOfRange,
		},
		{
			name:        "yield above hundred",
			ingredients: []IngredientInput{ingredient("20000", "0.1", "80"), ingredient("20000", "0.1", "120")},
			field:       "ingredients[1].yield_percent",
			sentinel:    ErrYieldOutOfRange,
		},
		{
			name:        "negative qty",
			ingredients: []IngredientInput{ingredient("20000", "-1", "80")},
			field:       "ingredients[0].qty_needed",
			sentinel:    ErrNegativeValue,
		},
		{
			name: "negative custom price",
			ingredients: []IngredientInput{func() IngredientInput {
				ing := ingredient("20000", "1", "80")
				ing.CustomPrice = decimal.NewNullDecimal(d("-10"))
				return ing
			}()},
			field:    "ingredients[0].custom_price",
			sentinel: ErrNegativeValue,
		},
		{
			name:      "negative overhead",
			overheads: []OverheadCost{{ID: "oh-x", Name: "Diskon", Amount: d("-100")}},
			field:     "overheads[0].amount",
			sentinel:  ErrNegativeValue,
		},
		{
			name:     "labor above hundred",
			params:   ProfitProtectionInput{LaborCostPercent: d("101")},
			field:    "params.labor_cost_percent",
			sentinel: ErrPercentOutOfRange,
		},
		{
			name:     "negative target",
			params:   ProfitProtectionInput{TargetProfitMargin: d("-5")},
			field:    "params.target_profit_margin",
			sentinel: ErrPercentOutOfRange,
		},
		{
			name:     "negative fixed buffer",
			params:   ProfitProtectionInput{FixedCostBuffer: d("-1")},
			field:    "params.fixed_cost_buffer",
			sentinel: ErrNegativeValue,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.ingredients, tc.overheads, tc.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	ingredients := []IngredientInput{ingredient("20000", "-1", "0")}
	params := ProfitProtectionInput{LaborCostPercent: d("-1"), TargetProfitMargin: d("200")}

	err := Validate(ingredients, nil, params)
	require.Error(t, err)

	for _, field := range []string{
		"ingredients[0].qty_needed",
		"ingredients[0].yield_percent",
		"params.labor_cost_percent",
		"params.target_profit_margin",
	} {
		assert.Contains(t, err.Error(), field)
	}
}
