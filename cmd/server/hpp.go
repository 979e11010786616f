package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/log"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/pricing"
)

type ingredientRequest struct {
	ID           string              `json:"id" validate:"max=64"`
	StockItemID  int64               `json:"stock_item_id" validate:"required,gt=0"`
	QtyNeeded    decimal.Decimal     `json:"qty_needed" validate:"gte=0"`
	YieldPercent decimal.Decimal     `json:"yield_percent" validate:"gt=0,lte=100"`
	CustomPrice  decimal.NullDecimal `json:"custom_price" validate:"omitempty,gte=0"`
}

type paramsRequest struct {
	LaborCostPercent   decimal.Decimal `json:"labor_cost_percent" validate:"gte=0,lte=100"`
	FixedCostBuffer    decimal.Decimal `json:"fixed_cost_buffer" validate:"gte=0"`
	EnableRiskFactor   bool            `json:"enable_risk_factor"`
	TargetProfitMargin decimal.Decimal `json:"target_profit_margin" validate:"gte=0,lte=100"`
}

type calculateRequest struct {
	Ingredients       []ingredientRequest `json:"ingredients" validate:"dive"`
	SelectedOverheads []string            `json:"selected_overheads" validate:"dive,required"`
	Params            paramsRequest       `json:"params"`
	ManualPrice       decimal.NullDecimal `json:"manual_price"`
}

type simulateRequest struct {
	calculateRequest
	Prices []decimal.Decimal `json:"prices" validate:"required,min=1,max=50"`
}

// calculation holds engine inputs resolved against the catalogs.
type calculation struct {
	ingredients []pricing.IngredientInput
	overheads   []pricing.OverheadCost
	params      pricing.ProfitProtectionInput
	manualPrice decimal.NullDecimal
}

type ingredientCost struct {
	ID          string          `json:"id"`
	StockItemID int64           `json:"stock_item_id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	RowCost     decimal.Decimal `json:"row_cost"`
}

type calculateResponse struct {
	Currency            string                    `json:"currency"`
	Result              pricing.CalculationResult `json:"result"`
	TotalFixedComponent decimal.Decimal           `json:"total_fixed_component"`
	Infeasible          bool                      `json:"infeasible"`
	Ingredients         []ingredientCost          `json:"ingredients"`
}

type simulateResponse struct {
	Currency    string               `json:"currency"`
	Simulations []pricing.Simulation `json:"simulations"`
}

// requestError is an input problem found while resolving a request.
type requestError struct {
	msg     string
	details []string
}

func (e *requestError) Error() string {
	return e.msg
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !s.bind(w, r, &req) {
		return
	}

	calc, ok := s.resolveOrWrite(w, r, req)
	if !ok {
		return
	}

	result := pricing.Calculate(calc.ingredients, calc.overheads, calc.params, calc.manualPrice)
	if result.Infeasible() {
		log.Warn(r.Context(), "infeasible pricing policy",
			"labor_cost_percent", calc.params.LaborCostPercent.String(),
			"target_profit_margin", calc.params.TargetProfitMargin.String(),
		)
	}

	writeJSON(w, r, http.StatusOK, s.newCalculateResponse(calc, result))
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !s.bind(w, r, &req) {
		return
	}

	calc, ok := s.resolveOrWrite(w, r, req.calculateRequest)
	if !ok {
		return
	}

	sims, err := pricing.Simulate(r.Context(), calc.ingredients, calc.overheads, calc.params, req.Prices)
	if err != nil {
		log.Info(r.Context(), "simulation aborted", "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "simulation aborted")
		return
	}

	writeJSON(w, r, http.StatusOK, simulateResponse{Currency: s.currency, Simulations: sims})
}

func (s *server) newCalculateResponse(calc calculation, result pricing.CalculationResult) calculateResponse {
	return calculateResponse{
		Currency:            s.currency,
		Result:              result,
		TotalFixedComponent: result.TotalFixedComponent(),
		Infeasible:          result.Infeasible(),
		Ingredients: lo.Map(calc.ingredients, func(ing pricing.IngredientInput, _ int) ingredientCost {
			return ingredientCost{
				ID:          ing.ID,
				StockItemID: ing.StockItem.ID,
				Name:        ing.StockItem.Name,
				Unit:        ing.StockItem.Unit,
				RowCost:     pricing.RowCost(ing),
			}
		}),
	}
}

// resolveOrWrite resolves req and writes the error response when it fails.
func (s *server) resolveOrWrite(w http.ResponseWriter, r *http.Request, req calculateRequest) (calculation, bool) {
	calc, err := s.resolve(r.Context(), req)
	if err == nil {
		return calc, true
	}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeError(w, r, http.StatusBadRequest, reqErr.msg, reqErr.details...)
		return calculation{}, false
	}

	log.Error(r.Context(), "resolve calculation", "err", err)
	writeError(w, r, http.StatusInternalServerError, "failed to load catalog")
	return calculation{}, false
}

// resolve looks up stock items and overheads and builds engine inputs.
func (s *server) resolve(ctx context.Context, req calculateRequest) (calculation, error) {
	ids := lo.Map(req.Ingredients, func(ing ingredientRequest, _ int) int64 { return ing.StockItemID })
	items, err := s.store.StockItemsByID(ctx, ids)
	if err != nil {
		return calculation{}, err
	}

	missing := lo.Filter(lo.Uniq(ids), func(id int64, _ int) bool {
		_, ok := items[id]
		return !ok
	})
	if len(missing) > 0 {
		return calculation{}, &requestError{
			msg: "unknown stock items",
			details: lo.Map(missing, func(id int64, _ int) string {
				return fmt.Sprintf("stock item %d not found", id)
			}),
		}
	}

	overheads, unknown, err := s.store.OverheadCosts(ctx, req.SelectedOverheads)
	if err != nil {
		return calculation{}, err
	}
	if len(unknown) > 0 {
		return calculation{}, &requestError{
			msg:     "unknown overheads",
			details: []string{"overhead codes not found: " + strings.Join(unknown, ", ")},
		}
	}

	calc := calculation{
		ingredients: lo.Map(req.Ingredients, func(ing ingredientRequest, _ int) pricing.IngredientInput {
			id := strings.TrimSpace(ing.ID)
			if id == "" {
				id = uuid.NewString()
			}
			return pricing.IngredientInput{
				ID:           id,
				StockItem:    items[ing.StockItemID],
				QtyNeeded:    ing.QtyNeeded,
				YieldPercent: ing.YieldPercent,
				CustomPrice:  ing.CustomPrice,
			}
		}),
		overheads: overheads,
		params: pricing.ProfitProtectionInput{
			LaborCostPercent:   req.Params.LaborCostPercent,
			FixedCostBuffer:    req.Params.FixedCostBuffer,
			EnableRiskFactor:   req.Params.EnableRiskFactor,
			TargetProfitMargin: req.Params.TargetProfitMargin,
		},
		manualPrice: req.ManualPrice,
	}

	if err := pricing.Validate(calc.ingredients, calc.overheads, calc.params); err != nil {
		return calculation{}, &requestError{msg: "validation failed", details: strings.Split(err.Error(), "\n")}
	}

	return calc, nil
}
