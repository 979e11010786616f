package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const rendangBody = `{
	"ingredients": [
		{"id": "row-1", "stock_item_id": 1, "qty_needed": "0.1", "yield_percent": "80"}
	],
	"selected_overheads": ["oh-2"],
	"params": {"labor_cost_percent": "20", "fixed_cost_buffer": "0", "enable_risk_factor": false, "target_profit_margin": "30"}
}`

func requireDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func TestCalculateSolvesPriceFromCatalog(t *testing.T) {
	h := newTestHandler(t)

	rr := doJSON(t, h, http.MethodPost, "/api/hpp/calculate", rendangBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp calculateResponse
	decodeBody(t, rr, &resp)

	if resp.Currency != "IDR" {
		t.Fatalf("expected IDR currency, got %q", resp.Currency)
	}
	requireDecimal(t, "primeCost", resp.Result.PrimeCost, "16250")
	requireDecimal(t, "overheadCost", resp.Result.OverheadCost, "2000")
	requireDecimal(t, "totalFixedComponent", resp.TotalFixedComponent, "18250")
	requireDecimal(t, "suggestedSellingPrice", resp.Result.SuggestedSellingPrice, "36500")
	requireDecimal(t, "laborCost", resp.Result.LaborCost, "7300")
	requireDecimal(t, "totalHPP", resp.Result.TotalHPP, "25550")
	requireDecimal(t, "grossProfit", resp.Result.GrossProfit, "10950")
	requireDecimal(t, "netProfitPercentage", resp.Result.NetProfitPercentage, "30")
	if resp.Infeasible {
		t.Fatalf("did not expect infeasible result")
	}

	if len(resp.Ingredients) != 1 || resp.Ingredients[0].ID != "row-1" || resp.Ingredients[0].Name != "Daging Sapi" {
		t.Fatalf("unexpected ingredient breakdown: %+v", resp.Ingredients)
	}
	requireDecimal(t, "rowCost", resp.Ingredients[0].RowCost, "16250")
}

func TestCalculateManualPriceAndCustomPrice(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"ingredients": [{"stock_item_id": 1, "qty_needed": 0.1, "yield_percent": 100, "custom_price": 100000}],
		"params": {"labor_cost_percent": 25, "target_profit_margin": 99},
		"manual_price": 40000
	}`
	rr := doJSON(t, h, http.MethodPost, "/api/hpp/calculate", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp calculateResponse
	decodeBody(t, rr, &resp)

	requireDecimal(t, "primeCost", resp.Result.PrimeCost, "10000")
	requireDecimal(t, "suggestedSellingPrice", resp.Result.SuggestedSellingPrice, "40000")
	requireDecimal(t, "laborCost", resp.Result.LaborCost, "10000")
	requireDecimal(t, "foodCostPercentage", resp.Result.FoodCostPercentage, "25")
	if resp.Ingredients[0].ID == "" {
		t.Fatalf("expected generated row id")
	}
}

func TestCalculateReportsInfeasiblePolicy(t *testing.T) {
	h := newTestHandler(t)

	body := strings.Replace(rendangBody, `"target_profit_margin": "30"`, `"target_profit_margin": "50"`, 1)
	body = strings.Replace(body, `"labor_cost_percent": "20"`, `"labor_cost_percent": "60"`, 1)

	rr := doJSON(t, h, http.MethodPost, "/api/hpp/calculate", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp calculateResponse
	decodeBody(t, rr, &resp)

	if !resp.Infeasible {
		t.Fatalf("expected infeasible flag")
	}
	requireDecimal(t, "suggestedSellingPrice", resp.Result.SuggestedSellingPrice, "0")
	requireDecimal(t, "laborCost", resp.Result.LaborCost, "0")
	requireDecimal(t, "totalHPP", resp.Result.TotalHPP, "18250")
}

func TestCalculateRejectsBadInput(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "zero yield",
			body: `{"ingredients":[{"stock_item_id":1,"qty_needed":"1","yield_percent":"0"}],"params":{}}`,
			want: "ingredients[0].yield_percent failed gt=0",
		},
		{
			name: "labor above hundred",
			body: `{"params":{"labor_cost_percent":"120"}}`,
			want: "params.labor_cost_percent failed lte=100",
		},
		{
			name: "unknown stock item",
			body: `{"ingredients":[{"stock_item_id":999,"qty_needed":"1","yield_percent":"100"}],"params":{}}`,
			want: "stock item 999 not found",
		},
		{
			name: "unknown overhead",
			body: `{"selected_overheads":["oh-x"],"params":{}}`,
			want: "overhead codes not found: oh-x",
		},
		{
			name: "non-positive stock item id",
			body: `{"ingredients":[{"stock_item_id":-3,"qty_needed":"1","yield_percent":"100"}],"params":{}}`,
			want: "stock_item_id failed gt=0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, h, http.MethodPost, "/api/hpp/calculate", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tc.want) {
				t.Fatalf("expected body to contain %q, got %s", tc.want, rr.Body.String())
			}
		})
	}
}

func TestSimulateKeepsPriceOrder(t *testing.T) {
	h := newTestHandler(t)

	body := strings.TrimSuffix(strings.TrimSpace(rendangBody), "}") + `, "prices": ["30000", "0", "50000"]}`
	rr := doJSON(t, h, http.MethodPost, "/api/hpp/simulate", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp simulateResponse
	decodeBody(t, rr, &resp)

	if len(resp.Simulations) != 3 {
		t.Fatalf("expected 3 simulations, got %d", len(resp.Simulations))
	}
	for i, want := range []string{"30000", "36500", "50000"} {
		requireDecimal(t, "price", resp.Simulations[i].Result.SuggestedSellingPrice, want)
	}
	requireDecimal(t, "grossProfit at 50000", resp.Simulations[2].Result.GrossProfit, "21750")
}

func TestSimulateRequiresPrices(t *testing.T) {
	h := newTestHandler(t)

	rr := doJSON(t, h, http.MethodPost, "/api/hpp/simulate", rendangBody)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "prices failed required") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}
