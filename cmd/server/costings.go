package main

import (
	"net/http"
	"strings"

	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/log"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/pricing"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/store"
)

type createCostingRequest struct {
	calculateRequest
	Title string `json:"title" validate:"required,max=200"`
	Notes string `json:"notes" validate:"max=2000"`
}

type costingResponse struct {
	Costing    store.Costing `json:"costing"`
	Infeasible bool          `json:"infeasible"`
}

func (s *server) handleCostingsCreate(w http.ResponseWriter, r *http.Request) {
	var req createCostingRequest
	if !s.bind(w, r, &req) {
		return
	}

	calc, ok := s.resolveOrWrite(w, r, req.calculateRequest)
	if !ok {
		return
	}

	costing := store.Costing{
		Title:       strings.TrimSpace(req.Title),
		Notes:       strings.TrimSpace(req.Notes),
		ManualPrice: calc.manualPrice,
		Params:      calc.params,
		Ingredients: calc.ingredients,
		Overheads:   calc.overheads,
		Result:      pricing.Calculate(calc.ingredients, calc.overheads, calc.params, calc.manualPrice),
	}

	id, err := s.store.CreateCosting(r.Context(), costing)
	if err != nil {
		s.writeStoreError(w, r, "create costing", err)
		return
	}
	costing.ID = id

	log.Info(r.Context(), "costing saved", "id", id, "price", costing.Result.SuggestedSellingPrice.String())
	writeJSON(w, r, http.StatusCreated, costingResponse{Costing: costing, Infeasible: costing.Result.Infeasible()})
}

func (s *server) handleCostingsList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := s.store.ListCostings(r.Context(), query)
	if err != nil {
		log.Error(r.Context(), "list costings", "err", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load costings")
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

// handleCostingsGet returns the stored snapshot without recalculating it.
func (s *server) handleCostingsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid costing id")
		return
	}

	costing, err := s.store.GetCosting(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "load costing", err)
		return
	}

	writeJSON(w, r, http.StatusOK, costingResponse{Costing: costing, Infeasible: costing.Result.Infeasible()})
}
