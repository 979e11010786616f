package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/log"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/pricing"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/store"
)

type stockItemRequest struct {
	Name         string          `json:"name" validate:"required,max=120"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"gte=0"`
	Active       *bool           `json:"active"`
}

func (req stockItemRequest) toStockItem(id int64) store.StockItem {
	return store.StockItem{
		StockItem: pricing.StockItem{
			ID:           id,
			Name:         strings.TrimSpace(req.Name),
			Unit:         strings.TrimSpace(req.Unit),
			PricePerUnit: req.PricePerUnit,
		},
		Active: req.Active == nil || *req.Active,
	}
}

type overheadRequest struct {
	Code   string          `json:"code" validate:"required,max=40"`
	Name   string          `json:"name" validate:"required,max=120"`
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
	Active *bool           `json:"active"`
}

func (req overheadRequest) toOverhead(id int64) store.Overhead {
	return store.Overhead{
		ID:     id,
		Code:   strings.TrimSpace(req.Code),
		Name:   strings.TrimSpace(req.Name),
		Amount: req.Amount,
		Active: req.Active == nil || *req.Active,
	}
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (s *server) handleStockItemsList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListStockItems(r.Context())
	if err != nil {
		log.Error(r.Context(), "list stock items", "err", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load stock items")
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (s *server) handleStockItemsCreate(w http.ResponseWriter, r *http.Request) {
	var req stockItemRequest
	if !s.bind(w, r, &req) {
		return
	}

	id, err := s.store.CreateStockItem(r.Context(), req.toStockItem(0))
	if err != nil {
		s.writeStoreError(w, r, "create stock item", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, createdResponse{ID: id})
}

func (s *server) handleStockItemsUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid stock item id")
		return
	}

	var req stockItemRequest
	if !s.bind(w, r, &req) {
		return
	}

	if err := s.store.UpdateStockItem(r.Context(), req.toStockItem(id)); err != nil {
		s.writeStoreError(w, r, "update stock item", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleOverheadsList(w http.ResponseWriter, r *http.Request) {
	overheads, err := s.store.ListOverheads(r.Context())
	if err != nil {
		log.Error(r.Context(), "list overheads", "err", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load overheads")
		return
	}
	writeJSON(w, r, http.StatusOK, overheads)
}

func (s *server) handleOverheadsCreate(w http.ResponseWriter, r *http.Request) {
	var req overheadRequest
	if !s.bind(w, r, &req) {
		return
	}

	id, err := s.store.CreateOverhead(r.Context(), req.toOverhead(0))
	if err != nil {
		s.writeStoreError(w, r, "create overhead", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, createdResponse{ID: id})
}

func (s *server) handleOverheadsUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid overhead id")
		return
	}

	var req overheadRequest
	if !s.bind(w, r, &req) {
		return
	}

	if err := s.store.UpdateOverhead(r.Context(), req.toOverhead(id)); err != nil {
		s.writeStoreError(w, r, "update overhead", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// bind decodes and validates the request body, writing a 400 on failure.
func (s *server) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation failed", validationDetails(err)...)
		return false
	}
	return true
}

func (s *server) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, r, http.StatusConflict, "already exists")
	default:
		log.Error(r.Context(), op, "err", err)
		writeError(w, r, http.StatusInternalServerError, "failed to "+op)
	}
}
