package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/pricing"
)

// Costing is a saved calculation. The result is stored as computed and is
// never recalculated on read, so later catalog price changes do not alter it.
type Costing struct {
	ID          int64                         `json:"id"`
	CreatedAt   string                        `json:"created_at"`
	Title       string                        `json:"title"`
	Notes       string                        `json:"notes"`
	ManualPrice decimal.NullDecimal           `json:"manual_price"`
	Params      pricing.ProfitProtectionInput `json:"params"`
	Ingredients []pricing.IngredientInput     `json:"ingredients"`
	Overheads   []pricing.OverheadCost        `json:"overheads"`
	Result      pricing.CalculationResult     `json:"result"`
}

// CostingListItem is the summary row returned by ListCostings.
type CostingListItem struct {
	ID           int64           `json:"id"`
	CreatedAt    string          `json:"created_at"`
	Title        string          `json:"title"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TotalHPP     decimal.Decimal `json:"total_hpp"`
}

// CreateCosting stores c as a snapshot and returns its id.
func (s *Store) CreateCosting(ctx context.Context, c Costing) (int64, error) {
	paramsJSON, err := json.Marshal(c.Params)
	if err != nil {
		return 0, fmt.Errorf("encode costing params: %w", err)
	}
	ingredientsJSON, err := json.Marshal(c.Ingredients)
	if err != nil {
		return 0, fmt.Errorf("encode costing ingredients: %w", err)
	}
	overheadsJSON, err := json.Marshal(c.Overheads)
	if err != nil {
		return 0, fmt.Errorf("encode costing overheads: %w", err)
	}
	resultJSON, err := json.Marshal(c.Result)
	if err != nil {
		return 0, fmt.Errorf("encode costing result: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO costings (title, notes, manual_price, params_json, ingredients_json, overheads_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Title, c.Notes, c.ManualPrice, string(paramsJSON), string(ingredientsJSON), string(overheadsJSON), string(resultJSON))
	if err != nil {
		return 0, fmt.Errorf("insert costing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read costing id: %w", err)
	}
	return id, nil
}

// ListCostings returns costings newest first, filtered by title or notes
// when query is not empty.
func (s *Store) ListCostings(ctx context.Context, query string) ([]CostingListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, title, result_json
		FROM costings
		WHERE (? = '' OR title LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query costings: %w", err)
	}
	defer rows.Close()

	items := make([]CostingListItem, 0)
	for rows.Next() {
		var item CostingListItem
		var resultJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &resultJSON); err != nil {
			return nil, fmt.Errorf("scan costing: %w", err)
		}

		var result pricing.CalculationResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, fmt.Errorf("decode costing %d result: %w", item.ID, err)
		}
		item.SellingPrice = result.SuggestedSellingPrice
		item.TotalHPP = result.TotalHPP
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate costings: %w", err)
	}

	return items, nil
}

// GetCosting returns the snapshot saved under id as it was stored.
func (s *Store) GetCosting(ctx context.Context, id int64) (Costing, error) {
	var c Costing
	var notes sql.NullString
	var paramsJSON, ingredientsJSON, overheadsJSON, resultJSON string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, title, notes, manual_price, params_json, ingredients_json, overheads_json, result_json
		FROM costings
		WHERE id = ?
	`, id).Scan(&c.ID, &c.CreatedAt, &c.Title, &notes, &c.ManualPrice, &paramsJSON, &ingredientsJSON, &overheadsJSON, &resultJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Costing{}, fmt.Errorf("costing %d: %w", id, ErrNotFound)
		}
		return Costing{}, fmt.Errorf("query costing: %w", err)
	}
	c.Notes = notes.String

	if err := json.Unmarshal([]byte(paramsJSON), &c.Params); err != nil {
		return Costing{}, fmt.Errorf("decode costing params: %w", err)
	}
	if err := json.Unmarshal([]byte(ingredientsJSON), &c.Ingredients); err != nil {
		return Costing{}, fmt.Errorf("decode costing ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(overheadsJSON), &c.Overheads); err != nil {
		return Costing{}, fmt.Errorf("decode costing overheads: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &c.Result); err != nil {
		return Costing{}, fmt.Errorf("decode costing result: %w", err)
	}

	return c, nil
}
