package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/pricing"
)

// StockItem is a catalog row.
type StockItem struct {
	pricing.StockItem
	Active bool `json:"active"`
}

// Overhead is an overhead catalog row. Code is the stable identifier the
// calculator sees as OverheadCost.ID.
type Overhead struct {
	ID     int64           `json:"id"`
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Active bool            `json:"active"`
}

// ListStockItems returns every stock item, newest first.
func (s *Store) ListStockItems(ctx context.Context) ([]StockItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, unit, price_per_unit, active
		FROM stock_items
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query stock items: %w", err)
	}
	defer rows.Close()

	items := make([]StockItem, 0)
	for rows.Next() {
		var item StockItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.PricePerUnit, &item.Active); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock items: %w", err)
	}

	return items, nil
}

// CreateStockItem inserts item and returns its id.
func (s *Store) CreateStockItem(ctx context.Context, item StockItem) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_items (name, unit, price_per_unit, active)
		VALUES (?, ?, ?, ?)
	`, item.Name, item.Unit, item.PricePerUnit, item.Active)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("stock item %q: %w", item.Name, ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("insert stock item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read stock item id: %w", err)
	}
	return id, nil
}

// UpdateStockItem overwrites the stock item with item.ID.
func (s *Store) UpdateStockItem(ctx context.Context, item StockItem) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE stock_items
		SET
			name = ?,
			unit = ?,
			price_per_unit = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, item.Name, item.Unit, item.PricePerUnit, item.Active, item.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("stock item %q: %w", item.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}

	if err := checkAffected(result); err != nil {
		return fmt.Errorf("update stock item %d: %w", item.ID, err)
	}
	return nil
}

// StockItemsByID loads active stock items keyed by id. Ids that are missing
// or inactive are absent from the map.
func (s *Store) StockItemsByID(ctx context.Context, ids []int64) (map[int64]pricing.StockItem, error) {
	ids = lo.Uniq(ids)
	found := make(map[int64]pricing.StockItem, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := lo.Map(ids, func(id int64, _ int) any { return id })

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, unit, price_per_unit
		FROM stock_items
		WHERE active = TRUE AND id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock items by id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item pricing.StockItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.PricePerUnit); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		found[item.ID] = item
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock items: %w", err)
	}

	return found, nil
}

// ListOverheads returns every overhead ordered by code.
func (s *Store) ListOverheads(ctx context.Context) ([]Overhead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, amount, active
		FROM overheads
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query overheads: %w", err)
	}
	defer rows.Close()

	overheads := make([]Overhead, 0)
	for rows.Next() {
		var oh Overhead
		if err := rows.Scan(&oh.ID, &oh.Code, &oh.Name, &oh.Amount, &oh.Active); err != nil {
			return nil, fmt.Errorf("scan overhead: %w", err)
		}
		overheads = append(overheads, oh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overheads: %w", err)
	}

	return overheads, nil
}

// CreateOverhead inserts oh and returns its id.
func (s *Store) CreateOverhead(ctx context.Context, oh Overhead) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO overheads (code, name, amount, active)
		VALUES (?, ?, ?, ?)
	`, oh.Code, oh.Name, oh.Amount, oh.Active)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("overhead %q: %w", oh.Code, ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("insert overhead: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read overhead id: %w", err)
	}
	return id, nil
}

// UpdateOverhead overwrites the overhead with oh.ID.
func (s *Store) UpdateOverhead(ctx context.Context, oh Overhead) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE overheads
		SET
			code = ?,
			name = ?,
			amount = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, oh.Code, oh.Name, oh.Amount, oh.Active, oh.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("overhead %q: %w", oh.Code, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update overhead: %w", err)
	}

	if err := checkAffected(result); err != nil {
		return fmt.Errorf("update overhead %d: %w", oh.ID, err)
	}
	return nil
}

// OverheadCosts returns every active overhead as calculator input, marking
// the ones whose code is in selected. It also returns the selected codes that
// matched nothing.
func (s *Store) OverheadCosts(ctx context.Context, selected []string) ([]pricing.OverheadCost, []string, error) {
	overheads, err := s.ListOverheads(ctx)
	if err != nil {
		return nil, nil, err
	}

	active := lo.Filter(overheads, func(oh Overhead, _ int) bool { return oh.Active })
	costs := lo.Map(active, func(oh Overhead, _ int) pricing.OverheadCost {
		return pricing.OverheadCost{
			ID:         oh.Code,
			Name:       oh.Name,
			Amount:     oh.Amount,
			IsSelected: lo.Contains(selected, oh.Code),
		}
	})

	known := lo.Map(active, func(oh Overhead, _ int) string { return oh.Code })
	unknown, _ := lo.Difference(lo.Uniq(selected), known)

	return costs, unknown, nil
}
