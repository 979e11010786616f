package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// DefaultStockItems is the starter catalog inserted on an empty database.
func DefaultStockItems() []pricing.StockItem {
	return []pricing.StockItem{
		{Name: "Daging Sapi", Unit: "kg", PricePerUnit: decimal.NewFromInt(130000)},
		{Name: "Beras", Unit: "kg", PricePerUnit: decimal.NewFromInt(14000)},
		{Name: "Minyak Goreng", Unit: "liter", PricePerUnit: decimal.NewFromInt(18000)},
		{Name: "Telur Ayam", Unit: "butir", PricePerUnit: decimal.NewFromInt(2000)},
		{Name: "Bawang Merah", Unit: "kg", PricePerUnit: decimal.NewFromInt(40000)},
	}
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, oh := range pricing.DefaultOverheads() {
		if err := ensureOverhead(ctx, tx, oh, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	for _, item := range DefaultStockItems() {
		if err := ensureStockItem(ctx, tx, item, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureOverhead(ctx context.Context, tx *sql.Tx, oh pricing.OverheadCost, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM overheads WHERE code = ? LIMIT 1)`, oh.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check overhead %s existence: %w", oh.ID, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO overheads (code, name, amount, active)
		VALUES (?, ?, ?, TRUE)
	`, oh.ID, oh.Name, oh.Amount); err != nil {
		return fmt.Errorf("insert overhead %s: %w", oh.ID, err)
	}
	stats.Inserts++
	return nil
}

func ensureStockItem(ctx context.Context, tx *sql.Tx, item pricing.StockItem, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM stock_items WHERE name = ? LIMIT 1)`, item.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check stock item %q existence: %w", item.Name, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stock_items (name, unit, price_per_unit, active)
		VALUES (?, ?, ?, TRUE)
	`, item.Name, item.Unit, item.PricePerUnit); err != nil {
		return fmt.Errorf("insert stock item %q: %w", item.Name, err)
	}
	stats.Inserts++
	return nil
}
