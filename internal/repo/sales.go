package repo

import (
	"context"
)

// Sales provides access to the append-only sales ledger.
type Sales struct {
	DB DBTX
}

// Insert appends one sale event with the captured price snapshot.
func (r Sales) Insert(ctx context.Context, drinkID int64, quantity int32, price float64) (Sale, error) {
	var s Sale
	err := r.DB.QueryRow(ctx, `
		INSERT INTO sales (drink_id, quantity, price)
		VALUES ($1, $2, $3)
		RETURNING id, drink_id, quantity, price, created_at`,
		drinkID, quantity, price).Scan(&s.ID, &s.DrinkID, &s.Quantity, &s.Price, &s.CreatedAt)
	return s, err
}

// Clear removes every ledger row, starting a new reporting period.
func (r Sales) Clear(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM sales`)
	return err
}

// DeleteByDrink removes all ledger rows referencing the given drink.
func (r Sales) DeleteByDrink(ctx context.Context, drinkID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM sales WHERE drink_id = $1`, drinkID)
	return err
}

// SummaryByDrink aggregates the ledger joined with the catalog, grouped by the
// drink's current name. Average price is the arithmetic mean of per-sale
// prices, not weighted by quantity.
func (r Sales) SummaryByDrink(ctx context.Context) ([]DrinkSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT d.name, SUM(s.quantity), AVG(s.price), SUM(s.quantity * s.price)
		FROM sales s
		JOIN drinks d ON d.id = s.drink_id
		GROUP BY d.name
		ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []DrinkSummary
	for rows.Next() {
		var s DrinkSummary
		if err := rows.Scan(&s.Name, &s.Quantity, &s.AvgPrice, &s.Revenue); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Totals returns ledger-wide quantity and revenue, zero when the ledger is empty.
func (r Sales) Totals(ctx context.Context) (SaleTotals, error) {
	var t SaleTotals
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * price), 0)
		FROM sales`).Scan(&t.Quantity, &t.Revenue)
	return t, err
}
