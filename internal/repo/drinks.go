package repo

import (
	"context"
)

// Drinks provides row-level access to the drinks table.
type Drinks struct {
	DB DBTX
}

// List returns all drinks in insertion order.
func (r Drinks) List(ctx context.Context) ([]Drink, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, initial_price, current_price, created_at
		FROM drinks
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drinks []Drink
	for rows.Next() {
		var d Drink
		if err := rows.Scan(&d.ID, &d.Name, &d.InitialPrice, &d.CurrentPrice, &d.CreatedAt); err != nil {
			return nil, err
		}
		drinks = append(drinks, d)
	}
	return drinks, rows.Err()
}

// Get returns a single drink by id.
func (r Drinks) Get(ctx context.Context, id int64) (Drink, error) {
	var d Drink
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, initial_price, current_price, created_at
		FROM drinks
		WHERE id = $1`, id).Scan(&d.ID, &d.Name, &d.InitialPrice, &d.CurrentPrice, &d.CreatedAt)
	return d, err
}

// Create inserts a drink with its live price seeded from the initial price.
func (r Drinks) Create(ctx context.Context, name string, initialPrice float64) (Drink, error) {
	var d Drink
	err := r.DB.QueryRow(ctx, `
		INSERT INTO drinks (name, initial_price, current_price)
		VALUES ($1, $2, $2)
		RETURNING id, name, initial_price, current_price, created_at`,
		name, initialPrice).Scan(&d.ID, &d.Name, &d.InitialPrice, &d.CurrentPrice, &d.CreatedAt)
	return d, err
}

// Update renames a drink and re-bases both prices on the new initial price.
func (r Drinks) Update(ctx context.Context, id int64, name string, initialPrice float64) (Drink, error) {
	var d Drink
	err := r.DB.QueryRow(ctx, `
		UPDATE drinks
		SET name = $2, initial_price = $3, current_price = $3
		WHERE id = $1
		RETURNING id, name, initial_price, current_price, created_at`,
		id, name, initialPrice).Scan(&d.ID, &d.Name, &d.InitialPrice, &d.CurrentPrice, &d.CreatedAt)
	return d, err
}

// Delete removes a drink row and reports how many rows were affected.
func (r Drinks) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM drinks WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetCurrentPrice writes the live price of one drink.
func (r Drinks) SetCurrentPrice(ctx context.Context, id int64, price float64) error {
	_, err := r.DB.Exec(ctx, `UPDATE drinks SET current_price = $2 WHERE id = $1`, id, price)
	return err
}

// ResetPrices restores every drink's live price to its initial price.
func (r Drinks) ResetPrices(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `UPDATE drinks SET current_price = initial_price`)
	return err
}

// Count returns the number of drinks in the catalog.
func (r Drinks) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM drinks`).Scan(&count)
	return count, err
}
