package repo

import (
	"context"
)

// Orders persists checked-out cart lines.
type Orders struct {
	DB DBTX
}

// Insert stores one order line with a drink name snapshot.
func (r Orders) Insert(ctx context.Context, drinkName string, quantity int32, totalPrice float64) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders (drink_name, quantity, total_price)
		VALUES ($1, $2, $3)
		RETURNING id, drink_name, quantity, total_price, order_time`,
		drinkName, quantity, totalPrice).Scan(&o.ID, &o.DrinkName, &o.Quantity, &o.TotalPrice, &o.OrderTime)
	return o, err
}

// List returns persisted orders, newest first.
func (r Orders) List(ctx context.Context, limit, offset int32) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, drink_name, quantity, total_price, order_time
		FROM orders
		ORDER BY order_time DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.DrinkName, &o.Quantity, &o.TotalPrice, &o.OrderTime); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Count returns the number of persisted orders.
func (r Orders) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}
