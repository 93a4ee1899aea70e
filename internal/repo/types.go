package repo

import "time"

// Drink is a catalog entry with a base and a live price.
type Drink struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	InitialPrice float64   `json:"initialPrice"`
	CurrentPrice float64   `json:"currentPrice"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sale is one committed sale event with the price captured at sale time.
type Sale struct {
	ID        int64     `json:"id"`
	DrinkID   int64     `json:"drinkId"`
	Quantity  int32     `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// Order is a checked-out cart line persisted with a name snapshot.
type Order struct {
	ID         int64     `json:"id"`
	DrinkName  string    `json:"drinkName"`
	Quantity   int32     `json:"quantity"`
	TotalPrice float64   `json:"totalPrice"`
	OrderTime  time.Time `json:"orderTime"`
}

// DrinkSummary is one aggregated report row grouped by the drink's current name.
type DrinkSummary struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	AvgPrice float64 `json:"avgPrice"`
	Revenue  float64 `json:"revenue"`
}

// SaleTotals carries ledger-wide aggregates independent of grouping.
type SaleTotals struct {
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}
