package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PriceUpdate carries one drink's new live price computed by a pricing pass.
type PriceUpdate struct {
	DrinkID int64
	Price   float64
}

// Store is the pool-backed implementation of the per-domain store interfaces.
// Operations touching more than one row run inside a single transaction.
type Store struct {
	Pool *pgxpool.Pool
}

// ListDrinks returns the full catalog in insertion order.
func (s Store) ListDrinks(ctx context.Context) ([]Drink, error) {
	return Drinks{DB: s.Pool}.List(ctx)
}

// GetDrink returns one drink by id.
func (s Store) GetDrink(ctx context.Context, id int64) (Drink, error) {
	return Drinks{DB: s.Pool}.Get(ctx, id)
}

// CreateDrink inserts a drink with current price seeded from the initial price.
func (s Store) CreateDrink(ctx context.Context, name string, initialPrice float64) (Drink, error) {
	return Drinks{DB: s.Pool}.Create(ctx, name, initialPrice)
}

// UpdateDrink renames and re-bases a drink. Returns pgx.ErrNoRows when missing.
func (s Store) UpdateDrink(ctx context.Context, id int64, name string, initialPrice float64) (Drink, error) {
	return Drinks{DB: s.Pool}.Update(ctx, id, name, initialPrice)
}

// DeleteDrinkCascade removes a drink's ledger rows and then the drink itself.
// Returns pgx.ErrNoRows when the drink does not exist.
func (s Store) DeleteDrinkCascade(ctx context.Context, id int64) error {
	return InTx(ctx, s.Pool, func(tx pgx.Tx) error {
		return deleteDrinkCascade(ctx, tx, id)
	})
}

// deleteDrinkCascade clears the drink's sales before the drink row itself so
// the foreign key never blocks and no orphan ledger rows survive.
func deleteDrinkCascade(ctx context.Context, db DBTX, id int64) error {
	if err := (Sales{DB: db}).DeleteByDrink(ctx, id); err != nil {
		return err
	}
	affected, err := Drinks{DB: db}.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ResetAll restores every live price to its initial price and clears the
// ledger so reporting starts a new period.
func (s Store) ResetAll(ctx context.Context) error {
	return InTx(ctx, s.Pool, func(tx pgx.Tx) error {
		return resetCatalog(ctx, tx)
	})
}

func resetCatalog(ctx context.Context, db DBTX) error {
	if err := (Drinks{DB: db}).ResetPrices(ctx); err != nil {
		return err
	}
	return Sales{DB: db}.Clear(ctx)
}

// RecordSalePass atomically applies a full set of price updates and appends
// the triggering sale to the ledger. Either all drinks are updated or none.
func (s Store) RecordSalePass(ctx context.Context, updates []PriceUpdate, drinkID int64, quantity int32, price float64) error {
	return InTx(ctx, s.Pool, func(tx pgx.Tx) error {
		drinks := Drinks{DB: tx}
		for _, u := range updates {
			if err := drinks.SetCurrentPrice(ctx, u.DrinkID, u.Price); err != nil {
				return err
			}
		}
		_, err := Sales{DB: tx}.Insert(ctx, drinkID, quantity, price)
		return err
	})
}

// ListOrders returns persisted orders, newest first.
func (s Store) ListOrders(ctx context.Context, limit, offset int32) ([]Order, error) {
	return Orders{DB: s.Pool}.List(ctx, limit, offset)
}

// CountOrders returns the number of persisted orders.
func (s Store) CountOrders(ctx context.Context) (int64, error) {
	return Orders{DB: s.Pool}.Count(ctx)
}

// SummaryByDrink aggregates the ledger grouped by current drink name.
func (s Store) SummaryByDrink(ctx context.Context) ([]DrinkSummary, error) {
	return Sales{DB: s.Pool}.SummaryByDrink(ctx)
}

// SaleTotals returns ledger-wide quantity and revenue.
func (s Store) SaleTotals(ctx context.Context) (SaleTotals, error) {
	return Sales{DB: s.Pool}.Totals(ctx)
}
