package checkout

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-bar/internal/cart"
	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/events"
	"github.com/noah-isme/backend-bar/internal/obs"
	"github.com/noah-isme/backend-bar/internal/pricing"
	"github.com/noah-isme/backend-bar/internal/repo"
)

// Output summarises a committed checkout.
type Output struct {
	OrderIDs []int64 `json:"orderIds"`
	Total    float64 `json:"total"`
}

// Service commits an open cart: every line becomes an order row plus a sale
// ledger row, and each sold drink triggers one pricing pass, all in a single
// transaction.
type Service struct {
	Pool         *pgxpool.Pool
	Carts        *cart.Service
	SoldFactor   float64
	OthersFactor float64
	Events       *events.Bus
}

// Checkout commits the cart with the given id and deletes it on success.
func (s *Service) Checkout(ctx context.Context, cartID string) (Output, error) {
	if s == nil || s.Pool == nil || s.Carts == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	c, err := s.Carts.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return Output{}, common.NotFoundError("cart not found")
		}
		return Output{}, err
	}
	if len(c.Lines) == 0 {
		return Output{}, common.ValidationError("cart is empty", nil)
	}

	var out Output
	err = repo.InTx(ctx, s.Pool, func(tx pgx.Tx) error {
		drinks := repo.Drinks{DB: tx}
		sales := repo.Sales{DB: tx}
		orders := repo.Orders{DB: tx}

		all, err := drinks.List(ctx)
		if err != nil {
			return err
		}
		prices := make([]pricing.Price, 0, len(all))
		known := make(map[int64]bool, len(all))
		for _, d := range all {
			prices = append(prices, pricing.Price{DrinkID: d.ID, Value: d.CurrentPrice})
			known[d.ID] = true
		}

		for _, line := range c.Lines {
			order, err := orders.Insert(ctx, line.Name, line.Quantity, line.TotalPrice)
			if err != nil {
				return err
			}
			out.OrderIDs = append(out.OrderIDs, order.ID)
			out.Total += line.TotalPrice

			// A drink deleted after it was carted still checks out as an
			// order row; only the ledger entry and pricing pass are skipped.
			if !known[line.DrinkID] {
				continue
			}
			if _, err := sales.Insert(ctx, line.DrinkID, line.Quantity, line.UnitPrice); err != nil {
				return err
			}
			prices = pricing.Adjust(prices, line.DrinkID, s.SoldFactor, s.OthersFactor)
		}

		for _, p := range prices {
			if err := drinks.SetCurrentPrice(ctx, p.DrinkID, p.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Output{}, common.StorageError(err)
	}

	if err := s.Carts.Delete(ctx, cartID); err != nil {
		return out, err
	}
	if obs.OrdersCreatedTotal != nil {
		obs.OrdersCreatedTotal.Add(float64(len(out.OrderIDs)))
	}
	if s.Events != nil {
		s.Events.Emit(ctx, events.TopicOrderCreated, map[string]any{
			"cartId":   cartID,
			"orderIds": out.OrderIDs,
			"total":    out.Total,
		})
	}
	return out, nil
}
