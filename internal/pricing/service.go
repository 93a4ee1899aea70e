package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/events"
	"github.com/noah-isme/backend-bar/internal/obs"
	"github.com/noah-isme/backend-bar/internal/repo"
)

// Store defines the storage operations required to record a sale.
type Store interface {
	ListDrinks(ctx context.Context) ([]repo.Drink, error)
	RecordSalePass(ctx context.Context, updates []repo.PriceUpdate, drinkID int64, quantity int32, price float64) error
}

// Result describes the outcome of one recorded sale.
type Result struct {
	Applied   bool        `json:"applied"`
	Drink     *repo.Drink `json:"drink,omitempty"`
	UnitPrice float64     `json:"unitPrice,omitempty"`
}

// Service records sale events and runs the catalog-wide pricing pass.
type Service struct {
	Store        Store
	SoldFactor   float64
	OthersFactor float64
	Events       *events.Bus
}

func (s *Service) soldFactor() float64 {
	if s == nil || s.SoldFactor <= 0 {
		return DefaultSoldFactor
	}
	return s.SoldFactor
}

func (s *Service) othersFactor() float64 {
	if s == nil || s.OthersFactor <= 0 {
		return DefaultOthersFactor
	}
	return s.OthersFactor
}

// RecordSale captures the sold drink's price, appends the sale to the ledger,
// and recomputes every drink's live price in one atomic pass. An unknown
// drink name is a no-op, not an error, so the sale path stays resilient to
// races with concurrent drink deletion.
func (s *Service) RecordSale(ctx context.Context, drinkName string, quantity int32) (Result, error) {
	if s == nil || s.Store == nil {
		return Result{}, errors.New("pricing service not configured")
	}
	if drinkName == "" {
		return Result{}, common.ValidationError("drinkName is required", nil)
	}
	if quantity <= 0 {
		return Result{}, common.ValidationError("quantity must be positive", nil)
	}

	drinks, err := s.Store.ListDrinks(ctx)
	if err != nil {
		return Result{}, common.StorageError(err)
	}

	var sold *repo.Drink
	for i := range drinks {
		if drinks[i].Name == drinkName {
			sold = &drinks[i]
			break
		}
	}
	if sold == nil {
		if obs.SalesRecordedTotal != nil {
			obs.SalesRecordedTotal.WithLabelValues("unknown_drink").Inc()
		}
		return Result{Applied: false}, nil
	}

	// Snapshot before the pass: the ledger keeps the price the customer saw.
	unitPrice := sold.CurrentPrice

	prices := make([]Price, 0, len(drinks))
	for _, d := range drinks {
		prices = append(prices, Price{DrinkID: d.ID, Value: d.CurrentPrice})
	}
	adjusted := Adjust(prices, sold.ID, s.soldFactor(), s.othersFactor())

	updates := make([]repo.PriceUpdate, 0, len(adjusted))
	for _, p := range adjusted {
		updates = append(updates, repo.PriceUpdate{DrinkID: p.DrinkID, Price: p.Value})
	}

	start := time.Now()
	if err := s.Store.RecordSalePass(ctx, updates, sold.ID, quantity, unitPrice); err != nil {
		if obs.SalesRecordedTotal != nil {
			obs.SalesRecordedTotal.WithLabelValues("error").Inc()
		}
		return Result{}, common.StorageError(err)
	}
	if obs.PricingPassDuration != nil {
		obs.PricingPassDuration.Observe(obs.DurationMillis(time.Since(start)))
	}
	if obs.SalesRecordedTotal != nil {
		obs.SalesRecordedTotal.WithLabelValues("ok").Inc()
	}
	if s.Events != nil {
		s.Events.Emit(ctx, events.TopicSaleRecorded, map[string]any{
			"drinkId":   sold.ID,
			"drinkName": sold.Name,
			"quantity":  quantity,
			"unitPrice": unitPrice,
		})
	}

	updated := *sold
	updated.CurrentPrice = unitPrice * s.soldFactor()
	return Result{Applied: true, Drink: &updated, UnitPrice: unitPrice}, nil
}
