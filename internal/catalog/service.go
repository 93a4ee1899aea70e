package catalog

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/events"
	"github.com/noah-isme/backend-bar/internal/obs"
	"github.com/noah-isme/backend-bar/internal/repo"
)

// Store defines the storage operations the catalog service relies on.
type Store interface {
	ListDrinks(ctx context.Context) ([]repo.Drink, error)
	CreateDrink(ctx context.Context, name string, initialPrice float64) (repo.Drink, error)
	UpdateDrink(ctx context.Context, id int64, name string, initialPrice float64) (repo.Drink, error)
	DeleteDrinkCascade(ctx context.Context, id int64) error
	ResetAll(ctx context.Context) error
}

// Service owns drink lifecycle operations: listing, creation, edits, cascade
// deletion, and the reset flow that starts a new reporting period.
type Service struct {
	Store  Store
	Events *events.Bus
}

// List returns all drinks in insertion order.
func (s *Service) List(ctx context.Context) ([]repo.Drink, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("catalog service not configured")
	}
	drinks, err := s.Store.ListDrinks(ctx)
	if err != nil {
		return nil, common.StorageError(err)
	}
	return drinks, nil
}

// Create adds a drink; its live price starts at the initial price.
func (s *Service) Create(ctx context.Context, name string, initialPrice float64) (repo.Drink, error) {
	if s == nil || s.Store == nil {
		return repo.Drink{}, errors.New("catalog service not configured")
	}
	name = strings.TrimSpace(name)
	if err := validateInput(name, initialPrice); err != nil {
		return repo.Drink{}, err
	}
	drink, err := s.Store.CreateDrink(ctx, name, initialPrice)
	if err != nil {
		return repo.Drink{}, common.StorageError(err)
	}
	return drink, nil
}

// Update renames a drink and re-bases its live price on the new initial
// price. Editing the base price always re-bases the live price.
func (s *Service) Update(ctx context.Context, id int64, name string, initialPrice float64) (repo.Drink, error) {
	if s == nil || s.Store == nil {
		return repo.Drink{}, errors.New("catalog service not configured")
	}
	name = strings.TrimSpace(name)
	if err := validateInput(name, initialPrice); err != nil {
		return repo.Drink{}, err
	}
	drink, err := s.Store.UpdateDrink(ctx, id, name, initialPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.Drink{}, common.NotFoundError("drink not found")
		}
		return repo.Drink{}, common.StorageError(err)
	}
	return drink, nil
}

// Delete removes a drink and all of its ledger rows.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s == nil || s.Store == nil {
		return errors.New("catalog service not configured")
	}
	if err := s.Store.DeleteDrinkCascade(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NotFoundError("drink not found")
		}
		return common.StorageError(err)
	}
	if s.Events != nil {
		s.Events.Emit(ctx, events.TopicDrinkDeleted, map[string]any{"drinkId": id})
	}
	return nil
}

// ResetAll restores every live price to its initial price and clears the
// sales ledger. Idempotent: a second call leaves the same state.
func (s *Service) ResetAll(ctx context.Context) error {
	if s == nil || s.Store == nil {
		return errors.New("catalog service not configured")
	}
	if err := s.Store.ResetAll(ctx); err != nil {
		return common.StorageError(err)
	}
	if obs.PriceResetsTotal != nil {
		obs.PriceResetsTotal.Inc()
	}
	if s.Events != nil {
		s.Events.Emit(ctx, events.TopicPricesReset, nil)
	}
	return nil
}

func validateInput(name string, initialPrice float64) error {
	if name == "" {
		return common.ValidationError("name is required", nil)
	}
	if initialPrice <= 0 || math.IsNaN(initialPrice) || math.IsInf(initialPrice, 0) {
		return common.ValidationError("initialPrice must be a positive finite number", nil)
	}
	return nil
}
