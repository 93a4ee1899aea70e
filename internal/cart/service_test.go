package cart_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-bar/internal/cart"
	"github.com/noah-isme/backend-bar/internal/repo"
)

type stubDrinks struct {
	drinks map[int64]repo.Drink
}

func (s stubDrinks) GetDrink(_ context.Context, id int64) (repo.Drink, error) {
	d, ok := s.drinks[id]
	if !ok {
		return repo.Drink{}, pgx.ErrNoRows
	}
	return d, nil
}

func newTestService(t *testing.T) (*cart.Service, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	drinks := stubDrinks{drinks: map[int64]repo.Drink{
		1: {ID: 1, Name: "Beer", InitialPrice: 100, CurrentPrice: 104},
		2: {ID: 2, Name: "Wine", InitialPrice: 200, CurrentPrice: 196},
	}}
	return &cart.Service{R: rdb, Drinks: drinks, TTL: time.Hour}, mr
}

func TestCreateAndGet(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected cart id")
	}
	if len(created.Lines) != 0 {
		t.Fatalf("new cart must be empty, got %d lines", len(created.Lines))
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, got.ID)
	}
	if ttl := mr.TTL("cart:" + created.ID); ttl <= 0 {
		t.Fatalf("expected a positive TTL, got %v", ttl)
	}
}

func TestGetMissingCart(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddItemCapturesLivePriceAndMerges(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c, err = svc.AddItem(ctx, c.ID, 1, 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Lines))
	}
	line := c.Lines[0]
	if line.UnitPrice != 104 || line.TotalPrice != 208 {
		t.Fatalf("expected live price captured, got %+v", line)
	}

	c, err = svc.AddItem(ctx, c.ID, 1, 1)
	if err != nil {
		t.Fatalf("add same drink: %v", err)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("same drink must merge, got %d lines", len(c.Lines))
	}
	if c.Lines[0].Quantity != 3 || c.Lines[0].TotalPrice != 312 {
		t.Fatalf("unexpected merged line: %+v", c.Lines[0])
	}

	if c.Total() != 312 {
		t.Fatalf("unexpected cart total: %v", c.Total())
	}
}

func TestAddItemUnknownDrink(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AddItem(ctx, c.ID, 99, 1); err == nil {
		t.Fatal("expected error for unknown drink")
	}
}

func TestUpdateAndRemoveItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, _ := svc.Create(ctx)
	c, err := svc.AddItem(ctx, c.ID, 1, 1)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	c, err = svc.AddItem(ctx, c.ID, 2, 1)
	if err != nil {
		t.Fatalf("add second item: %v", err)
	}

	c, err = svc.UpdateItem(ctx, c.ID, 1, 5)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if c.Lines[0].Quantity != 5 || c.Lines[0].TotalPrice != 520 {
		t.Fatalf("unexpected updated line: %+v", c.Lines[0])
	}

	if _, err := svc.UpdateItem(ctx, c.ID, 99, 1); err == nil {
		t.Fatal("expected error updating a missing line")
	}

	c, err = svc.RemoveItem(ctx, c.ID, 1)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if len(c.Lines) != 1 || c.Lines[0].DrinkID != 2 {
		t.Fatalf("unexpected lines after remove: %+v", c.Lines)
	}

	if _, err := svc.RemoveItem(ctx, c.ID, 99); err == nil {
		t.Fatal("expected error removing a missing line")
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, _ := svc.Create(ctx)
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, c.ID); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
