package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-bar/internal/events"
	"github.com/noah-isme/backend-bar/internal/repo"
	"github.com/noah-isme/backend-bar/internal/report"
)

func TestCacheInvalidatorDropsReportOnLedgerEvents(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	q := &stubQuerier{totals: repo.SaleTotals{Quantity: 1, Revenue: 100}}
	svc := &report.Service{Q: q, R: rdb, TTL: time.Hour}
	inv := report.CacheInvalidator{R: rdb}
	ctx := context.Background()

	if _, err := svc.Generate(ctx); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if _, err := svc.Generate(ctx); err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if q.queryCalls != 1 {
		t.Fatalf("expected cache hit, got %d DB calls", q.queryCalls)
	}

	q.totals = repo.SaleTotals{Quantity: 0, Revenue: 0}
	if err := inv.Notify(ctx, events.Event{Topic: events.TopicPricesReset}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	rep, err := svc.Generate(ctx)
	if err != nil {
		t.Fatalf("post-reset read: %v", err)
	}
	if q.queryCalls != 2 {
		t.Fatalf("reset must invalidate the cache, got %d DB calls", q.queryCalls)
	}
	if rep.TotalQuantity != 0 {
		t.Fatalf("expected fresh empty report, got %+v", rep)
	}
}

func TestCacheInvalidatorIgnoresUnrelatedTopics(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	q := &stubQuerier{totals: repo.SaleTotals{Quantity: 1, Revenue: 100}}
	svc := &report.Service{Q: q, R: rdb, TTL: time.Hour}
	inv := report.CacheInvalidator{R: rdb}
	ctx := context.Background()

	if _, err := svc.Generate(ctx); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if err := inv.Notify(ctx, events.Event{Topic: "cart.touched"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, err := svc.Generate(ctx); err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if q.queryCalls != 1 {
		t.Fatalf("unrelated topic must not invalidate, got %d DB calls", q.queryCalls)
	}
}
