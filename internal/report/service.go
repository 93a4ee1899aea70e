package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/repo"
)

const cacheKey = "report:current"

// Querier defines the ledger aggregation queries the report depends on.
type Querier interface {
	SummaryByDrink(ctx context.Context) ([]repo.DrinkSummary, error)
	SaleTotals(ctx context.Context) (repo.SaleTotals, error)
}

// Report is the aggregated view of the sales ledger grouped by drink.
// Values are unrounded; rounding happens at presentation time only.
type Report struct {
	Rows          []repo.DrinkSummary `json:"rows"`
	TotalQuantity int64               `json:"totalQuantity"`
	TotalRevenue  float64             `json:"totalRevenue"`
}

// Service produces sales reports with short-lived Redis caching.
type Service struct {
	Q   Querier
	R   *redis.Client
	TTL time.Duration
}

// Generate aggregates the ledger into per-drink rows plus grand totals.
// An empty ledger yields zero rows and zero totals.
func (s *Service) Generate(ctx context.Context) (Report, error) {
	if s == nil || s.Q == nil {
		return Report{}, errors.New("report service not configured")
	}
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}
	rows, err := s.Q.SummaryByDrink(ctx)
	if err != nil {
		return Report{}, common.StorageError(err)
	}
	totals, err := s.Q.SaleTotals(ctx)
	if err != nil {
		return Report{}, common.StorageError(err)
	}
	if rows == nil {
		rows = []repo.DrinkSummary{}
	}
	rep := Report{Rows: rows, TotalQuantity: totals.Quantity, TotalRevenue: totals.Revenue}
	s.store(ctx, rep)
	return rep, nil
}

func (s *Service) fromCache(ctx context.Context) (Report, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Report{}, false
	}
	data, err := s.R.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return Report{}, false
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return Report{}, false
	}
	return rep, true
}

func (s *Service) store(ctx context.Context, rep Report) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, cacheKey, data, s.TTL).Err()
}
