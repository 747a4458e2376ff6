// Package reports computes monthly financial summaries. Totals come from
// Postgres aggregates; a short-lived Redis cache fronts them because the
// dashboard polls the current month on every load.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ogoue/ogoue/internal/domain"
	redisstore "github.com/ogoue/ogoue/internal/store/redis"
)

// DefaultTTL bounds staleness for cached summaries that miss an
// invalidation, e.g. when Redis was down during a delete.
const DefaultTTL = 5 * time.Minute

// Summary is one organization's totals for a calendar month. Amounts are in
// minor currency units.
type Summary struct {
	Month         int   `json:"month"`
	Year          int   `json:"year"`
	SalesTotal    int64 `json:"salesTotal"`
	SalesCount    int   `json:"salesCount"`
	ExpensesTotal int64 `json:"expensesTotal"`
	ExpensesCount int   `json:"expensesCount"`
	Net           int64 `json:"net"`
}

// Cache is the summary cache seam, satisfied by the Redis store. All cache
// failures degrade to recomputation, never to a request error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SaleTotals is the slice of domain.SaleRepository the reports need.
type SaleTotals interface {
	MonthlyTotal(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error)
}

// ExpenseTotals is the slice of domain.ExpenseRepository the reports need.
type ExpenseTotals interface {
	MonthlyTotal(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error)
}

type Service struct {
	sales    SaleTotals
	expenses ExpenseTotals
	cache    Cache // nil disables caching
	ttl      time.Duration
}

func NewService(sales SaleTotals, expenses ExpenseTotals, cache Cache) *Service {
	return &Service{sales: sales, expenses: expenses, cache: cache, ttl: DefaultTTL}
}

// Monthly returns the summary for one calendar month, reading through the
// cache when one is configured.
func (s *Service) Monthly(ctx context.Context, organizationID uuid.UUID, month, year int) (*Summary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("reports.Monthly: month %d out of range: %w", month, domain.ErrInvalidInput)
	}

	key := redisstore.ReportKey(organizationID, month, year)

	if s.cache != nil {
		payload, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("reports: cache read failed, recomputing")
		} else if payload != nil {
			var cached Summary
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
			log.Debug().Str("key", key).Msg("reports: discarding unreadable cache payload")
		}
	}

	salesTotal, salesCount, err := s.sales.MonthlyTotal(ctx, organizationID, month, year)
	if err != nil {
		return nil, fmt.Errorf("reports.Monthly: sales: %w", err)
	}

	expensesTotal, expensesCount, err := s.expenses.MonthlyTotal(ctx, organizationID, month, year)
	if err != nil {
		return nil, fmt.Errorf("reports.Monthly: expenses: %w", err)
	}

	summary := &Summary{
		Month:         month,
		Year:          year,
		SalesTotal:    salesTotal,
		SalesCount:    salesCount,
		ExpensesTotal: expensesTotal,
		ExpensesCount: expensesCount,
		Net:           salesTotal - expensesTotal,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("reports: cache write failed")
			}
		}
	}

	return summary, nil
}

// InvalidateMonthly drops the cached summary for one month. Called after any
// create or delete that touches that month's totals.
func (s *Service) InvalidateMonthly(ctx context.Context, organizationID uuid.UUID, month, year int) {
	if s.cache == nil {
		return
	}
	key := redisstore.ReportKey(organizationID, month, year)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("reports: cache invalidation failed")
	}
}
