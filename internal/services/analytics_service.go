package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

// analyticsService builds chart datasets from ledger snapshots.
type analyticsService struct {
	transactions TransactionServicer
	categories   CategoryServicer
	format       money.Formatter
	now          Clock
}

// NewAnalyticsService creates a new AnalyticsServicer. currency is only used
// to format totals for display.
func NewAnalyticsService(transactions TransactionServicer, categories CategoryServicer, currency string, now Clock) AnalyticsServicer {
	return &analyticsService{
		transactions: transactions,
		categories:   categories,
		format:       money.Formatter{Currency: currency},
		now:          clockOrDefault(now),
	}
}

// CategoryBreakdown totals expenses per category over r.
func (s *analyticsService) CategoryBreakdown(ctx context.Context, r analytics.Range) (*BreakdownReport, error) {
	now := s.now()

	var (
		txs        []models.Transaction
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListTransactions(gctx, TransactionFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	breakdown := analytics.CategoryBreakdown(analytics.FilterByRange(txs, r, now), categories)
	total := analytics.Total(breakdown)
	from, to := r.Window(now)

	return &BreakdownReport{
		Range:          r,
		From:           from,
		To:             to,
		Total:          total,
		FormattedTotal: s.format.Format(total),
		Categories:     breakdown,
	}, nil
}

// DailySeries totals expenses per day over r.
func (s *analyticsService) DailySeries(ctx context.Context, r analytics.Range) (*SeriesReport, error) {
	now := s.now()

	txs, err := s.transactions.ListTransactions(ctx, TransactionFilter{})
	if err != nil {
		return nil, err
	}

	from, to := r.Window(now)
	return &SeriesReport{
		Range:  r,
		From:   from,
		To:     to,
		Series: analytics.DailySeries(analytics.FilterByRange(txs, r, now)),
	}, nil
}
