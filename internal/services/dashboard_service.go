package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
)

// RecentTransactionCount is how many transactions the dashboard lists.
const RecentTransactionCount = 5

// dashboardService assembles the dashboard overview.
type dashboardService struct {
	transactions TransactionServicer
	budgets      BudgetServicer
	goals        SavingsGoalServicer
	categories   CategoryServicer
	now          Clock
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(
	transactions TransactionServicer,
	budgets BudgetServicer,
	goals SavingsGoalServicer,
	categories CategoryServicer,
	now Clock,
) DashboardServicer {
	return &dashboardService{
		transactions: transactions,
		budgets:      budgets,
		goals:        goals,
		categories:   categories,
		now:          clockOrDefault(now),
	}
}

// GetDashboard loads every collection concurrently and derives the month
// summary, recent transactions and progress lists.
func (s *dashboardService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	var (
		txs        []models.Transaction
		budgets    []models.Budget
		goals      []models.SavingsGoal
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = s.transactions.ListTransactions(gctx, TransactionFilter{})
		return err
	})
	g.Go(func() (err error) {
		budgets, err = s.budgets.ListBudgets(gctx)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.goals.ListGoals(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.categories.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		Month:      analytics.MonthlySummary(txs, s.now()),
		Recent:     analytics.Recent(txs, RecentTransactionCount),
		Budgets:    make([]BudgetProgress, 0, len(budgets)),
		Goals:      make([]GoalProgress, 0, len(goals)),
		Categories: categories,
	}
	if d.Categories == nil {
		d.Categories = []models.Category{}
	}
	for _, b := range budgets {
		d.Budgets = append(d.Budgets, ComputeBudgetProgress(b))
	}
	for _, goal := range goals {
		d.Goals = append(d.Goals, s.goals.Progress(goal))
	}
	return d, nil
}
