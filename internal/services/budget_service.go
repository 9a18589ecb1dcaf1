package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/store"
)

var (
	hundred          = decimal.NewFromInt(100)
	budgetDangerPct  = decimal.NewFromInt(90)
	budgetWarningPct = decimal.NewFromInt(75)
)

// budgetService handles budget-related business logic.
type budgetService struct {
	mu         sync.Mutex
	store      store.Store[models.Budget]
	categories CategoryServicer
	now        Clock
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(s store.Store[models.Budget], categories CategoryServicer, now Clock) BudgetServicer {
	return &budgetService{store: s, categories: categories, now: clockOrDefault(now)}
}

// SubscribeBudgets registers the budget event handlers on bus.
func SubscribeBudgets(bus *events.Bus, budgets BudgetServicer) {
	bus.Subscribe(budgets.OnTransactionCreated, events.TransactionCreated)
	bus.Subscribe(budgets.OnTransactionDeleted, events.TransactionDeleted)
	bus.Subscribe(budgets.OnTransactionUpdated, events.TransactionUpdated)
}

// ListBudgets returns every budget in store order.
func (s *budgetService) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	budgets, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, apperrors.Backend(err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(ctx context.Context, budgetID uint) (*models.Budget, error) {
	budget, err := s.store.FetchOne(ctx, budgetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Backend(err)
	}
	return budget, nil
}

// CreateBudget creates a budget with nothing spent. An empty period means
// monthly.
func (s *budgetService) CreateBudget(
	ctx context.Context,
	category string,
	limit decimal.Decimal,
	period models.BudgetPeriod,
) (*models.Budget, error) {
	category = strings.TrimSpace(category)
	if period == "" {
		period = models.BudgetPeriodMonthly
	}
	if err := s.validate(ctx, category, limit); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkDuplicate(ctx, category, 0); err != nil {
		return nil, err
	}

	now := s.now()
	budget := &models.Budget{
		Category: category,
		Limit:    limit,
		Period:   period,
		Spent:    decimal.Zero,
	}
	budget.CreatedAt, budget.UpdatedAt = now, now
	if err := s.store.CreateOne(ctx, budget); err != nil {
		return nil, apperrors.Backend(err)
	}
	return budget, nil
}

// UpdateBudget applies the non-nil fields of patch. Moving a budget to
// another category starts its spent over at zero.
func (s *budgetService) UpdateBudget(ctx context.Context, budgetID uint, patch BudgetPatch) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	merged := *current
	if patch.Category != nil {
		merged.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Limit != nil {
		merged.Limit = *patch.Limit
	}
	if patch.Period != nil && *patch.Period != "" {
		merged.Period = *patch.Period
	}
	if err := s.validate(ctx, merged.Category, merged.Limit); err != nil {
		return nil, err
	}
	if merged.Category != current.Category {
		if err := s.checkDuplicate(ctx, merged.Category, budgetID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	updated, err := s.store.UpdateOne(ctx, budgetID, func(b *models.Budget) error {
		if b.Category != merged.Category {
			b.Spent = decimal.Zero
		}
		b.Category, b.Limit, b.Period = merged.Category, merged.Limit, merged.Period
		b.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Backend(err)
	}
	return updated, nil
}

// DeleteBudget deletes a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, budgetID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.store.DeleteOne(ctx, budgetID)
	if err != nil {
		return apperrors.Backend(err)
	}
	if !ok {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// GetBudgetProgress calculates spending vs limit for a budget.
func (s *budgetService) GetBudgetProgress(ctx context.Context, budgetID uint) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	progress := ComputeBudgetProgress(*budget)
	return &progress, nil
}

// OnTransactionCreated adds an expense to its category's budget.
func (s *budgetService) OnTransactionCreated(ctx context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, e.Entry, e.Entry.Amount)
}

// OnTransactionDeleted takes an expense back out of its category's budget.
func (s *budgetService) OnTransactionDeleted(ctx context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, e.Entry, e.Entry.Amount.Neg())
}

// OnTransactionUpdated moves spent from the previous entry to the current
// one. When category and type are unchanged only the amount difference is
// applied, so edits that leave the amount alone never touch spent.
func (s *budgetService) OnTransactionUpdated(ctx context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := e.Previous
	if prev != nil && prev.Category == e.Entry.Category && prev.Type == e.Entry.Type {
		delta := e.Entry.Amount.Sub(prev.Amount)
		if delta.IsZero() {
			return nil
		}
		return s.apply(ctx, e.Entry, delta)
	}

	if prev != nil {
		if err := s.apply(ctx, *prev, prev.Amount.Neg()); err != nil {
			return err
		}
	}
	return s.apply(ctx, e.Entry, e.Entry.Amount)
}

// apply moves spent of the budget for entry's category by delta. Income
// entries and categories without a budget are ignored. Spent never drops
// below zero.
func (s *budgetService) apply(ctx context.Context, entry events.Entry, delta decimal.Decimal) error {
	if entry.Type != models.TransactionTypeExpense {
		return nil
	}

	budgets, err := s.store.FetchAll(ctx)
	if err != nil {
		return apperrors.Backend(err)
	}
	idx := -1
	for i := range budgets {
		if budgets[i].Category == entry.Category {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	now := s.now()
	updated, err := s.store.UpdateOne(ctx, budgets[idx].ID, func(b *models.Budget) error {
		b.Spent = decimal.Max(decimal.Zero, b.Spent.Add(delta))
		b.UpdatedAt = now
		return nil
	})
	if err != nil {
		return apperrors.Backend(err)
	}

	logger.Get().Debugw("budget spent adjusted",
		"budget_id", updated.ID,
		"category", updated.Category,
		"delta", delta.String(),
		"spent", updated.Spent.String(),
	)
	return nil
}

func (s *budgetService) validate(ctx context.Context, category string, limit decimal.Decimal) error {
	if !limit.GreaterThan(decimal.Zero) {
		return apperrors.Validation("limit", "limit must be greater than zero")
	}
	if !models.IsCents(limit) {
		return apperrors.Validation("limit", "limit must have at most 2 decimal places")
	}
	if category == "" {
		return apperrors.Validation("category", "category is required")
	}
	_, err := s.categories.FindCategory(ctx, category, models.CategoryTypeExpense)
	if errors.Is(err, apperrors.ErrCategoryNotFound) {
		return apperrors.Validation("category", "%q is not a known expense category", category)
	}
	return err
}

func (s *budgetService) checkDuplicate(ctx context.Context, category string, exceptID uint) error {
	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		return err
	}
	for _, b := range budgets {
		if b.ID != exceptID && b.Category == category {
			return apperrors.ErrDuplicateBudget
		}
	}
	return nil
}

// ComputeBudgetProgress derives the display figures of a budget.
func ComputeBudgetProgress(b models.Budget) BudgetProgress {
	pct := decimal.Zero
	if b.Limit.GreaterThan(decimal.Zero) {
		pct = b.Spent.Div(b.Limit).Mul(hundred)
	}

	return BudgetProgress{
		BudgetID:   b.ID,
		Category:   b.Category,
		Limit:      b.Limit,
		Spent:      b.Spent,
		Remaining:  decimal.Max(decimal.Zero, b.Limit.Sub(b.Spent)),
		Percentage: pct.Round(2).InexactFloat64(),
		OverBudget: b.Spent.GreaterThan(b.Limit),
		Status:     BudgetTier(pct),
	}
}

// BudgetTier maps a spent percentage to its status: danger from 90,
// warning from 75, success below.
func BudgetTier(pct decimal.Decimal) Tier {
	switch {
	case pct.GreaterThanOrEqual(budgetDangerPct):
		return TierDanger
	case pct.GreaterThanOrEqual(budgetWarningPct):
		return TierWarning
	default:
		return TierSuccess
	}
}
