package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/store"
)

var (
	goalPrimaryPct = decimal.NewFromInt(75)
	goalWarningPct = decimal.NewFromInt(50)
)

// savingsGoalService handles savings goal business logic.
type savingsGoalService struct {
	mu    sync.Mutex
	store store.Store[models.SavingsGoal]
	now   Clock
}

// NewSavingsGoalService creates a new SavingsGoalServicer.
func NewSavingsGoalService(s store.Store[models.SavingsGoal], now Clock) SavingsGoalServicer {
	return &savingsGoalService{store: s, now: clockOrDefault(now)}
}

// ListGoals returns every goal in store order.
func (s *savingsGoalService) ListGoals(ctx context.Context) ([]models.SavingsGoal, error) {
	goals, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, apperrors.Backend(err)
	}
	return goals, nil
}

// GetGoalByID returns a goal by ID.
func (s *savingsGoalService) GetGoalByID(ctx context.Context, goalID uint) (*models.SavingsGoal, error) {
	goal, err := s.store.FetchOne(ctx, goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Backend(err)
	}
	return goal, nil
}

// CreateGoal creates a savings goal. The starting amount is clamped to the
// target.
func (s *savingsGoalService) CreateGoal(ctx context.Context, input GoalInput) (*models.SavingsGoal, error) {
	goal := &models.SavingsGoal{
		Name:          strings.TrimSpace(input.Name),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
	}
	if input.CurrentAmount != nil {
		goal.CurrentAmount = *input.CurrentAmount
	}
	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}
	goal.Deadline = deadline
	if err := validateGoal(goal); err != nil {
		return nil, err
	}
	goal.CurrentAmount = decimal.Min(goal.CurrentAmount, goal.TargetAmount)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	goal.CreatedAt, goal.UpdatedAt = now, now
	if err := s.store.CreateOne(ctx, goal); err != nil {
		return nil, apperrors.Backend(err)
	}
	return goal, nil
}

// UpdateGoal applies the non-nil fields of patch. Lowering the target below
// the saved amount clamps the saved amount.
func (s *savingsGoalService) UpdateGoal(ctx context.Context, goalID uint, patch GoalPatch) (*models.SavingsGoal, error) {
	var deadline *models.Date
	if patch.Deadline != nil {
		d, err := parseDeadline(*patch.Deadline)
		if err != nil {
			return nil, err
		}
		deadline = &d
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	updated, err := s.store.UpdateOne(ctx, goalID, func(g *models.SavingsGoal) error {
		if patch.Name != nil {
			g.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.TargetAmount != nil {
			g.TargetAmount = *patch.TargetAmount
		}
		if deadline != nil {
			g.Deadline = *deadline
		}
		if err := validateGoal(g); err != nil {
			return err
		}
		g.CurrentAmount = decimal.Min(g.CurrentAmount, g.TargetAmount)
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, s.updateError(err)
	}
	return updated, nil
}

// AddFunds adds amount to the goal, never going past the target.
func (s *savingsGoalService) AddFunds(ctx context.Context, goalID uint, amount decimal.Decimal) (*models.SavingsGoal, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, apperrors.Validation("amount", "amount must be greater than zero")
	}
	if !models.IsCents(amount) {
		return nil, apperrors.Validation("amount", "amount must have at most 2 decimal places")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	updated, err := s.store.UpdateOne(ctx, goalID, func(g *models.SavingsGoal) error {
		g.CurrentAmount = decimal.Min(g.TargetAmount, g.CurrentAmount.Add(amount))
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, s.updateError(err)
	}
	return updated, nil
}

// DeleteGoal deletes a goal.
func (s *savingsGoalService) DeleteGoal(ctx context.Context, goalID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.store.DeleteOne(ctx, goalID)
	if err != nil {
		return apperrors.Backend(err)
	}
	if !ok {
		return apperrors.ErrGoalNotFound
	}
	return nil
}

// GetGoalProgress returns the derived progress of a goal.
func (s *savingsGoalService) GetGoalProgress(ctx context.Context, goalID uint) (*GoalProgress, error) {
	goal, err := s.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	progress := s.Progress(*goal)
	return &progress, nil
}

// Progress derives percentage, completion, days left and tier as of today.
func (s *savingsGoalService) Progress(goal models.SavingsGoal) GoalProgress {
	return ComputeGoalProgress(goal, models.DateOf(s.now()))
}

func (s *savingsGoalService) updateError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.ErrGoalNotFound
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Backend(err)
}

// ComputeGoalProgress derives the display figures of goal relative to today.
func ComputeGoalProgress(goal models.SavingsGoal, today models.Date) GoalProgress {
	pct := decimal.Zero
	if goal.TargetAmount.GreaterThan(decimal.Zero) {
		pct = decimal.Min(hundred, goal.CurrentAmount.Div(goal.TargetAmount).Mul(hundred))
	}

	return GoalProgress{
		GoalID:        goal.ID,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount,
		CurrentAmount: goal.CurrentAmount,
		Percentage:    pct.Round(2).InexactFloat64(),
		IsCompleted:   goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount),
		DaysRemaining: today.DaysUntil(goal.Deadline),
		Status:        GoalTier(pct),
	}
}

// GoalTier maps a saved percentage to its status: success at 100, primary
// from 75, warning from 50, danger below.
func GoalTier(pct decimal.Decimal) Tier {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return TierSuccess
	case pct.GreaterThanOrEqual(goalPrimaryPct):
		return TierPrimary
	case pct.GreaterThanOrEqual(goalWarningPct):
		return TierWarning
	default:
		return TierDanger
	}
}

func validateGoal(g *models.SavingsGoal) error {
	if g.Name == "" {
		return apperrors.Validation("name", "goal name is required")
	}
	if !g.TargetAmount.GreaterThan(decimal.Zero) {
		return apperrors.Validation("target_amount", "target amount must be greater than zero")
	}
	if !models.IsCents(g.TargetAmount) {
		return apperrors.Validation("target_amount", "target amount must have at most 2 decimal places")
	}
	if g.CurrentAmount.IsNegative() {
		return apperrors.Validation("current_amount", "current amount must not be negative")
	}
	if !models.IsCents(g.CurrentAmount) {
		return apperrors.Validation("current_amount", "current amount must have at most 2 decimal places")
	}
	return nil
}

func parseDeadline(s string) (models.Date, error) {
	d, err := models.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return models.Date{}, apperrors.Validation("deadline", "deadline must be formatted as %s", models.DateFormat)
	}
	return d, nil
}
