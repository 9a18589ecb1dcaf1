package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/store"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// FixedClock returns a clock frozen at the given RFC 3339 instant.
func FixedClock(t *testing.T, rfc3339 string) func() time.Time {
	t.Helper()

	now, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		t.Fatalf("invalid clock value %q: %v", rfc3339, err)
	}
	return func() time.Time { return now }
}

// TickingClock returns a clock that advances one second per call.
func TickingClock(start time.Time) func() time.Time {
	var n atomic.Int64
	return func() time.Time {
		return start.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

// CreateTestCategory stores a category of the given type with a unique name.
func CreateTestCategory(t *testing.T, s store.Store[models.Category], categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, s, fmt.Sprintf("Test Category %d", nextID()), categoryType)
}

// CreateTestCategoryNamed stores a category with the given name and type.
func CreateTestCategoryNamed(t *testing.T, s store.Store[models.Category], name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:  name,
		Type:  categoryType,
		Icon:  "Tag",
		Color: "#10B981",
	}
	if err := s.CreateOne(context.Background(), category); err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction stores a transaction directly, bypassing the ledger
// and therefore without publishing events.
func CreateTestTransaction(t *testing.T, s store.Store[models.Transaction], category string, txType models.TransactionType, amount string, date string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
		Category:    category,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        models.MustParseDate(date),
	}
	if err := s.CreateOne(context.Background(), tx); err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget stores a monthly budget with the given limit.
func CreateTestBudget(t *testing.T, s store.Store[models.Budget], category string, limit string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Category: category,
		Limit:    decimal.RequireFromString(limit),
		Period:   models.BudgetPeriodMonthly,
		Spent:    decimal.Zero,
	}
	if err := s.CreateOne(context.Background(), budget); err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal stores a savings goal.
func CreateTestGoal(t *testing.T, s store.Store[models.SavingsGoal], target, current, deadline string) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  decimal.RequireFromString(target),
		CurrentAmount: decimal.RequireFromString(current),
		Deadline:      models.MustParseDate(deadline),
	}
	if err := s.CreateOne(context.Background(), goal); err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// ErrBackendDown is returned by every FailingStore method.
var ErrBackendDown = errors.New("backend unavailable")

// FailingStore is a store whose every operation fails, used to check that
// storage failures surface as BACKEND_ERROR.
type FailingStore[T any] struct {
	kind store.Kind
}

// NewFailingStore creates a FailingStore for kind.
func NewFailingStore[T any](kind store.Kind) *FailingStore[T] {
	return &FailingStore[T]{kind: kind}
}

func (s *FailingStore[T]) Kind() store.Kind { return s.kind }

func (s *FailingStore[T]) FetchAll(context.Context) ([]T, error) { return nil, ErrBackendDown }

func (s *FailingStore[T]) FetchOne(context.Context, uint) (*T, error) { return nil, ErrBackendDown }

func (s *FailingStore[T]) CreateOne(context.Context, *T) error { return ErrBackendDown }

func (s *FailingStore[T]) UpdateOne(context.Context, uint, func(*T) error) (*T, error) {
	return nil, ErrBackendDown
}

func (s *FailingStore[T]) DeleteOne(context.Context, uint) (bool, error) { return false, ErrBackendDown }
