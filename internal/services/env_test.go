package services

import (
	"testing"

	"fintrack/internal/events"
	"fintrack/internal/store"
	"fintrack/internal/testutil"
)

const testNow = "2024-03-15T10:00:00Z"

// testEnv wires every tracker over one store set the way the app does.
type testEnv struct {
	set          *store.Set
	bus          *events.Bus
	categories   CategoryServicer
	transactions TransactionServicer
	budgets      BudgetServicer
	goals        SavingsGoalServicer
	analytics    AnalyticsServicer
	dashboard    DashboardServicer
}

func newEnv(t *testing.T, set *store.Set) *testEnv {
	t.Helper()

	clock := testutil.FixedClock(t, testNow)
	env := &testEnv{set: set, bus: events.NewBus()}
	env.categories = NewCategoryService(set.Categories)
	env.budgets = NewBudgetService(set.Budgets, env.categories, clock)
	env.goals = NewSavingsGoalService(set.Goals, clock)
	env.transactions = NewTransactionService(set.Transactions, env.categories, env.bus, clock)
	env.analytics = NewAnalyticsService(env.transactions, env.categories, "USD", clock)
	env.dashboard = NewDashboardService(env.transactions, env.budgets, env.goals, env.categories, clock)
	SubscribeBudgets(env.bus, env.budgets)
	return env
}

func newMemoryEnv(t *testing.T) *testEnv {
	t.Helper()
	return newEnv(t, store.NewMemorySet())
}

func newGormEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return newEnv(t, store.NewGormSet(db))
}

// backends runs fn once per storage adapter.
func backends(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	t.Run("memory", func(t *testing.T) { fn(t, newMemoryEnv(t)) })
	t.Run("gorm", func(t *testing.T) { fn(t, newGormEnv(t)) })
}

func ptr[T any](v T) *T { return &v }
