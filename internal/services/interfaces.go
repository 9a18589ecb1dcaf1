package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/events"
	"fintrack/internal/models"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func clockOrDefault(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}

// Tier is the display status derived from a budget or goal percentage.
type Tier string

const (
	TierSuccess Tier = "success"
	TierPrimary Tier = "primary"
	TierWarning Tier = "warning"
	TierDanger  Tier = "danger"
)

// CategoryPatch holds optional category fields to change.
type CategoryPatch struct {
	Name  *string
	Type  *models.CategoryType
	Icon  *string
	Color *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListCategoriesByType(ctx context.Context, categoryType models.CategoryType) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, categoryID uint) (*models.Category, error)
	// GetCategoryByName never fails; unknown names yield a placeholder.
	GetCategoryByName(ctx context.Context, name string) models.Category
	// FindCategory is the strict lookup used to validate references.
	FindCategory(ctx context.Context, name string, categoryType models.CategoryType) (*models.Category, error)
	CreateCategory(ctx context.Context, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID uint, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *models.Date
	ToDate   *models.Date
	Type     *models.TransactionType
	Category *string
}

// TransactionInput is the data needed to record a transaction. Date is a
// YYYY-MM-DD string and is validated by the ledger.
type TransactionInput struct {
	Amount      decimal.Decimal
	Type        models.TransactionType
	Category    string
	Description string
	Date        string
}

// TransactionPatch holds optional transaction fields to change.
type TransactionPatch struct {
	Amount      *decimal.Decimal
	Type        *models.TransactionType
	Category    *string
	Description *string
	Date        *string
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	GetTransactionByID(ctx context.Context, transactionID uint) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, input TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID uint, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID uint) error
}

// BudgetProgress contains spending vs budget data for a budget.
type BudgetProgress struct {
	BudgetID   uint            `json:"budget_id"`
	Category   string          `json:"category"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	OverBudget bool            `json:"over_budget"`
	Status     Tier            `json:"status"`
}

// BudgetPatch holds optional budget fields to change. Spent is derived and
// cannot be patched.
type BudgetPatch struct {
	Category *string
	Limit    *decimal.Decimal
	Period   *models.BudgetPeriod
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	ListBudgets(ctx context.Context) ([]models.Budget, error)
	GetBudgetByID(ctx context.Context, budgetID uint) (*models.Budget, error)
	CreateBudget(ctx context.Context, category string, limit decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error)
	UpdateBudget(ctx context.Context, budgetID uint, patch BudgetPatch) (*models.Budget, error)
	DeleteBudget(ctx context.Context, budgetID uint) error
	GetBudgetProgress(ctx context.Context, budgetID uint) (*BudgetProgress, error)

	OnTransactionCreated(ctx context.Context, e events.Event) error
	OnTransactionDeleted(ctx context.Context, e events.Event) error
	OnTransactionUpdated(ctx context.Context, e events.Event) error
}

// GoalInput is the data needed to create a savings goal. A nil CurrentAmount
// means zero.
type GoalInput struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      string
}

// GoalPatch holds optional goal fields to change. CurrentAmount only moves
// through AddFunds.
type GoalPatch struct {
	Name         *string
	TargetAmount *decimal.Decimal
	Deadline     *string
}

// GoalProgress contains the derived progress figures of a savings goal.
type GoalProgress struct {
	GoalID        uint            `json:"goal_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Percentage    float64         `json:"percentage"`
	IsCompleted   bool            `json:"is_completed"`
	DaysRemaining int             `json:"days_remaining"`
	Status        Tier            `json:"status"`
}

// SavingsGoalServicer defines the contract for savings goal business logic.
type SavingsGoalServicer interface {
	ListGoals(ctx context.Context) ([]models.SavingsGoal, error)
	GetGoalByID(ctx context.Context, goalID uint) (*models.SavingsGoal, error)
	CreateGoal(ctx context.Context, input GoalInput) (*models.SavingsGoal, error)
	UpdateGoal(ctx context.Context, goalID uint, patch GoalPatch) (*models.SavingsGoal, error)
	AddFunds(ctx context.Context, goalID uint, amount decimal.Decimal) (*models.SavingsGoal, error)
	DeleteGoal(ctx context.Context, goalID uint) error
	GetGoalProgress(ctx context.Context, goalID uint) (*GoalProgress, error)
	Progress(goal models.SavingsGoal) GoalProgress
}

// BreakdownReport is the category breakdown of expenses for a time range.
type BreakdownReport struct {
	Range          analytics.Range           `json:"range"`
	From           models.Date               `json:"from"`
	To             models.Date               `json:"to"`
	Total          decimal.Decimal           `json:"total"`
	FormattedTotal string                    `json:"formatted_total"`
	Categories     []analytics.CategoryTotal `json:"categories"`
}

// SeriesReport is the daily expense series for a time range.
type SeriesReport struct {
	Range  analytics.Range  `json:"range"`
	From   models.Date      `json:"from"`
	To     models.Date      `json:"to"`
	Series analytics.Series `json:"series"`
}

// AnalyticsServicer produces chart datasets from the current ledger snapshot.
type AnalyticsServicer interface {
	CategoryBreakdown(ctx context.Context, r analytics.Range) (*BreakdownReport, error)
	DailySeries(ctx context.Context, r analytics.Range) (*SeriesReport, error)
}

// Dashboard is the landing-page overview.
type Dashboard struct {
	Month      analytics.MonthSummary `json:"month"`
	Recent     []models.Transaction   `json:"recent_transactions"`
	Budgets    []BudgetProgress       `json:"budgets"`
	Goals      []GoalProgress         `json:"goals"`
	Categories []models.Category      `json:"categories"`
}

// DashboardServicer assembles the dashboard from every tracker.
type DashboardServicer interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType string, resourceID uint, ipAddress string, changes map[string]any)
}
