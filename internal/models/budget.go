package models

import "github.com/shopspring/decimal"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

// BudgetPeriodMonthly is the only period with defined semantics. Other values
// are stored verbatim; nothing resets spent on a schedule.
const BudgetPeriodMonthly BudgetPeriod = "monthly"

// Budget caps spending for one expense category. Spent is a cached
// aggregate maintained from ledger events.
type Budget struct {
	Base
	Category string          `gorm:"not null;index" json:"category"`
	Limit    decimal.Decimal `gorm:"column:limit_amount;type:numeric(14,2);not null" json:"limit"`
	Period   BudgetPeriod    `gorm:"not null" json:"period"`
	Spent    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"spent"`
}
