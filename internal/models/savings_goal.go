package models

import "github.com/shopspring/decimal"

// SavingsGoal tracks accumulation toward a target amount by a deadline.
type SavingsGoal struct {
	Base
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"current_amount"`
	Deadline      Date            `gorm:"type:date;not null" json:"deadline"`
}
