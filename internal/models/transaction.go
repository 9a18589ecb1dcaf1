package models

import "github.com/shopspring/decimal"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the supported transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single income or expense entry in the ledger.
type Transaction struct {
	Base
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Type        TransactionType `gorm:"not null;index" json:"type"`
	Category    string          `gorm:"not null;index" json:"category"`
	Description string          `gorm:"not null" json:"description"`
	Date        Date            `gorm:"type:date;not null;index" json:"date"`
}
