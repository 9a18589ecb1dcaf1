package store

import (
	"gorm.io/gorm"

	"fintrack/internal/models"
)

// Set bundles one store per entity kind.
type Set struct {
	Categories   Store[models.Category]
	Transactions Store[models.Transaction]
	Budgets      Store[models.Budget]
	Goals        Store[models.SavingsGoal]
	AuditLogs    Store[models.AuditLog]
}

// NewMemorySet returns a Set backed entirely by in-memory stores.
func NewMemorySet() *Set {
	return &Set{
		Categories:   NewMemoryStore[models.Category](KindCategory),
		Transactions: NewMemoryStore[models.Transaction](KindTransaction),
		Budgets:      NewMemoryStore[models.Budget](KindBudget),
		Goals:        NewMemoryStore[models.SavingsGoal](KindSavingsGoal),
		AuditLogs:    NewMemoryStore[models.AuditLog](KindAuditLog),
	}
}

// NewGormSet returns a Set backed by db.
func NewGormSet(db *gorm.DB) *Set {
	return &Set{
		Categories:   NewGormStore[models.Category](db, KindCategory),
		Transactions: NewGormStore[models.Transaction](db, KindTransaction),
		Budgets:      NewGormStore[models.Budget](db, KindBudget),
		Goals:        NewGormStore[models.SavingsGoal](db, KindSavingsGoal),
		AuditLogs:    NewGormStore[models.AuditLog](db, KindAuditLog),
	}
}

// Models lists every persisted model, in dependency order, for AutoMigrate.
func Models() []any {
	return []any{
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.SavingsGoal{},
		&models.AuditLog{},
	}
}
