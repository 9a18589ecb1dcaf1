// Package app builds the object graph shared by the API server and the CLI:
// stores for the configured driver, the trackers and the event bus that
// connects the ledger to budgets.
package app

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/seed"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// App owns every long-lived component. Close releases the database and
// broker connections.
type App struct {
	Config *config.Config
	Stores *store.Set
	Bus    *events.Bus

	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
	Goals        services.SavingsGoalServicer
	Analytics    services.AnalyticsServicer
	Dashboard    services.DashboardServicer
	Audit        services.AuditServicer

	db     *database.Manager
	mirror *events.Mirror
}

// Option customises New.
type Option func(*options)

type options struct {
	now services.Clock
}

// WithClock pins the clock used by every tracker.
func WithClock(now services.Clock) Option {
	return func(o *options) { o.now = now }
}

// New opens storage for cfg.StorageDriver, wires the trackers and, when
// configured, seeds default categories and connects the AMQP mirror.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		a.Stores = store.NewMemorySet()
	default:
		db, err := database.NewManager(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		a.db = db
		a.Stores = store.NewGormSet(db.DB())
	}

	a.wire(o.now)

	if cfg.AMQPURL != "" {
		mirror, err := events.DialMirror(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to connect event mirror: %w", err)
		}
		a.mirror = mirror
		a.Bus.Subscribe(mirror.Handle, events.TransactionCreated, events.TransactionUpdated, events.TransactionDeleted)
	}

	if cfg.SeedCategories {
		if _, err := seed.Apply(ctx, a.Categories, seed.Defaults()); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	logger.Get().Infow("application ready",
		"storage", cfg.StorageDriver,
		"currency", cfg.Currency,
		"event_mirror", a.mirror != nil,
	)
	return a, nil
}

// NewWithStores wires the trackers over an existing store set. No seeding
// or broker connection happens.
func NewWithStores(cfg *config.Config, stores *store.Set, opts ...Option) *App {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	a := &App{Config: cfg, Stores: stores}
	a.wire(o.now)
	return a
}

func (a *App) wire(now services.Clock) {
	a.Bus = events.NewBus()
	a.Categories = services.NewCategoryService(a.Stores.Categories)
	a.Budgets = services.NewBudgetService(a.Stores.Budgets, a.Categories, now)
	a.Goals = services.NewSavingsGoalService(a.Stores.Goals, now)
	a.Transactions = services.NewTransactionService(a.Stores.Transactions, a.Categories, a.Bus, now)
	a.Analytics = services.NewAnalyticsService(a.Transactions, a.Categories, a.Config.Currency, now)
	a.Dashboard = services.NewDashboardService(a.Transactions, a.Budgets, a.Goals, a.Categories, now)
	a.Audit = services.NewAuditService(a.Stores.AuditLogs)

	// Budgets subscribe first so the mirror only sees events after spent
	// has been adjusted.
	services.SubscribeBudgets(a.Bus, a.Budgets)
}

// Close releases external connections. It is safe to call on a partially
// built App.
func (a *App) Close() error {
	var errs []error
	if a.mirror != nil {
		errs = append(errs, a.mirror.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
