package services

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/store"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	mu         sync.Mutex
	store      store.Store[models.Transaction]
	categories CategoryServicer
	publisher  events.Publisher
	now        Clock
}

// NewTransactionService creates a new TransactionServicer. Every persisted
// change is announced on publisher.
func NewTransactionService(
	s store.Store[models.Transaction],
	categories CategoryServicer,
	publisher events.Publisher,
	now Clock,
) TransactionServicer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &transactionService{
		store:      s,
		categories: categories,
		publisher:  publisher,
		now:        clockOrDefault(now),
	}
}

// ListTransactions returns a snapshot ordered newest first.
func (s *transactionService) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperrors.Validation("type", "type must be expense or income")
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return nil, apperrors.Validation("from", "from date must not be after to date")
	}

	all, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	txs := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if filter.matches(tx) {
			txs = append(txs, tx)
		}
	}
	SortTransactions(txs)
	return txs, nil
}

func (f TransactionFilter) matches(tx models.Transaction) bool {
	if f.FromDate != nil && tx.Date.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && tx.Date.After(*f.ToDate) {
		return false
	}
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}
	if f.Category != nil && tx.Category != *f.Category {
		return false
	}
	return true
}

// SortTransactions orders txs by date, then creation time, then id, all
// descending.
func SortTransactions(txs []models.Transaction) {
	slices.SortFunc(txs, func(a, b models.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	tx, err := s.store.FetchOne(ctx, transactionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Backend(err)
	}
	return tx, nil
}

// CreateTransaction validates and records a transaction, then publishes
// TransactionCreated.
func (s *transactionService) CreateTransaction(ctx context.Context, input TransactionInput) (*models.Transaction, error) {
	tx := &models.Transaction{
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
	}
	date, err := parseTransactionDate(input.Date)
	if err != nil {
		return nil, err
	}
	tx.Date = date
	if err := s.validate(ctx, tx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	tx.CreatedAt, tx.UpdatedAt = now, now
	if err := s.store.CreateOne(ctx, tx); err != nil {
		return nil, apperrors.Backend(err)
	}

	if err := s.publish(ctx, events.Event{
		Name:          events.TransactionCreated,
		TransactionID: tx.ID,
		Entry:         events.EntryOf(*tx),
		OccurredAt:    now,
	}); err != nil {
		return nil, err
	}
	return tx, nil
}

// UpdateTransaction merges patch into the stored transaction, re-validates
// the result and publishes TransactionUpdated with the previous entry.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID uint, patch TransactionPatch) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	merged := *current
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if patch.Type != nil {
		merged.Type = *patch.Type
	}
	if patch.Category != nil {
		merged.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		merged.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Date != nil {
		date, err := parseTransactionDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		merged.Date = date
	}
	if err := s.validate(ctx, &merged); err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.store.UpdateOne(ctx, transactionID, func(tx *models.Transaction) error {
		tx.Amount = merged.Amount
		tx.Type = merged.Type
		tx.Category = merged.Category
		tx.Description = merged.Description
		tx.Date = merged.Date
		tx.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Backend(err)
	}

	previous := events.EntryOf(*current)
	if err := s.publish(ctx, events.Event{
		Name:          events.TransactionUpdated,
		TransactionID: updated.ID,
		Entry:         events.EntryOf(*updated),
		Previous:      &previous,
		OccurredAt:    now,
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes a transaction and publishes TransactionDeleted.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}

	ok, err := s.store.DeleteOne(ctx, transactionID)
	if err != nil {
		return apperrors.Backend(err)
	}
	if !ok {
		return apperrors.ErrTransactionNotFound
	}

	return s.publish(ctx, events.Event{
		Name:          events.TransactionDeleted,
		TransactionID: transactionID,
		Entry:         events.EntryOf(*current),
		OccurredAt:    s.now(),
	})
}

// publish reports subscriber failures as ErrDependentUpdate. The
// transaction change itself is already persisted at this point.
func (s *transactionService) publish(ctx context.Context, e events.Event) error {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Get().Errorw("transaction subscriber failed",
			"event", e.Name,
			"transaction_id", e.TransactionID,
			"error", err,
		)
		return apperrors.Wrap(apperrors.ErrDependentUpdate, err)
	}
	return nil
}

func (s *transactionService) validate(ctx context.Context, tx *models.Transaction) error {
	if !tx.Amount.GreaterThan(decimal.Zero) {
		return apperrors.Validation("amount", "amount must be greater than zero")
	}
	if !models.IsCents(tx.Amount) {
		return apperrors.Validation("amount", "amount must have at most 2 decimal places")
	}
	if !tx.Type.Valid() {
		return apperrors.Validation("type", "type must be expense or income")
	}
	if tx.Description == "" {
		return apperrors.Validation("description", "description is required")
	}
	if tx.Category == "" {
		return apperrors.Validation("category", "category is required")
	}

	_, err := s.categories.FindCategory(ctx, tx.Category, models.CategoryType(tx.Type))
	if errors.Is(err, apperrors.ErrCategoryNotFound) {
		return apperrors.Validation("category", "%q is not a known %s category", tx.Category, tx.Type)
	}
	return err
}

func parseTransactionDate(s string) (models.Date, error) {
	if strings.TrimSpace(s) == "" {
		return models.Date{}, apperrors.Validation("date", "date is required")
	}
	date, err := models.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return models.Date{}, apperrors.Validation("date", "date must be formatted as %s", models.DateFormat)
	}
	return date, nil
}
