// Package events carries ledger domain events from the transaction ledger to
// its subscribers.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Name identifies an event type.
type Name string

const (
	TransactionCreated Name = "transaction.created"
	TransactionUpdated Name = "transaction.updated"
	TransactionDeleted Name = "transaction.deleted"
)

// Entry is the part of a transaction subscribers aggregate on.
type Entry struct {
	Category string                 `json:"category"`
	Type     models.TransactionType `json:"type"`
	Amount   decimal.Decimal        `json:"amount"`
}

// EntryOf extracts the aggregate-relevant fields of tx.
func EntryOf(tx models.Transaction) Entry {
	return Entry{Category: tx.Category, Type: tx.Type, Amount: tx.Amount}
}

// Event is a fact the ledger has already persisted. Previous is only set for
// TransactionUpdated and holds the entry as it was before the update.
type Event struct {
	Name          Name      `json:"name"`
	TransactionID uint      `json:"transaction_id"`
	Entry         Entry     `json:"entry"`
	Previous      *Entry    `json:"previous,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Handler reacts to an event. A returned error is reported back to the publisher.
type Handler func(ctx context.Context, e Event) error

// Publisher is what the ledger depends on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Bus dispatches events synchronously to subscribers in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]Handler)}
}

// Subscribe registers h for every name given.
func (b *Bus) Subscribe(h Handler, names ...Name) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		b.handlers[n] = append(b.handlers[n], h)
	}
}

// Publish runs every handler for e.Name. All handlers run even if one fails;
// their errors are joined.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[e.Name]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events. Useful for running the ledger on its own.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
