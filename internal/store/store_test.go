package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/store"
	"fintrack/internal/testutil"
)

// runStoreSuite exercises the port contract against any adapter.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) store.Store[models.Transaction]) {
	ctx := context.Background()

	newTx := func(desc string) *models.Transaction {
		return &models.Transaction{
			Amount:      decimal.NewFromInt(10),
			Type:        models.TransactionTypeExpense,
			Category:    "Groceries",
			Description: desc,
			Date:        models.MustParseDate("2024-03-01"),
		}
	}

	t.Run("create_assigns_increasing_ids", func(t *testing.T) {
		s := newStore(t)
		a, b := newTx("a"), newTx("b")
		testutil.AssertNoError(t, s.CreateOne(ctx, a))
		testutil.AssertNoError(t, s.CreateOne(ctx, b))
		if a.ID == 0 || b.ID <= a.ID {
			t.Fatalf("expected increasing ids, got %d then %d", a.ID, b.ID)
		}
	})

	t.Run("fetch_one_round_trips_fields", func(t *testing.T) {
		s := newStore(t)
		rec := newTx("coffee")
		rec.Amount = decimal.RequireFromString("12.34")
		testutil.AssertNoError(t, s.CreateOne(ctx, rec))

		got, err := s.FetchOne(ctx, rec.ID)
		testutil.AssertNoError(t, err)
		if got.Description != "coffee" {
			t.Errorf("expected description coffee, got %q", got.Description)
		}
		if !got.Amount.Equal(decimal.RequireFromString("12.34")) {
			t.Errorf("expected amount 12.34, got %s", got.Amount)
		}
		if got.Date != models.MustParseDate("2024-03-01") {
			t.Errorf("expected date 2024-03-01, got %s", got.Date)
		}
	})

	t.Run("fetch_one_missing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.FetchOne(ctx, 999); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("fetch_all_returns_copies", func(t *testing.T) {
		s := newStore(t)
		testutil.AssertNoError(t, s.CreateOne(ctx, newTx("a")))

		all, err := s.FetchAll(ctx)
		testutil.AssertNoError(t, err)
		all[0].Description = "mutated"

		again, err := s.FetchAll(ctx)
		testutil.AssertNoError(t, err)
		if again[0].Description != "a" {
			t.Errorf("store state changed through a returned snapshot: %q", again[0].Description)
		}
	})

	t.Run("update_applies_fn", func(t *testing.T) {
		s := newStore(t)
		rec := newTx("a")
		testutil.AssertNoError(t, s.CreateOne(ctx, rec))

		got, err := s.UpdateOne(ctx, rec.ID, func(tx *models.Transaction) error {
			tx.Description = "b"
			return nil
		})
		testutil.AssertNoError(t, err)
		if got.Description != "b" || got.ID != rec.ID {
			t.Errorf("unexpected update result: %+v", got)
		}
	})

	t.Run("update_fn_error_aborts", func(t *testing.T) {
		s := newStore(t)
		rec := newTx("a")
		testutil.AssertNoError(t, s.CreateOne(ctx, rec))
		boom := errors.New("boom")

		_, err := s.UpdateOne(ctx, rec.ID, func(tx *models.Transaction) error {
			tx.Description = "changed"
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected fn error, got %v", err)
		}
		got, _ := s.FetchOne(ctx, rec.ID)
		if got.Description != "a" {
			t.Errorf("aborted update was persisted: %q", got.Description)
		}
	})

	t.Run("update_missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpdateOne(ctx, 42, func(*models.Transaction) error { return nil })
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		rec := newTx("a")
		testutil.AssertNoError(t, s.CreateOne(ctx, rec))

		ok, err := s.DeleteOne(ctx, rec.ID)
		testutil.AssertNoError(t, err)
		if !ok {
			t.Fatal("expected delete to report true")
		}
		ok, err = s.DeleteOne(ctx, rec.ID)
		testutil.AssertNoError(t, err)
		if ok {
			t.Fatal("expected second delete to report false")
		}
		all, _ := s.FetchAll(ctx)
		if len(all) != 0 {
			t.Errorf("expected empty store, got %d rows", len(all))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) store.Store[models.Transaction] {
		return store.NewMemoryStore[models.Transaction](store.KindTransaction)
	})
}

func TestGormStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) store.Store[models.Transaction] {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
		return store.NewGormStore[models.Transaction](db, store.KindTransaction)
	})
}

func TestStoreKinds(t *testing.T) {
	set := store.NewMemorySet()
	if set.Categories.Kind() != store.KindCategory || set.Goals.Kind() != store.KindSavingsGoal {
		t.Errorf("unexpected kinds: %s, %s", set.Categories.Kind(), set.Goals.Kind())
	}
}
