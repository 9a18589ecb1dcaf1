package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/models"
	"fintrack/internal/store"
	"fintrack/internal/testutil"
)

func validInput(category string) TransactionInput {
	return TransactionInput{
		Amount:      decimal.RequireFromString("42.50"),
		Type:        models.TransactionTypeExpense,
		Category:    category,
		Description: "Weekly shop",
		Date:        "2024-03-10",
	}
}

// recorder captures published events.
type recorder struct {
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		backends(t, func(t *testing.T, env *testEnv) {
			testutil.CreateTestCategoryNamed(t, env.set.Categories, "Groceries", models.CategoryTypeExpense)

			tx, err := env.transactions.CreateTransaction(ctx, validInput("Groceries"))
			testutil.AssertNoError(t, err)

			if tx.ID == 0 {
				t.Fatal("expected non-zero transaction ID")
			}
			testutil.AssertDecimal(t, "amount", tx.Amount, "42.50")
			if tx.Date.String() != "2024-03-10" {
				t.Errorf("expected date 2024-03-10, got %s", tx.Date)
			}

			got, err := env.transactions.GetTransactionByID(ctx, tx.ID)
			testutil.AssertNoError(t, err)
			if got.Description != "Weekly shop" || got.Category != "Groceries" {
				t.Errorf("read-your-writes failed: %+v", got)
			}
		})
	})

	t.Run("publishes_created", func(t *testing.T) {
		set := store.NewMemorySet()
		testutil.CreateTestCategoryNamed(t, set.Categories, "Groceries", models.CategoryTypeExpense)
		rec := &recorder{}
		svc := NewTransactionService(set.Transactions, NewCategoryService(set.Categories), rec, testutil.FixedClock(t, testNow))

		tx, err := svc.CreateTransaction(ctx, validInput("Groceries"))
		testutil.AssertNoError(t, err)

		if len(rec.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(rec.events))
		}
		e := rec.events[0]
		if e.Name != events.TransactionCreated || e.TransactionID != tx.ID || e.Previous != nil {
			t.Errorf("unexpected event: %+v", e)
		}
		testutil.AssertDecimal(t, "event amount", e.Entry.Amount, "42.50")
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(in *TransactionInput)
			field  string
		}{
			{"zero_amount", func(in *TransactionInput) { in.Amount = decimal.Zero }, "amount"},
			{"negative_amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) }, "amount"},
			{"sub_cent_amount", func(in *TransactionInput) { in.Amount = decimal.RequireFromString("0.005") }, "amount"},
			{"bad_type", func(in *TransactionInput) { in.Type = "transfer" }, "type"},
			{"empty_description", func(in *TransactionInput) { in.Description = " " }, "description"},
			{"empty_category", func(in *TransactionInput) { in.Category = "" }, "category"},
			{"unknown_category", func(in *TransactionInput) { in.Category = "Casino" }, "category"},
			{"type_mismatch", func(in *TransactionInput) { in.Type = models.TransactionTypeIncome }, "category"},
			{"missing_date", func(in *TransactionInput) { in.Date = "" }, "date"},
			{"unparsable_date", func(in *TransactionInput) { in.Date = "10/03/2024" }, "date"},
			{"impossible_date", func(in *TransactionInput) { in.Date = "2024-02-30" }, "date"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				env := newMemoryEnv(t)
				testutil.CreateTestCategoryNamed(t, env.set.Categories, "Groceries", models.CategoryTypeExpense)

				in := validInput("Groceries")
				tt.mutate(&in)
				_, err := env.transactions.CreateTransaction(ctx, in)
				testutil.AssertValidationField(t, err, tt.field)

				all, _ := env.set.Transactions.FetchAll(ctx)
				if len(all) != 0 {
					t.Errorf("expected no side effects, got %d transactions", len(all))
				}
			})
		}
	})

	t.Run("backend_error", func(t *testing.T) {
		set := store.NewMemorySet()
		testutil.CreateTestCategoryNamed(t, set.Categories, "Groceries", models.CategoryTypeExpense)
		svc := NewTransactionService(
			testutil.NewFailingStore[models.Transaction](store.KindTransaction),
			NewCategoryService(set.Categories), nil, nil,
		)

		_, err := svc.CreateTransaction(ctx, validInput("Groceries"))
		appErr := testutil.AssertAppError(t, err, "BACKEND_ERROR")
		if !errors.Is(appErr, testutil.ErrBackendDown) {
			t.Errorf("expected backend cause to be kept, got %v", appErr.Internal)
		}
	})

	t.Run("subscriber_failure_keeps_record", func(t *testing.T) {
		set := store.NewMemorySet()
		testutil.CreateTestCategoryNamed(t, set.Categories, "Groceries", models.CategoryTypeExpense)
		rec := &recorder{err: errors.New("budget store down")}
		svc := NewTransactionService(set.Transactions, NewCategoryService(set.Categories), rec, nil)

		_, err := svc.CreateTransaction(ctx, validInput("Groceries"))
		testutil.AssertAppError(t, err, "BACKEND_ERROR")
		if !errors.Is(err, apperrors.ErrDependentUpdate) {
			t.Errorf("expected dependent update error, got %v", err)
		}

		all, _ := set.Transactions.FetchAll(ctx)
		if len(all) != 1 {
			t.Errorf("expected the transaction to stay recorded, got %d", len(all))
		}
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered_newest_first", func(t *testing.T) {
		set := store.NewMemorySet()
		testutil.CreateTestCategoryNamed(t, set.Categories, "Food", models.CategoryTypeExpense)
		clock := testutil.TickingClock(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
		svc := NewTransactionService(set.Transactions, NewCategoryService(set.Categories), nil, clock)

		dates := []string{"2024-03-01", "2024-03-05", "2024-03-05", "2024-02-28"}
		ids := make([]uint, len(dates))
		for i, d := range dates {
			in := validInput("Food")
			in.Date = d
			tx, err := svc.CreateTransaction(ctx, in)
			testutil.AssertNoError(t, err)
			ids[i] = tx.ID
		}

		txs, err := svc.ListTransactions(ctx, TransactionFilter{})
		testutil.AssertNoError(t, err)

		want := []uint{ids[2], ids[1], ids[0], ids[3]}
		for i, tx := range txs {
			if tx.ID != want[i] {
				t.Fatalf("position %d: expected id %d, got %d", i, want[i], tx.ID)
			}
		}
	})

	t.Run("same_created_at_falls_back_to_id", func(t *testing.T) {
		env := newMemoryEnv(t)
		testutil.CreateTestCategoryNamed(t, env.set.Categories, "Food", models.CategoryTypeExpense)

		first, err := env.transactions.CreateTransaction(ctx, validInput("Food"))
		testutil.AssertNoError(t, err)
		second, err := env.transactions.CreateTransaction(ctx, validInput("Food"))
		testutil.AssertNoError(t, err)

		txs, err := env.transactions.ListTransactions(ctx, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if txs[0].ID != second.ID || txs[1].ID != first.ID {
			t.Errorf("expected id descending on ties, got %d, %d", txs[0].ID, txs[1].ID)
		}
	})

	t.Run("filters", func(t *testing.T) {
		backends(t, func(t *testing.T, env *testEnv) {
			testutil.CreateTestTransaction(t, env.set.Transactions, "Food", models.TransactionTypeExpense, "10", "2024-03-01")
			testutil.CreateTestTransaction(t, env.set.Transactions, "Rent", models.TransactionTypeExpense, "900", "2024-03-02")
			testutil.CreateTestTransaction(t, env.set.Transactions, "Salary", models.TransactionTypeIncome, "3000", "2024-03-03")
			testutil.CreateTestTransaction(t, env.set.Transactions, "Food", models.TransactionTypeExpense, "12", "2024-04-01")

			from := models.MustParseDate("2024-03-01")
			to := models.MustParseDate("2024-03-31")
			expense := models.TransactionTypeExpense

			tests := []struct {
				name   string
				filter TransactionFilter
				want   int
			}{
				{"none", TransactionFilter{}, 4},
				{"date_range_inclusive", TransactionFilter{FromDate: &from, ToDate: &to}, 3},
				{"type", TransactionFilter{Type: &expense}, 3},
				{"category", TransactionFilter{Category: ptr("Food")}, 2},
				{"combined", TransactionFilter{FromDate: &from, ToDate: &to, Category: ptr("Food")}, 1},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					txs, err := env.transactions.ListTransactions(ctx, tt.filter)
					testutil.AssertNoError(t, err)
					if len(txs) != tt.want {
						t.Errorf("expected %d transactions, got %d", tt.want, len(txs))
					}
				})
			}
		})
	})

	t.Run("inverted_range", func(t *testing.T) {
		env := newMemoryEnv(t)
		from := models.MustParseDate("2024-03-31")
		to := models.MustParseDate("2024-03-01")
		_, err := env.transactions.ListTransactions(ctx, TransactionFilter{FromDate: &from, ToDate: &to})
		testutil.AssertValidationField(t, err, "from")
	})

	t.Run("snapshot_is_isolated", func(t *testing.T) {
		env := newMemoryEnv(t)
		testutil.CreateTestTransaction(t, env.set.Transactions, "Food", models.TransactionTypeExpense, "10", "2024-03-01")

		txs, _ := env.transactions.ListTransactions(ctx, TransactionFilter{})
		txs[0].Amount = decimal.NewFromInt(999)

		again, _ := env.transactions.ListTransactions(ctx, TransactionFilter{})
		if len(again) != 1 || !again[0].Amount.Equal(decimal.NewFromInt(10)) {
			t.Errorf("internal state changed through a snapshot: %+v", again)
		}
	})
}

func TestGetTransactionByID_NotFound(t *testing.T) {
	env := newMemoryEnv(t)
	_, err := env.transactions.GetTransactionByID(context.Background(), 99)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Error("expected transaction not found to match ErrNotFound")
	}
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("merges_patch", func(t *testing.T) {
		backends(t, func(t *testing.T, env *testEnv) {
			testutil.CreateTestCategoryNamed(t, env.set.Categories, "Food", models.CategoryTypeExpense)
			tx, err := env.transactions.CreateTransaction(ctx, validInput("Food"))
			testutil.AssertNoError(t, err)

			updated, err := env.transactions.UpdateTransaction(ctx, tx.ID, TransactionPatch{
				Amount: ptr(decimal.NewFromInt(60)),
				Date:   ptr("2024-03-12"),
			})
			testutil.AssertNoError(t, err)

			testutil.AssertDecimal(t, "amount", updated.Amount, "60")
			if updated.Date.String() != "2024-03-12" || updated.Description != "Weekly shop" {
				t.Errorf("unexpected merge result: %+v", updated)
			}
		})
	})

	t.Run("publishes_previous", func(t *testing.T) {
		set := store.NewMemorySet()
		testutil.CreateTestCategoryNamed(t, set.Categories, "Food", models.CategoryTypeExpense)
		testutil.CreateTestCategoryNamed(t, set.Categories, "Fun", models.CategoryTypeExpense)
		rec := &recorder{}
		svc := NewTransactionService(set.Transactions, NewCategoryService(set.Categories), rec, nil)

		tx, err := svc.CreateTransaction(ctx, validInput("Food"))
		testutil.AssertNoError(t, err)
		_, err = svc.UpdateTransaction(ctx, tx.ID, TransactionPatch{Category: ptr("Fun")})
		testutil.AssertNoError(t, err)

		e := rec.events[1]
		if e.Name != events.TransactionUpdated || e.Previous == nil {
			t.Fatalf("unexpected event: %+v", e)
		}
		if e.Previous.Category != "Food" || e.Entry.Category != "Fun" {
			t.Errorf("expected Food -> Fun, got %s -> %s", e.Previous.Category, e.Entry.Category)
		}
	})

	t.Run("invalid_merge_is_rejected", func(t *testing.T) {
		env := newMemoryEnv(t)
		testutil.CreateTestCategoryNamed(t, env.set.Categories, "Food", models.CategoryTypeExpense)
		tx, err := env.transactions.CreateTransaction(ctx, validInput("Food"))
		testutil.AssertNoError(t, err)

		income := models.TransactionTypeIncome
		_, err = env.transactions.UpdateTransaction(ctx, tx.ID, TransactionPatch{Type: &income})
		testutil.AssertValidationField(t, err, "category")

		got, _ := env.transactions.GetTransactionByID(ctx, tx.ID)
		if got.Type != models.TransactionTypeExpense {
			t.Errorf("rejected update was persisted: %+v", got)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		env := newMemoryEnv(t)
		_, err := env.transactions.UpdateTransaction(ctx, 5, TransactionPatch{})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("removes_and_publishes", func(t *testing.T) {
		set := store.NewMemorySet()
		testutil.CreateTestCategoryNamed(t, set.Categories, "Food", models.CategoryTypeExpense)
		rec := &recorder{}
		svc := NewTransactionService(set.Transactions, NewCategoryService(set.Categories), rec, nil)

		tx, err := svc.CreateTransaction(ctx, validInput("Food"))
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteTransaction(ctx, tx.ID))

		if rec.events[1].Name != events.TransactionDeleted || rec.events[1].TransactionID != tx.ID {
			t.Errorf("unexpected event: %+v", rec.events[1])
		}
		_, err = svc.GetTransactionByID(ctx, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		env := newMemoryEnv(t)
		err := env.transactions.DeleteTransaction(ctx, 12)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
