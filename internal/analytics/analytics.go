// Package analytics turns a ledger snapshot into chart datasets. Every
// function is pure: inputs are never mutated and results depend only on the
// arguments.
package analytics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// Range is a reporting window ending today.
type Range string

const (
	ThisWeek    Range = "thisWeek"
	ThisMonth   Range = "thisMonth"
	Last3Months Range = "last3Months"
	ThisYear    Range = "thisYear"
)

// Ranges lists the supported ranges in display order.
var Ranges = []Range{ThisWeek, ThisMonth, Last3Months, ThisYear}

// ParseRange validates s. The empty string selects ThisMonth.
func ParseRange(s string) (Range, error) {
	if s == "" {
		return ThisMonth, nil
	}
	r := Range(s)
	if !slices.Contains(Ranges, r) {
		return "", apperrors.Validation("range", "unsupported range %q", s)
	}
	return r, nil
}

// Start returns the first day included in r relative to now.
func (r Range) Start(now time.Time) models.Date {
	today := models.DateOf(now)
	firstOfMonth := models.NewDate(today.Year(), today.Month(), 1)

	switch r {
	case ThisWeek:
		return today.AddDays(-7)
	case Last3Months:
		return firstOfMonth.AddMonths(-3)
	case ThisYear:
		return models.NewDate(today.Year(), time.January, 1)
	default:
		return firstOfMonth
	}
}

// Window returns the inclusive [from, to] dates of r; to is today.
func (r Range) Window(now time.Time) (from, to models.Date) {
	return r.Start(now), models.DateOf(now)
}

// FilterByRange keeps expense transactions dated inside r's window.
func FilterByRange(txs []models.Transaction, r Range, now time.Time) []models.Transaction {
	from, to := r.Window(now)
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Color    string          `json:"color"`
	Icon     string          `json:"icon"`
}

// CategoryBreakdown sums amounts per category name, attaches display
// metadata and sorts by amount descending. Equal amounts keep the order in
// which their category first appeared in txs.
func CategoryBreakdown(txs []models.Transaction, categories []models.Category) []CategoryTotal {
	index := make(map[string]int)
	out := make([]CategoryTotal, 0)
	for _, tx := range txs {
		i, ok := index[tx.Category]
		if !ok {
			cat := lookupCategory(categories, tx.Category)
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryTotal{
				Category: tx.Category,
				Amount:   decimal.Zero,
				Color:    cat.Color,
				Icon:     cat.Icon,
			})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}

	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		return b.Amount.Cmp(a.Amount)
	})
	return out
}

// lookupCategory prefers an expense category of that name, then any
// category of that name, then the placeholder.
func lookupCategory(categories []models.Category, name string) models.Category {
	var fallback *models.Category
	for i := range categories {
		c := &categories[i]
		if c.Name != name {
			continue
		}
		if c.Type == models.CategoryTypeExpense {
			return *c
		}
		if fallback == nil {
			fallback = c
		}
	}
	if fallback != nil {
		return *fallback
	}
	return models.PlaceholderCategory(name)
}

// Total is the sum of the breakdown slices, so a chart's center label always
// matches the slices it shows.
func Total(breakdown []CategoryTotal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range breakdown {
		total = total.Add(c.Amount)
	}
	return total
}

// Series is a per-day amount series with parallel slices.
type Series struct {
	Dates   []models.Date     `json:"dates"`
	Amounts []decimal.Decimal `json:"amounts"`
}

// DailySeries sums amounts per date, ascending by date. No transactions
// yields empty (not nil) slices.
func DailySeries(txs []models.Transaction) Series {
	totals := make(map[models.Date]decimal.Decimal)
	for _, tx := range txs {
		totals[tx.Date] = totals[tx.Date].Add(tx.Amount)
	}

	s := Series{
		Dates:   make([]models.Date, 0, len(totals)),
		Amounts: make([]decimal.Decimal, 0, len(totals)),
	}
	for d := range totals {
		s.Dates = append(s.Dates, d)
	}
	slices.SortFunc(s.Dates, models.Date.Compare)
	for _, d := range s.Dates {
		s.Amounts = append(s.Amounts, totals[d])
	}
	return s
}

// MonthSummary is the income/expense balance of one calendar month.
type MonthSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}

// MonthlySummary totals the transactions dated in the calendar month of now.
func MonthlySummary(txs []models.Transaction, now time.Time) MonthSummary {
	today := models.DateOf(now)
	sum := MonthSummary{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range txs {
		if tx.Date.Year() != today.Year() || tx.Date.Month() != today.Month() {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			sum.Income = sum.Income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			sum.Expenses = sum.Expenses.Add(tx.Amount)
		}
	}
	sum.Savings = sum.Income.Sub(sum.Expenses)
	return sum
}

// Recent returns a copy of the first n transactions of an already ordered
// snapshot.
func Recent(txs []models.Transaction, n int) []models.Transaction {
	n = max(0, min(n, len(txs)))
	out := make([]models.Transaction, n)
	copy(out, txs)
	return out
}
