// Package report aggregates expenses, budgets and bills into the summaries
// shown by the dashboard commands.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iudanet/finkeeper/internal/models"
)

// Uncategorized is used for expenses without a category.
const Uncategorized = "Uncategorized"

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Amount   decimal.Decimal `json:"amount"`
	Share    decimal.Decimal `json:"share"` // percent of all expenses, two decimals
	Category string          `json:"category"`
	Count    int             `json:"count"`
}

// Summary totals income and expenses over a date range.
type Summary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Income     decimal.Decimal `json:"income"`
	Expenses   decimal.Decimal `json:"expenses"`
	Net        decimal.Decimal `json:"net"`
	Categories []CategoryTotal `json:"categories"` // expenses only, largest first
	Count      int             `json:"count"`
}

// Summarize totals the expenses dated in [from, to). A zero bound is open.
func Summarize(expenses []models.Expense, from, to time.Time) Summary {
	s := Summary{
		From:     from,
		To:       to,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}

	byCategory := make(map[string]*CategoryTotal)
	for _, e := range expenses {
		if !inRange(e.Date, from, to) {
			continue
		}
		s.Count++

		if e.Kind == models.KindIncome {
			s.Income = s.Income.Add(e.Amount)
			continue
		}
		s.Expenses = s.Expenses.Add(e.Amount)

		name := e.Category
		if name == "" {
			name = Uncategorized
		}
		ct, ok := byCategory[name]
		if !ok {
			ct = &CategoryTotal{Category: name, Amount: decimal.Zero}
			byCategory[name] = ct
		}
		ct.Amount = ct.Amount.Add(e.Amount)
		ct.Count++
	}

	s.Net = s.Income.Sub(s.Expenses)

	s.Categories = make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		if s.Expenses.IsPositive() {
			ct.Share = ct.Amount.Mul(hundred).Div(s.Expenses).Round(2)
		}
		s.Categories = append(s.Categories, *ct)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		a, b := s.Categories[i], s.Categories[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})

	return s
}

// MonthOverview is the income/expense balance of one calendar month.
type MonthOverview struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
	Month    time.Month      `json:"month"`
}

// Monthly returns twelve overviews for the given year, January first.
func Monthly(expenses []models.Expense, year int) []MonthOverview {
	out := make([]MonthOverview, 12)
	for i := range out {
		out[i] = MonthOverview{
			Month:    time.Month(i + 1),
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
			Net:      decimal.Zero,
		}
	}

	for _, e := range expenses {
		if e.Date.Year() != year {
			continue
		}
		m := &out[e.Date.Month()-1]
		if e.Kind == models.KindIncome {
			m.Income = m.Income.Add(e.Amount)
		} else {
			m.Expenses = m.Expenses.Add(e.Amount)
		}
		m.Net = m.Income.Sub(m.Expenses)
	}

	return out
}

// BudgetUsage recomputes spent, remaining and status of every budget for the
// period containing now. Only expenses of the budget category dated on or
// after the budget start date count.
func BudgetUsage(budgets []models.Budget, expenses []models.Expense, now time.Time) []models.Budget {
	out := make([]models.Budget, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, b.WithSpent(Spent(b, expenses, now)))
	}
	return out
}

// Spent returns how much of budget b was used in its current period.
func Spent(b models.Budget, expenses []models.Expense, now time.Time) decimal.Decimal {
	from, to := b.Period.Bounds(now)
	if b.StartDate.After(from) {
		from = b.StartDate
	}

	spent := decimal.Zero
	for _, e := range expenses {
		if e.Kind != models.KindExpense || e.Category != b.Category {
			continue
		}
		if inRange(e.Date, from, to) {
			spent = spent.Add(e.Amount)
		}
	}
	return spent
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
