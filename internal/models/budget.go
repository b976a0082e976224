package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iudanet/finkeeper/pkg/api"
)

// Period период бюджета
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid сообщает, известен ли период
func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Bounds возвращает полуинтервал [start, end) периода, содержащего at.
// Недели начинаются с понедельника.
func (p Period) Bounds(at time.Time) (time.Time, time.Time) {
	y, m, d := at.Date()
	loc := at.Location()

	switch p {
	case PeriodWeekly:
		offset := (int(at.Weekday()) + 6) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7)
	case PeriodYearly:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	}
}

// BudgetStatus состояние бюджета относительно лимита
type BudgetStatus string

const (
	BudgetPending  BudgetStatus = "pending" // еще не посчитан сервером
	BudgetOnTrack  BudgetStatus = "on_track"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"
)

// BudgetWarningRatio доля лимита, после которой бюджет переходит в warning
var BudgetWarningRatio = decimal.NewFromFloat(0.8)

// Budget представляет лимит расходов по категории на период.
// Spent, Remaining и Status вычисляются сервером.
type Budget struct {
	StartDate time.Time       `json:"start_date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Amount    decimal.Decimal `json:"amount"`    // Amount лимит на период
	Spent     decimal.Decimal `json:"spent"`     // Spent потрачено за текущий период
	Remaining decimal.Decimal `json:"remaining"` // Remaining остаток лимита, может быть отрицательным
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Category  string          `json:"category"`
	Period    Period          `json:"period"`
	Status    BudgetStatus    `json:"status"`
}

// GetID возвращает идентификатор бюджета
func (b Budget) GetID() string { return b.ID }

// Touched возвращает копию с обновленным UpdatedAt
func (b Budget) Touched(at time.Time) Budget {
	b.UpdatedAt = at
	return b
}

// WithSpent возвращает копию с пересчитанными Spent, Remaining и Status
func (b Budget) WithSpent(spent decimal.Decimal) Budget {
	b.Spent = spent
	b.Remaining = b.Amount.Sub(spent)

	switch {
	case spent.GreaterThan(b.Amount):
		b.Status = BudgetExceeded
	case b.Amount.IsPositive() && spent.GreaterThanOrEqual(b.Amount.Mul(BudgetWarningRatio)):
		b.Status = BudgetWarning
	default:
		b.Status = BudgetOnTrack
	}
	return b
}

// NewBudget собирает бюджет из входных данных.
// Вычисляемые поля получают нейтральные значения: ничего не потрачено,
// остаток равен лимиту, статус pending.
func NewBudget(id, owner string, in api.BudgetInput, at time.Time) Budget {
	period := Period(in.Period)
	if period == "" {
		period = PeriodMonthly
	}
	return Budget{
		ID:        id,
		UserID:    owner,
		Category:  in.Category,
		Amount:    in.Amount,
		Spent:     decimal.Zero,
		Remaining: in.Amount,
		Period:    period,
		StartDate: in.StartDate,
		Status:    BudgetPending,
		CreatedAt: at,
		UpdatedAt: at,
	}
}
