package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iudanet/finkeeper/pkg/api"
)

// Frequency периодичность регулярного платежа
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid сообщает, известна ли периодичность
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// maxOccurrences защищает от бесконечного цикла на огромных интервалах
const maxOccurrences = 1000

// Bill представляет регулярный платеж или подписку
type Bill struct {
	NextDue   time.Time       `json:"next_due"`   // NextDue дата ближайшего платежа
	CreatedAt time.Time       `json:"created_at"` // CreatedAt время создания
	UpdatedAt time.Time       `json:"updated_at"` // UpdatedAt время последнего обновления
	Amount    decimal.Decimal `json:"amount"`     // Amount сумма платежа
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"` // Name название, например "Netflix"
	Category  string          `json:"category"`
	Frequency Frequency       `json:"frequency"`
	AutoPay   bool            `json:"auto_pay"` // AutoPay списывается автоматически
	Active    bool            `json:"active"`   // Active неактивные платежи не попадают в календарь
}

// GetID возвращает идентификатор платежа
func (b Bill) GetID() string { return b.ID }

// Touched возвращает копию с обновленным UpdatedAt
func (b Bill) Touched(at time.Time) Bill {
	b.UpdatedAt = at
	return b
}

// Occurrences возвращает даты платежей в интервале [from, to], начиная с NextDue.
// Месячные шаги не переползают через конец месяца: 31 января -> 28(29) февраля -> 31 марта.
func (b Bill) Occurrences(from, to time.Time) []time.Time {
	if !b.Active || b.NextDue.IsZero() || to.Before(from) {
		return nil
	}

	var out []time.Time
	for n := 0; n < maxOccurrences*10; n++ {
		due := b.step(n)
		if due.After(to) {
			break
		}
		if !due.Before(from) {
			out = append(out, due)
			if len(out) == maxOccurrences {
				break
			}
		}
	}
	return out
}

// step возвращает дату n-го платежа после NextDue
func (b Bill) step(n int) time.Time {
	switch b.Frequency {
	case FrequencyWeekly:
		return b.NextDue.AddDate(0, 0, 7*n)
	case FrequencyQuarterly:
		return addMonths(b.NextDue, 3*n)
	case FrequencyYearly:
		return addMonths(b.NextDue, 12*n)
	default:
		return addMonths(b.NextDue, n)
	}
}

// MonthlyCost приводит сумму платежа к месячной
func (b Bill) MonthlyCost() decimal.Decimal {
	switch b.Frequency {
	case FrequencyWeekly:
		return b.Amount.Mul(decimal.NewFromInt(52)).Div(decimal.NewFromInt(12))
	case FrequencyQuarterly:
		return b.Amount.Div(decimal.NewFromInt(3))
	case FrequencyYearly:
		return b.Amount.Div(decimal.NewFromInt(12))
	default:
		return b.Amount
	}
}

// NewBill собирает регулярный платеж из входных данных
func NewBill(id, owner string, in api.BillInput, at time.Time) Bill {
	freq := Frequency(in.Frequency)
	if freq == "" {
		freq = FrequencyMonthly
	}
	return Bill{
		ID:        id,
		UserID:    owner,
		Name:      in.Name,
		Amount:    in.Amount,
		Category:  in.Category,
		Frequency: freq,
		NextDue:   in.NextDue,
		AutoPay:   in.AutoPay,
		Active:    true,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// addMonths прибавляет месяцы, прижимая день к последнему дню целевого месяца
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
