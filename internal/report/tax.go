package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iudanet/finkeeper/internal/models"
)

// TaxLine groups deductible expenses of one category.
type TaxLine struct {
	Amount   decimal.Decimal  `json:"amount"`
	Category string           `json:"category"`
	Items    []models.Expense `json:"items"`
}

// TaxReport lists the tax deductible expenses of a year.
type TaxReport struct {
	Total decimal.Decimal `json:"total"`
	Lines []TaxLine       `json:"lines"`
	Year  int             `json:"year"`
}

// Tax builds the tax report for year. Lines are ordered by category name,
// items inside a line by date.
func Tax(expenses []models.Expense, year int) TaxReport {
	r := TaxReport{Year: year, Total: decimal.Zero}

	byCategory := make(map[string]*TaxLine)
	for _, e := range expenses {
		if !e.TaxDeductible || e.Kind != models.KindExpense || e.Date.Year() != year {
			continue
		}
		name := e.Category
		if name == "" {
			name = Uncategorized
		}
		line, ok := byCategory[name]
		if !ok {
			line = &TaxLine{Category: name, Amount: decimal.Zero}
			byCategory[name] = line
		}
		line.Amount = line.Amount.Add(e.Amount)
		line.Items = append(line.Items, e)
		r.Total = r.Total.Add(e.Amount)
	}

	r.Lines = make([]TaxLine, 0, len(byCategory))
	for _, line := range byCategory {
		sort.SliceStable(line.Items, func(i, j int) bool {
			return line.Items[i].Date.Before(line.Items[j].Date)
		})
		r.Lines = append(r.Lines, *line)
	}
	sort.Slice(r.Lines, func(i, j int) bool {
		return r.Lines[i].Category < r.Lines[j].Category
	})

	return r
}

// Event is one scheduled bill payment.
type Event struct {
	Date time.Time   `json:"date"`
	Bill models.Bill `json:"bill"`
}

// Calendar returns the scheduled payments of all active bills within
// [from, to], ordered by date and then bill name.
func Calendar(bills []models.Bill, from, to time.Time) []Event {
	var events []Event
	for _, b := range bills {
		for _, due := range b.Occurrences(from, to) {
			events = append(events, Event{Date: due, Bill: b})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Bill.Name < events[j].Bill.Name
	})

	return events
}

// Upcoming sums the scheduled payments in [from, to].
func Upcoming(events []Event) decimal.Decimal {
	total := decimal.Zero
	for _, ev := range events {
		total = total.Add(ev.Bill.Amount)
	}
	return total
}
