package insights

import (
	"fmt"
	"strings"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/report"
)

const systemPrompt = `You are a personal finance assistant. Answer ONLY with a JSON array of insight objects.
Each object has the fields "type" (one of spending, saving, budget, income, bill, general),
"priority" (high, medium or low), "title", "description" and "recommendation".
Return between 3 and 5 insights. Do not add any text outside the JSON array.`

// Snapshot is the financial data an insight request is based on.
type Snapshot struct {
	Summary  report.Summary
	Budgets  []models.Budget
	Upcoming []report.Event
}

// BuildPrompt renders snap as the user message of the chat request.
func BuildPrompt(snap Snapshot) string {
	var b strings.Builder
	s := snap.Summary

	fmt.Fprintf(&b, "Period: %s to %s\n", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total income: %s\n", s.Income.StringFixed(2))
	fmt.Fprintf(&b, "Total expenses: %s\n", s.Expenses.StringFixed(2))
	fmt.Fprintf(&b, "Net: %s\n", s.Net.StringFixed(2))

	if len(s.Categories) > 0 {
		b.WriteString("\nSpending by category:\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "- %s: %s (%s%%, %d transactions)\n", c.Category, c.Amount.StringFixed(2), c.Share.StringFixed(1), c.Count)
		}
	}

	if len(snap.Budgets) > 0 {
		b.WriteString("\nBudgets:\n")
		for _, bg := range snap.Budgets {
			fmt.Fprintf(&b, "- %s (%s): spent %s of %s, status %s\n",
				bg.Category, bg.Period, bg.Spent.StringFixed(2), bg.Amount.StringFixed(2), bg.Status)
		}
	}

	if len(snap.Upcoming) > 0 {
		b.WriteString("\nUpcoming bills:\n")
		for _, ev := range snap.Upcoming {
			fmt.Fprintf(&b, "- %s: %s due %s\n", ev.Bill.Name, ev.Bill.Amount.StringFixed(2), ev.Date.Format("2006-01-02"))
		}
	}

	return b.String()
}
