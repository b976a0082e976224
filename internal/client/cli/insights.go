package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/insights"
	"github.com/iudanet/finkeeper/internal/report"
)

// upcomingDays горизонт платежей в снимке для советов
const upcomingDays = 30

func newInsightsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "AI advice about this month's finances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.runInsights(cmd.Context())
		},
	}
}

// snapshot собирает данные текущего месяца для запроса советов
func (c *Cli) snapshot() insights.Snapshot {
	now := c.now()
	from, to := monthBounds(now)
	expenses := c.sync.Expenses().Store().All()

	day := from.AddDate(0, 0, now.Day()-1)
	return insights.Snapshot{
		Summary:  report.Summarize(expenses, from, to),
		Budgets:  report.BudgetUsage(c.sync.Budgets().Store().All(), expenses, now),
		Upcoming: report.Calendar(c.sync.Bills().Store().All(), day, day.AddDate(0, 0, upcomingDays)),
	}
}

var priorityRank = map[insights.Priority]int{
	insights.PriorityHigh:   0,
	insights.PriorityMedium: 1,
	insights.PriorityLow:    2,
}

func (c *Cli) runInsights(ctx context.Context) error {
	c.io.Println(Muted("Analyzing your finances..."))

	list := c.insights.FinancialInsights(ctx, c.snapshot())

	if insights.IsFallback(list) {
		c.io.Println(RenderPanel("Couldn't load insights", list[0].Description+"\n"+mutedStyle.Render(list[0].Recommendation), ColorOrange))
		return nil
	}
	if len(list) == 0 {
		c.io.Println("No insights for this period. Add a few more transactions and try again.")
		return nil
	}

	sorted := make([]insights.Insight, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityRank[sorted[i].Priority] < priorityRank[sorted[j].Priority]
	})

	for _, in := range sorted {
		color := ColorAccent
		switch in.Priority {
		case insights.PriorityHigh:
			color = ColorRed
		case insights.PriorityLow:
			color = ColorGreen
		}

		var body strings.Builder
		body.WriteString(in.Description)
		if in.Recommendation != "" {
			body.WriteString("\n→ ")
			body.WriteString(in.Recommendation)
		}

		title := fmt.Sprintf("[%s] %s", strings.ToUpper(string(in.Type)), in.Title)
		c.io.Println(RenderPanel(title, body.String(), color))
	}
	return nil
}
