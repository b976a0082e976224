package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/report"
)

// monthBounds возвращает [начало месяца, начало следующего)
func monthBounds(at time.Time) (time.Time, time.Time) {
	y, m, _ := at.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func newReportCommand(a *app) *cobra.Command {
	var from, to string
	var year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Income, expenses and budgets for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}

			lo, hi := monthBounds(c.now())
			if from != "" {
				if lo, err = parseDate(from, c.now()); err != nil {
					return err
				}
			}
			if to != "" {
				if hi, err = parseDate(to, c.now()); err != nil {
					return err
				}
			}
			if year == 0 {
				year = lo.Year()
			}
			return c.runReport(lo, hi, year)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Period start YYYY-MM-DD (default start of this month)")
	cmd.Flags().StringVar(&to, "to", "", "Period end, exclusive (default start of next month)")
	cmd.Flags().IntVar(&year, "year", 0, "Year of the monthly overview (default year of --from)")
	return cmd
}

func (c *Cli) runReport(from, to time.Time, year int) error {
	expenses := c.sync.Expenses().Store().All()
	cur := c.currency()
	s := report.Summarize(expenses, from, to)

	c.io.Println()
	c.io.Println(RenderTitle(fmt.Sprintf("REPORT  %s .. %s", FormatDate(from), FormatDate(to.AddDate(0, 0, -1)))))
	c.io.Println()

	_, _ = fmt.Fprint(c.io, RenderTable(Table{
		Headers: []string{"Summary", "Amount"},
		Rows: [][]string{
			{"Income", FormatMoney(s.Income, cur)},
			{"Expenses", FormatMoney(s.Expenses, cur)},
			{"---"},
			{"Net", FormatMoney(s.Net, cur)},
			{"Transactions", fmt.Sprintf("%d", s.Count)},
		},
	}))

	if len(s.Categories) > 0 {
		top := s.Categories[0].Amount.InexactFloat64()
		rows := make([][]string, 0, len(s.Categories))
		for _, ct := range s.Categories {
			rows = append(rows, []string{
				ct.Category,
				FormatMoney(ct.Amount, cur),
				ct.Share.StringFixed(1) + "%",
				RenderBar(ct.Amount.InexactFloat64(), top, 20),
			})
		}
		_, _ = fmt.Fprint(c.io, RenderTable(Table{
			Title:   "By Category",
			Headers: []string{"Category", "Spent", "Share", ""},
			Rows:    rows,
		}))
	}

	budgets := report.BudgetUsage(c.sync.Budgets().Store().All(), expenses, c.now())
	if len(budgets) > 0 {
		rows := make([][]string, 0, len(budgets))
		for _, b := range budgets {
			rows = append(rows, []string{
				b.Category,
				string(b.Period),
				FormatMoney(b.Spent, cur),
				FormatMoney(b.Amount, cur),
				string(b.Status),
			})
		}
		_, _ = fmt.Fprint(c.io, RenderTable(Table{
			Title:   "Budgets",
			Headers: []string{"Category", "Period", "Spent", "Limit", "Status"},
			Rows:    rows,
		}))
	}

	months := report.Monthly(expenses, year)
	rows := make([][]string, 0, len(months))
	for _, m := range months {
		if m.Income.IsZero() && m.Expenses.IsZero() {
			continue
		}
		rows = append(rows, []string{
			m.Month.String()[:3],
			FormatMoney(m.Income, cur),
			FormatMoney(m.Expenses, cur),
			FormatMoney(m.Net, cur),
		})
	}
	if len(rows) > 0 {
		_, _ = fmt.Fprint(c.io, RenderTable(Table{
			Title:   fmt.Sprintf("Monthly Overview %d", year),
			Headers: []string{"Month", "Income", "Expenses", "Net"},
			Rows:    rows,
		}))
	}

	return nil
}

func newTaxReportCommand(a *app) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "tax-report",
		Short: "Tax deductible expenses of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			if year == 0 {
				year = c.now().Year()
			}
			return c.runTaxReport(year)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Tax year (default this year)")
	return cmd
}

func (c *Cli) runTaxReport(year int) error {
	r := report.Tax(c.sync.Expenses().Store().All(), year)
	cur := c.currency()

	c.io.Println()
	c.io.Println(RenderTitle(fmt.Sprintf("TAX REPORT  %d", year)))
	c.io.Println()

	if len(r.Lines) == 0 {
		c.io.Println("No tax deductible expenses recorded for this year.")
		c.io.Println()
		c.io.Println("Mark expenses with --tax-deductible to include them.")
		return nil
	}

	rows := make([][]string, 0)
	for _, line := range r.Lines {
		for _, e := range line.Items {
			rows = append(rows, []string{
				line.Category,
				FormatDate(e.Date),
				e.Merchant,
				FormatMoney(e.Amount, cur),
			})
		}
		rows = append(rows, []string{"", "", "subtotal", FormatMoney(line.Amount, cur)})
		rows = append(rows, []string{"---"})
	}
	rows = append(rows, []string{"TOTAL", "", "", FormatMoney(r.Total, cur)})

	_, _ = fmt.Fprint(c.io, RenderTable(Table{
		Headers: []string{"Category", "Date", "Merchant", "Amount"},
		Rows:    rows,
	}))
	return nil
}

func newCalendarCommand(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Upcoming bill payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			return c.runCalendar(days)
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", 30, "How many days ahead to show")
	return cmd
}

func (c *Cli) runCalendar(days int) error {
	y, m, d := c.now().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, days)

	events := report.Calendar(c.sync.Bills().Store().All(), from, to)
	cur := c.currency()

	c.io.Println()
	c.io.Println(RenderTitle(fmt.Sprintf("BILL CALENDAR  Next %dd", days)))
	c.io.Println()

	if len(events) == 0 {
		c.io.Println("No payments scheduled.")
		return nil
	}

	rows := make([][]string, 0, len(events)+2)
	for _, ev := range events {
		rows = append(rows, []string{
			FormatDate(ev.Date),
			ev.Bill.Name,
			string(ev.Bill.Frequency),
			yesNo(ev.Bill.AutoPay),
			FormatMoney(ev.Bill.Amount, cur),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"TOTAL", "", "", "", FormatMoney(report.Upcoming(events), cur)})

	_, _ = fmt.Fprint(c.io, RenderTable(Table{
		Headers: []string{"Date", "Bill", "Frequency", "Autopay", "Amount"},
		Rows:    rows,
	}))
	return nil
}
