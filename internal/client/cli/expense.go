package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/table"
	"github.com/iudanet/finkeeper/internal/validation"
	"github.com/iudanet/finkeeper/pkg/api"
)

func expenseColumns(c *Cli) []table.Column[models.Expense] {
	return []table.Column[models.Expense]{
		{Name: "date", Value: func(e models.Expense) string { return FormatDate(e.Date) }},
		{Name: "merchant", Value: func(e models.Expense) string { return e.Merchant }},
		{Name: "category", Value: func(e models.Expense) string { return e.Category }},
		{Name: "kind", Value: func(e models.Expense) string { return string(e.Kind) }},
		{Name: "amount", Value: func(e models.Expense) string { return e.Amount.StringFixed(2) }},
		{Name: "currency", Value: func(e models.Expense) string { return e.Currency }},
		{Name: "tax", Value: func(e models.Expense) string {
			if e.TaxDeductible {
				return "yes"
			}
			return ""
		}},
		{Name: "id", Value: func(e models.Expense) string { return e.ID }},
		stateColumn(c.sync.Expenses().Store()),
	}
}

// expenseFlags поля расхода во флагах add и edit
type expenseFlags struct {
	date     string
	amount   string
	kind     string
	currency string
	category string
	merchant string
	note     string
	tax      bool
}

func (f *expenseFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "Amount, always positive")
	cmd.Flags().StringVar(&f.kind, "kind", string(models.KindExpense), "expense or income")
	cmd.Flags().StringVar(&f.currency, "currency", "", "ISO 4217 currency code (default from config)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category name")
	cmd.Flags().StringVarP(&f.merchant, "merchant", "m", "", "Merchant or income source")
	cmd.Flags().StringVar(&f.note, "note", "", "Free-form note")
	cmd.Flags().BoolVar(&f.tax, "tax-deductible", false, "Include in the tax report")
}

func newExpenseCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses", "e"},
		Short:   "Manage expenses and income",
	}

	var add expenseFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense or income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			in, err := c.expenseInput(add)
			if err != nil {
				return err
			}
			return c.runExpenseAdd(cmd.Context(), in)
		},
	}
	add.bind(addCmd)
	_ = addCmd.MarkFlagRequired("amount")

	var list listFlags
	var from, to string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses and income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.runExpenseList(list, from, to)
		},
	}
	list.bind(listCmd, "date")
	listCmd.Flags().StringVar(&from, "from", "", "Only entries on or after YYYY-MM-DD")
	listCmd.Flags().StringVar(&to, "to", "", "Only entries before YYYY-MM-DD")

	var edit expenseFlags
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.runExpenseEdit(cmd.Context(), args[0], edit, cmd.Flags().Changed)
		},
	}
	edit.bind(editCmd)

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.runExpenseDelete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, editCmd, deleteCmd)
	return cmd
}

func (c *Cli) expenseInput(f expenseFlags) (api.ExpenseInput, error) {
	amount, err := parseAmount(f.amount)
	if err != nil {
		return api.ExpenseInput{}, err
	}
	date, err := parseDate(f.date, c.now())
	if err != nil {
		return api.ExpenseInput{}, err
	}
	currency := f.currency
	if currency == "" {
		currency = c.currency()
	}

	in := api.ExpenseInput{
		Date:          date,
		Amount:        amount,
		Kind:          f.kind,
		Currency:      currency,
		Category:      f.category,
		Merchant:      f.merchant,
		Note:          f.note,
		TaxDeductible: f.tax,
	}
	if err := validation.ValidateExpense(in); err != nil {
		return api.ExpenseInput{}, err
	}
	return in, nil
}

func (c *Cli) runExpenseAdd(ctx context.Context, in api.ExpenseInput) error {
	created, err := c.sync.Expenses().Create(ctx, in)
	if err != nil {
		return err
	}
	c.io.Printf("ID: %s\n", created.ID)
	return nil
}

func (c *Cli) runExpenseList(f listFlags, from, to string) error {
	expenses := c.sync.Expenses().Store().All()

	if from != "" || to != "" {
		var lo, hi = c.now(), c.now()
		var err error
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
		filtered := expenses[:0:0]
		for _, e := range expenses {
			if from != "" && e.Date.Before(lo) {
				continue
			}
			if to != "" && !e.Date.Before(hi) {
				continue
			}
			filtered = append(filtered, e)
		}
		expenses = filtered
	}

	if len(expenses) == 0 {
		c.io.Println("No expenses found.")
		c.io.Println()
		c.io.Println("Use 'finkeeper expense add --amount 12.50 --merchant Coffee' to record one.")
		return nil
	}

	columns := expenseColumns(c)
	page, err := table.Apply(expenses, columns, f.query(c.pageSize()))
	if err != nil {
		return err
	}

	renderPage(c, "Expenses", columns, page)
	return nil
}

func (c *Cli) runExpenseEdit(ctx context.Context, id string, f expenseFlags, changed func(string) bool) error {
	e, ok := c.sync.Expenses().Store().Get(id)
	if !ok {
		return fmt.Errorf("expense %s not found", id)
	}

	if changed("amount") {
		amount, err := parseAmount(f.amount)
		if err != nil {
			return err
		}
		e.Amount = amount
	}
	if changed("date") {
		date, err := parseDate(f.date, c.now())
		if err != nil {
			return err
		}
		e.Date = date
	}
	if changed("kind") {
		e.Kind = models.Kind(f.kind)
	}
	if changed("currency") {
		e.Currency = f.currency
	}
	if changed("category") {
		e.Category = f.category
	}
	if changed("merchant") {
		e.Merchant = f.merchant
	}
	if changed("note") {
		e.Note = f.note
	}
	if changed("tax-deductible") {
		e.TaxDeductible = f.tax
	}

	if err := validation.ExpenseEntity(e); err != nil {
		return err
	}

	_, err := c.sync.Expenses().Update(ctx, e)
	return err
}

func (c *Cli) runExpenseDelete(ctx context.Context, id string) error {
	return c.sync.Expenses().Delete(ctx, id)
}
