package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/table"
	"github.com/iudanet/finkeeper/internal/validation"
	"github.com/iudanet/finkeeper/pkg/api"
)

func budgetColumns(c *Cli) []table.Column[models.Budget] {
	return []table.Column[models.Budget]{
		{Name: "category", Value: func(b models.Budget) string { return b.Category }},
		{Name: "period", Value: func(b models.Budget) string { return string(b.Period) }},
		{Name: "limit", Value: func(b models.Budget) string { return b.Amount.StringFixed(2) }},
		{Name: "spent", Value: func(b models.Budget) string { return b.Spent.StringFixed(2) }},
		{Name: "remaining", Value: func(b models.Budget) string { return b.Remaining.StringFixed(2) }},
		{Name: "status", Value: func(b models.Budget) string { return string(b.Status) }},
		{Name: "id", Value: func(b models.Budget) string { return b.ID }},
		stateColumn(c.sync.Budgets().Store()),
	}
}

func newBudgetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budget",
		Aliases: []string{"budgets", "b"},
		Short:   "Manage budgets",
	}

	var amount, start string
	var in api.BudgetInput
	addCmd := &cobra.Command{
		Use:   "add <category>",
		Short: "Set a spending limit for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			in.Category = args[0]
			if in.Amount, err = parseAmount(amount); err != nil {
				return err
			}
			if in.StartDate, err = parseDate(start, c.now()); err != nil {
				return err
			}
			if err := validation.ValidateBudget(in); err != nil {
				return err
			}
			return c.runBudgetAdd(cmd.Context(), in)
		},
	}
	addCmd.Flags().StringVarP(&amount, "amount", "a", "", "Limit per period")
	addCmd.Flags().StringVar(&in.Period, "period", string(models.PeriodMonthly), "weekly, monthly or yearly")
	addCmd.Flags().StringVar(&start, "start", "", "Start date YYYY-MM-DD (default today)")
	_ = addCmd.MarkFlagRequired("amount")

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets with their current usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.runBudgetList(list)
		},
	}
	list.bind(listCmd, "category")

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a budget",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.sync.Budgets().Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, deleteCmd)
	return cmd
}

func (c *Cli) runBudgetAdd(ctx context.Context, in api.BudgetInput) error {
	created, err := c.sync.Budgets().Create(ctx, in)
	if err != nil {
		return err
	}
	c.io.Printf("ID: %s\n", created.ID)
	return nil
}

func (c *Cli) runBudgetList(f listFlags) error {
	budgets := c.sync.Budgets().Store().All()
	if len(budgets) == 0 {
		c.io.Println("No budgets found.")
		return nil
	}

	columns := budgetColumns(c)
	page, err := table.Apply(budgets, columns, f.query(c.pageSize()))
	if err != nil {
		return err
	}
	renderPage(c, "Budgets", columns, page)
	return nil
}
