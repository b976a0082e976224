package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/table"
	"github.com/iudanet/finkeeper/internal/validation"
	"github.com/iudanet/finkeeper/pkg/api"
)

func billColumns(c *Cli) []table.Column[models.Bill] {
	return []table.Column[models.Bill]{
		{Name: "name", Value: func(b models.Bill) string { return b.Name }},
		{Name: "category", Value: func(b models.Bill) string { return b.Category }},
		{Name: "frequency", Value: func(b models.Bill) string { return string(b.Frequency) }},
		{Name: "amount", Value: func(b models.Bill) string { return b.Amount.StringFixed(2) }},
		{Name: "monthly", Value: func(b models.Bill) string { return b.MonthlyCost().StringFixed(2) }},
		{Name: "next due", Value: func(b models.Bill) string { return FormatDate(b.NextDue) }},
		{Name: "autopay", Value: func(b models.Bill) string { return yesNo(b.AutoPay) }},
		{Name: "id", Value: func(b models.Bill) string { return b.ID }},
		stateColumn(c.sync.Bills().Store()),
	}
}

func newBillCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bill",
		Aliases: []string{"bills", "subscription"},
		Short:   "Manage recurring bills and subscriptions",
	}

	var amount, due string
	var in api.BillInput
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recurring bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			in.Name = args[0]
			if in.Amount, err = parseAmount(amount); err != nil {
				return err
			}
			if in.NextDue, err = parseDate(due, c.now()); err != nil {
				return err
			}
			if err := validation.ValidateBill(in); err != nil {
				return err
			}
			return c.runBillAdd(cmd.Context(), in)
		},
	}
	addCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount per payment")
	addCmd.Flags().StringVar(&due, "due", "", "Next due date YYYY-MM-DD (default today)")
	addCmd.Flags().StringVarP(&in.Category, "category", "c", "", "Category name")
	addCmd.Flags().StringVar(&in.Frequency, "frequency", string(models.FrequencyMonthly), "weekly, monthly, quarterly or yearly")
	addCmd.Flags().BoolVar(&in.AutoPay, "autopay", false, "Paid automatically")
	_ = addCmd.MarkFlagRequired("amount")

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recurring bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.runBillList(list)
		},
	}
	list.bind(listCmd, "next due")

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a bill",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.sync.Bills().Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, deleteCmd)
	return cmd
}

func (c *Cli) runBillAdd(ctx context.Context, in api.BillInput) error {
	created, err := c.sync.Bills().Create(ctx, in)
	if err != nil {
		return err
	}
	c.io.Printf("ID: %s\n", created.ID)
	return nil
}

func (c *Cli) runBillList(f listFlags) error {
	bills := c.sync.Bills().Store().All()
	if len(bills) == 0 {
		c.io.Println("No bills found.")
		return nil
	}

	columns := billColumns(c)
	page, err := table.Apply(bills, columns, f.query(c.pageSize()))
	if err != nil {
		return err
	}
	renderPage(c, "Bills", columns, page)
	return nil
}
