package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/table"
	"github.com/iudanet/finkeeper/internal/validation"
	"github.com/iudanet/finkeeper/pkg/api"
)

func categoryColumns(c *Cli) []table.Column[models.Category] {
	return []table.Column[models.Category]{
		{Name: "name", Value: func(cat models.Category) string { return cat.Name }},
		{Name: "kind", Value: func(cat models.Category) string { return string(cat.Kind) }},
		{Name: "color", Value: func(cat models.Category) string { return cat.Color }},
		{Name: "id", Value: func(cat models.Category) string { return cat.ID }},
		stateColumn(c.sync.Categories().Store()),
	}
}

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "c"},
		Short:   "Manage categories",
	}

	var in api.CategoryInput
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			if err := validation.ValidateCategory(in); err != nil {
				return err
			}
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.runCategoryAdd(cmd.Context(), in)
		},
	}
	addCmd.Flags().StringVar(&in.Color, "color", "", "Hex color, e.g. #ff8800")
	addCmd.Flags().StringVar(&in.Kind, "kind", string(models.KindExpense), "expense or income")

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.runCategoryList(list)
		},
	}
	list.bind(listCmd, "name")

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.ready(cmd.Context())
			if err != nil {
				return err
			}
			return c.sync.Categories().Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, deleteCmd)
	return cmd
}

func (c *Cli) runCategoryAdd(ctx context.Context, in api.CategoryInput) error {
	created, err := c.sync.Categories().Create(ctx, in)
	if err != nil {
		return err
	}
	c.io.Printf("ID: %s\n", created.ID)
	return nil
}

func (c *Cli) runCategoryList(f listFlags) error {
	categories := c.sync.Categories().Store().All()
	if len(categories) == 0 {
		c.io.Println("No categories found.")
		return nil
	}

	columns := categoryColumns(c)
	page, err := table.Apply(categories, columns, f.query(c.pageSize()))
	if err != nil {
		return err
	}
	renderPage(c, "Categories", columns, page)
	return nil
}
