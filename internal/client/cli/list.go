package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/optimistic"
	"github.com/iudanet/finkeeper/internal/table"
)

// listFlags общие флаги команд list
type listFlags struct {
	filters  map[string]string
	search   string
	sortBy   string
	page     int
	pageSize int
	desc     bool
}

func (f *listFlags) bind(cmd *cobra.Command, defaultSort string) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Substring to look for in any column")
	cmd.Flags().StringToStringVarP(&f.filters, "filter", "f", nil, "Exact column match, e.g. --filter category=Food")
	cmd.Flags().StringVar(&f.sortBy, "sort", defaultSort, "Column to sort by")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Rows per page (default from config)")
}

func (f *listFlags) query(defaultSize int) table.Query {
	size := f.pageSize
	if size <= 0 {
		size = defaultSize
	}
	return table.Query{
		Filters:  f.filters,
		Search:   f.search,
		SortBy:   f.sortBy,
		Desc:     f.desc,
		Page:     f.page,
		PageSize: size,
	}
}

// stateColumn показывает записи, ожидающие ответа сервера
func stateColumn[T optimistic.Entity](store *optimistic.Store[T]) table.Column[T] {
	return table.Column[T]{
		Name: "state",
		Value: func(e T) string {
			if st, ok := store.State(e.GetID()); ok && st == optimistic.StatePending {
				return "pending"
			}
			return ""
		},
	}
}

// renderPage выводит страницу как таблицу с колонками columns
func renderPage[T any](c *Cli, title string, columns []table.Column[T], page table.Page[T]) {
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}

	rows := make([][]string, 0, len(page.Items))
	for _, item := range page.Items {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = col.Value(item)
		}
		rows = append(rows, row)
	}

	_, _ = fmt.Fprint(c.io, RenderTable(Table{
		Title:   title,
		Headers: headers,
		Rows:    rows,
	}))
	c.io.Println(Muted("  page %d of %d, %d row(s)", page.Page, max(page.Pages, 1), page.Total))
}
