// Package table implements search, filter, sort and pagination over an
// in-memory list, the way list views present collections.
package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPageSize is used when Query.PageSize is not positive.
const DefaultPageSize = 10

// ErrUnknownColumn is returned when a filter or sort key names no column.
var ErrUnknownColumn = errors.New("unknown column")

// Column extracts a displayable value from a row.
type Column[T any] struct {
	Value func(T) string
	Name  string
}

// Query describes what part of the table to show.
type Query struct {
	Filters  map[string]string // column name -> exact value (case-insensitive)
	Search   string            // substring matched against every column
	SortBy   string
	Desc     bool
	Page     int // 1-based
	PageSize int
}

// Page is one page of the result.
type Page[T any] struct {
	Items    []T
	Total    int // rows matching search and filters
	Page     int
	Pages    int
	PageSize int
}

// Apply runs q over rows. Rows are not modified. Sorting is stable and
// numeric when both values parse as numbers.
func Apply[T any](rows []T, columns []Column[T], q Query) (Page[T], error) {
	byName := make(map[string]Column[T], len(columns))
	for _, c := range columns {
		byName[strings.ToLower(c.Name)] = c
	}

	for name := range q.Filters {
		if _, ok := byName[strings.ToLower(name)]; !ok {
			return Page[T]{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
	}

	var sortCol *Column[T]
	if q.SortBy != "" {
		c, ok := byName[strings.ToLower(q.SortBy)]
		if !ok {
			return Page[T]{}, fmt.Errorf("%w: %s", ErrUnknownColumn, q.SortBy)
		}
		sortCol = &c
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		if matches(row, columns, byName, search, q.Filters) {
			matched = append(matched, row)
		}
	}

	if sortCol != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(sortCol.Value(matched[i]), sortCol.Value(matched[j]))
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	return paginate(matched, q.Page, q.PageSize), nil
}

func matches[T any](row T, columns []Column[T], byName map[string]Column[T], search string, filters map[string]string) bool {
	for name, want := range filters {
		if want == "" {
			continue
		}
		if !strings.EqualFold(byName[strings.ToLower(name)].Value(row), want) {
			return false
		}
	}

	if search == "" {
		return true
	}
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c.Value(row)), search) {
			return true
		}
	}
	return false
}

// compare сравнивает числа как числа, остальное как строки без учета регистра
func compare(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA == nil && errB == nil {
		return da.Cmp(db)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func paginate[T any](rows []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(rows) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}

	items := make([]T, end-start)
	copy(items, rows[start:end])

	return Page[T]{
		Items:    items,
		Total:    len(rows),
		Page:     page,
		Pages:    pages,
		PageSize: size,
	}
}
