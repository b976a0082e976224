package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/optimistic"
	"github.com/iudanet/finkeeper/pkg/api"
)

// Resource реализует optimistic.Gateway поверх REST ресурса /api/v1/{name}
type Resource[T optimistic.Entity, In any] struct {
	client *Client
	name   string
}

var _ optimistic.Gateway[models.Expense, api.ExpenseInput] = (*Resource[models.Expense, api.ExpenseInput])(nil)

// NewResource создает шлюз для ресурса name
func NewResource[T optimistic.Entity, In any](client *Client, name string) *Resource[T, In] {
	return &Resource[T, In]{client: client, name: name}
}

// Name возвращает имя ресурса
func (r *Resource[T, In]) Name() string {
	return r.name
}

// List возвращает все записи ресурса
func (r *Resource[T, In]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.doRequest(ctx, http.MethodGet, r.collectionPath(), nil, &items); err != nil {
		return nil, fmt.Errorf("list %s failed: %w", r.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create создает запись и возвращает ее с серверным id
func (r *Resource[T, In]) Create(ctx context.Context, in In) (T, error) {
	var created T
	if err := r.client.doRequest(ctx, http.MethodPost, r.collectionPath(), in, &created); err != nil {
		var zero T
		return zero, fmt.Errorf("create %s failed: %w", r.name, err)
	}
	return created, nil
}

// Update заменяет запись и возвращает сохраненное значение
func (r *Resource[T, In]) Update(ctx context.Context, entity T) (T, error) {
	var updated T
	if err := r.client.doRequest(ctx, http.MethodPut, r.itemPath(entity.GetID()), entity, &updated); err != nil {
		var zero T
		return zero, fmt.Errorf("update %s failed: %w", r.name, err)
	}
	return updated, nil
}

// Delete удаляет запись
func (r *Resource[T, In]) Delete(ctx context.Context, id string) error {
	if err := r.client.doRequest(ctx, http.MethodDelete, r.itemPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete %s failed: %w", r.name, err)
	}
	return nil
}

func (r *Resource[T, In]) collectionPath() string {
	return "/api/v1/" + r.name
}

func (r *Resource[T, In]) itemPath(id string) string {
	return r.collectionPath() + "/" + url.PathEscape(id)
}

// Expenses возвращает шлюз расходов
func (c *Client) Expenses() *Resource[models.Expense, api.ExpenseInput] {
	return NewResource[models.Expense, api.ExpenseInput](c, api.ResourceExpenses)
}

// Categories возвращает шлюз категорий
func (c *Client) Categories() *Resource[models.Category, api.CategoryInput] {
	return NewResource[models.Category, api.CategoryInput](c, api.ResourceCategories)
}

// Budgets возвращает шлюз бюджетов
func (c *Client) Budgets() *Resource[models.Budget, api.BudgetInput] {
	return NewResource[models.Budget, api.BudgetInput](c, api.ResourceBudgets)
}

// Bills возвращает шлюз регулярных платежей
func (c *Client) Bills() *Resource[models.Bill, api.BillInput] {
	return NewResource[models.Bill, api.BillInput](c, api.ResourceBills)
}
