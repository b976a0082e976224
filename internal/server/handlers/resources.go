package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/report"
	"github.com/iudanet/finkeeper/internal/server/storage"
	"github.com/iudanet/finkeeper/internal/validation"
	"github.com/iudanet/finkeeper/pkg/api"
)

// Routes регистрирует health check и CRUD всех ресурсов
func Routes(mux *http.ServeMux, logger *slog.Logger, store storage.RecordStorage, health *HealthHandler) {
	mux.HandleFunc("GET /api/v1/health", health.Health)

	NewResourceHandler(logger, store, ExpenseResource()).Register(mux)
	NewResourceHandler(logger, store, CategoryResource()).Register(mux)
	NewResourceHandler(logger, store, BudgetResource(store, nil)).Register(mux)
	NewResourceHandler(logger, store, BillResource()).Register(mux)
}

// ExpenseResource описывает /api/v1/expenses
func ExpenseResource() ResourceConfig[models.Expense, api.ExpenseInput] {
	return ResourceConfig[models.Expense, api.ExpenseInput]{
		Kind:           api.ResourceExpenses,
		Validate:       validation.ValidateExpense,
		ValidateEntity: validation.ExpenseEntity,
		Build:          models.NewExpense,
		Stamp: func(in, stored models.Expense, at time.Time) models.Expense {
			in.ID, in.UserID, in.CreatedAt, in.UpdatedAt = stored.ID, stored.UserID, stored.CreatedAt, at
			return in
		},
	}
}

// CategoryResource описывает /api/v1/categories
func CategoryResource() ResourceConfig[models.Category, api.CategoryInput] {
	return ResourceConfig[models.Category, api.CategoryInput]{
		Kind:           api.ResourceCategories,
		Validate:       validation.ValidateCategory,
		ValidateEntity: validation.CategoryEntity,
		Build:          models.NewCategory,
		Stamp: func(in, stored models.Category, at time.Time) models.Category {
			in.ID, in.UserID, in.CreatedAt, in.UpdatedAt = stored.ID, stored.UserID, stored.CreatedAt, at
			if in.Color == "" {
				in.Color = models.DefaultCategoryColor
			}
			return in
		},
	}
}

// BudgetResource описывает /api/v1/budgets.
// Spent, Remaining и Status пересчитываются по расходам пользователя на каждый ответ.
// now задает часы для пересчета, nil означает текущее время.
func BudgetResource(store storage.RecordStorage, now func() time.Time) ResourceConfig[models.Budget, api.BudgetInput] {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return ResourceConfig[models.Budget, api.BudgetInput]{
		Kind:           api.ResourceBudgets,
		Validate:       validation.ValidateBudget,
		ValidateEntity: validation.BudgetEntity,
		Build:          models.NewBudget,
		Stamp: func(in, stored models.Budget, at time.Time) models.Budget {
			in.ID, in.UserID, in.CreatedAt, in.UpdatedAt = stored.ID, stored.UserID, stored.CreatedAt, at
			if in.Period == "" {
				in.Period = models.PeriodMonthly
			}
			return in
		},
		Decorate: func(ctx context.Context, userID string, budgets []models.Budget) ([]models.Budget, error) {
			expenses, err := LoadAll[models.Expense](ctx, store, userID, api.ResourceExpenses)
			if err != nil {
				return nil, fmt.Errorf("failed to load expenses: %w", err)
			}
			return report.BudgetUsage(budgets, expenses, now()), nil
		},
	}
}

// BillResource описывает /api/v1/bills
func BillResource() ResourceConfig[models.Bill, api.BillInput] {
	return ResourceConfig[models.Bill, api.BillInput]{
		Kind:           api.ResourceBills,
		Validate:       validation.ValidateBill,
		ValidateEntity: validation.BillEntity,
		Build:          models.NewBill,
		Stamp: func(in, stored models.Bill, at time.Time) models.Bill {
			in.ID, in.UserID, in.CreatedAt, in.UpdatedAt = stored.ID, stored.UserID, stored.CreatedAt, at
			return in
		},
	}
}
