package validation

import (
	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/pkg/api"
)

// Проверки полных записей, приходящих в PUT. Правила те же, что и для создания.

func ExpenseEntity(e models.Expense) error {
	return ValidateExpense(api.ExpenseInput{
		Date:          e.Date,
		Amount:        e.Amount,
		Kind:          string(e.Kind),
		Currency:      e.Currency,
		Category:      e.Category,
		Merchant:      e.Merchant,
		Note:          e.Note,
		TaxDeductible: e.TaxDeductible,
	})
}

func CategoryEntity(c models.Category) error {
	return ValidateCategory(api.CategoryInput{Name: c.Name, Color: c.Color, Kind: string(c.Kind)})
}

func BudgetEntity(b models.Budget) error {
	return ValidateBudget(api.BudgetInput{
		StartDate: b.StartDate,
		Amount:    b.Amount,
		Category:  b.Category,
		Period:    string(b.Period),
	})
}

func BillEntity(b models.Bill) error {
	return ValidateBill(api.BillInput{
		NextDue:   b.NextDue,
		Amount:    b.Amount,
		Name:      b.Name,
		Category:  b.Category,
		Frequency: string(b.Frequency),
		AutoPay:   b.AutoPay,
	})
}
