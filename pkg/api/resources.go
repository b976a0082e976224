package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Пути REST ресурсов относительно /api/v1
const (
	ResourceExpenses   = "expenses"
	ResourceCategories = "categories"
	ResourceBudgets    = "budgets"
	ResourceBills      = "bills"
)

// UserHeader передает идентификатор владельца записей.
// Аутентификации нет, сервер доверяет заголовку.
const UserHeader = "X-User-ID"

// Коды ошибок в ErrorResponse.Error
const (
	ErrCodeInvalidJSON      = "invalid_json"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeNotFound         = "not_found"
	ErrCodeMissingUser      = "missing_user"
	ErrCodeInternal         = "internal_error"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse ответ на /api/v1/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ExpenseInput данные для создания расхода или дохода
type ExpenseInput struct {
	Date          time.Time       `json:"date"`                     // дата операции
	Amount        decimal.Decimal `json:"amount"`                   // сумма, всегда положительная
	Kind          string          `json:"kind"`                     // "expense" или "income"
	Currency      string          `json:"currency"`                 // ISO 4217, например "USD"
	Category      string          `json:"category"`                 // название категории
	Merchant      string          `json:"merchant"`                 // продавец или источник дохода
	Note          string          `json:"note,omitempty"`           // заметка
	TaxDeductible bool            `json:"tax_deductible,omitempty"` // учитывается в налоговом отчете
}

// CategoryInput данные для создания категории
type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"` // hex цвет, например "#ff8800"
	Kind  string `json:"kind"`            // "expense" или "income"
}

// BudgetInput данные для создания бюджета
type BudgetInput struct {
	StartDate time.Time       `json:"start_date"`
	Amount    decimal.Decimal `json:"amount"` // лимит на период
	Category  string          `json:"category"`
	Period    string          `json:"period"` // "weekly", "monthly" или "yearly"
}

// BillInput данные для создания регулярного платежа или подписки
type BillInput struct {
	NextDue   time.Time       `json:"next_due"`
	Amount    decimal.Decimal `json:"amount"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Frequency string          `json:"frequency"` // "weekly", "monthly", "quarterly" или "yearly"
	AutoPay   bool            `json:"auto_pay"`
}
