package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iudanet/finkeeper/pkg/api"
)

// OptimisticOwner владелец записи, которую сервер еще не подтвердил
const OptimisticOwner = "optimistic"

// Kind тип денежной операции
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Valid сообщает, известен ли тип операции
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Expense представляет расход или доход пользователя
type Expense struct {
	Date          time.Time       `json:"date"`           // Date дата операции
	CreatedAt     time.Time       `json:"created_at"`     // CreatedAt время создания записи
	UpdatedAt     time.Time       `json:"updated_at"`     // UpdatedAt время последнего обновления
	Amount        decimal.Decimal `json:"amount"`         // Amount сумма, всегда положительная
	ID            string          `json:"id"`             // ID уникальный идентификатор (UUID или temp-...)
	UserID        string          `json:"user_id"`        // UserID владелец записи
	Kind          Kind            `json:"kind"`           // Kind expense или income
	Currency      string          `json:"currency"`       // Currency код валюты ISO 4217
	Category      string          `json:"category"`       // Category название категории
	Merchant      string          `json:"merchant"`       // Merchant продавец или источник дохода
	Note          string          `json:"note,omitempty"` // Note заметка
	TaxDeductible bool            `json:"tax_deductible"` // TaxDeductible учитывается в налоговом отчете
}

// GetID возвращает идентификатор записи
func (e Expense) GetID() string { return e.ID }

// Signed возвращает сумму со знаком: доход положительный, расход отрицательный
func (e Expense) Signed() decimal.Decimal {
	if e.Kind == KindIncome {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Touched возвращает копию с обновленным UpdatedAt
func (e Expense) Touched(at time.Time) Expense {
	e.UpdatedAt = at
	return e
}

// NewExpense собирает запись из входных данных.
// Используется сервером для подтвержденных записей и клиентом для оптимистичных.
func NewExpense(id, owner string, in api.ExpenseInput, at time.Time) Expense {
	kind := Kind(in.Kind)
	if kind == "" {
		kind = KindExpense
	}
	return Expense{
		ID:            id,
		UserID:        owner,
		Kind:          kind,
		Amount:        in.Amount,
		Currency:      in.Currency,
		Category:      in.Category,
		Merchant:      in.Merchant,
		Note:          in.Note,
		Date:          in.Date,
		TaxDeductible: in.TaxDeductible,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}
