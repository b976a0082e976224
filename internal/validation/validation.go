package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/pkg/api"
)

// CurrencyPattern код валюты ISO 4217: три заглавные латинские буквы
var CurrencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ColorPattern hex цвет категории: #rgb или #rrggbb
var ColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

const (
	// MaxNameLen максимальная длина названий (категория, продавец, платеж)
	MaxNameLen = 100
	// MaxNoteLen максимальная длина заметки
	MaxNoteLen = 1000
)

// ErrInvalid оборачивает все ошибки валидации
var ErrInvalid = errors.New("validation failed")

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, a...))
}

// ValidateAmount проверяет, что сумма строго положительна
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount must be positive")
	}
	return nil
}

// ValidateCurrency проверяет код валюты. Пустой код допустим: используется валюта по умолчанию.
func ValidateCurrency(code string) error {
	if code == "" {
		return nil
	}
	if !CurrencyPattern.MatchString(code) {
		return invalid("currency must be a 3-letter ISO 4217 code, got %q", code)
	}
	return nil
}

func validateName(field, value string, required bool) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return invalid("%s cannot be empty", field)
		}
		return nil
	}
	if len(value) > MaxNameLen {
		return invalid("%s must not exceed %d characters", field, MaxNameLen)
	}
	return nil
}

// ValidateExpense проверяет данные расхода или дохода
func ValidateExpense(in api.ExpenseInput) error {
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if in.Kind != "" && !models.Kind(in.Kind).Valid() {
		return invalid("kind must be expense or income, got %q", in.Kind)
	}
	if err := ValidateCurrency(in.Currency); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return invalid("date is required")
	}
	if err := validateName("merchant", in.Merchant, false); err != nil {
		return err
	}
	if err := validateName("category", in.Category, false); err != nil {
		return err
	}
	if len(in.Note) > MaxNoteLen {
		return invalid("note must not exceed %d characters", MaxNoteLen)
	}
	return nil
}

// ValidateCategory проверяет данные категории
func ValidateCategory(in api.CategoryInput) error {
	if err := validateName("name", in.Name, true); err != nil {
		return err
	}
	if in.Color != "" && !ColorPattern.MatchString(in.Color) {
		return invalid("color must be a hex value like #ff8800, got %q", in.Color)
	}
	if in.Kind != "" && !models.Kind(in.Kind).Valid() {
		return invalid("kind must be expense or income, got %q", in.Kind)
	}
	return nil
}

// ValidateBudget проверяет данные бюджета
func ValidateBudget(in api.BudgetInput) error {
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if err := validateName("category", in.Category, true); err != nil {
		return err
	}
	if in.Period != "" && !models.Period(in.Period).Valid() {
		return invalid("period must be weekly, monthly or yearly, got %q", in.Period)
	}
	return nil
}

// ValidateBill проверяет данные регулярного платежа
func ValidateBill(in api.BillInput) error {
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if err := validateName("name", in.Name, true); err != nil {
		return err
	}
	if err := validateName("category", in.Category, false); err != nil {
		return err
	}
	if in.Frequency != "" && !models.Frequency(in.Frequency).Valid() {
		return invalid("frequency must be weekly, monthly, quarterly or yearly, got %q", in.Frequency)
	}
	if in.NextDue.IsZero() {
		return invalid("next due date is required")
	}
	return nil
}
