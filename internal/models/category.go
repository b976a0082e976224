package models

import (
	"time"

	"github.com/iudanet/finkeeper/pkg/api"
)

// DefaultCategoryColor цвет категории, если пользователь его не указал
const DefaultCategoryColor = "#6b7280"

// Category представляет категорию расходов или доходов
type Category struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Kind      Kind      `json:"kind"`
}

// GetID возвращает идентификатор категории
func (c Category) GetID() string { return c.ID }

// Touched возвращает копию с обновленным UpdatedAt
func (c Category) Touched(at time.Time) Category {
	c.UpdatedAt = at
	return c
}

// NewCategory собирает категорию из входных данных
func NewCategory(id, owner string, in api.CategoryInput, at time.Time) Category {
	c := Category{
		ID:        id,
		UserID:    owner,
		Name:      in.Name,
		Color:     in.Color,
		Kind:      Kind(in.Kind),
		CreatedAt: at,
		UpdatedAt: at,
	}
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
	if c.Kind == "" {
		c.Kind = KindExpense
	}
	return c
}
