package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

func TestEvaluate(t *testing.T) {
	zeroCost := 4

	formula := &models.Formula{
		ID:        1,
		Name:      "Монтаж влога",
		BasePrice: 10,
		Category:  models.CategoryEditing,
		Fields: []models.FormulaField{
			{Key: "subtitles", Label: "Субтитры", Type: models.FieldTypeYesNo, CostYes: 5, CostNo: 0},
			{Key: "minutes", Label: "Хронометраж", Type: models.FieldTypeNumber, Cost: 2, CostIfZero: &zeroCost},
			{Key: "brief", Label: "Бриф", Type: models.FieldTypeText, Cost: 3},
			{Key: "quality", Label: "Качество", Type: models.FieldTypeDropdown, Options: []models.FieldOption{
				{Value: "hd", Label: "HD", Cost: 0},
				{Value: "4k", Label: "4K", Cost: 7},
			}},
		},
	}

	cases := []struct {
		name      string
		values    map[string]any
		wantTotal int
	}{
		{
			name: "все поля заполнены",
			values: map[string]any{
				"subtitles": true,
				"minutes":   float64(3),
				"brief":     "смонтировать под музыку",
				"quality":   "4k",
			},
			wantTotal: 10 + 5 + 6 + 3 + 7,
		},
		{
			name: "ноль в числовом поле берёт cost_if_zero",
			values: map[string]any{
				"minutes": float64(0),
			},
			wantTotal: 10 + 4,
		},
		{
			name: "пустая строка не вносит стоимости",
			values: map[string]any{
				"brief": "",
			},
			wantTotal: 10,
		},
		{
			name:      "отсутствующие значения дают нулевой вклад",
			values:    map[string]any{},
			wantTotal: 10,
		},
		{
			name: "строковое yes приводится к истине",
			values: map[string]any{
				"subtitles": "yes",
			},
			wantTotal: 10 + 5,
		},
		{
			name: "неизвестный вариант dropdown не вносит стоимости",
			values: map[string]any{
				"quality": "8k",
			},
			wantTotal: 10,
		},
		{
			name: "число типа int тоже принимается",
			values: map[string]any{
				"minutes": 5,
			},
			wantTotal: 10 + 10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total, items := Evaluate(formula, tc.values)
			assert.Equal(t, tc.wantTotal, total)
			require.Len(t, items, len(formula.Fields))
		})
	}
}

func TestEvaluate_ItemsSnapshot(t *testing.T) {
	formula := &models.Formula{
		BasePrice: 1,
		Fields: []models.FormulaField{
			{Key: "subtitles", Label: "Субтитры", Type: models.FieldTypeYesNo, CostYes: 5},
			{Key: "brief", Label: "Бриф", Type: models.FieldTypeText, Cost: 3},
		},
	}

	total, items := Evaluate(formula, map[string]any{"subtitles": true})
	assert.Equal(t, 6, total)
	require.Len(t, items, 2)
	assert.Equal(t, models.OrderItem{Key: "subtitles", Label: "Субтитры", Value: true, Cost: 5}, items[0])
	assert.Equal(t, models.OrderItem{Key: "brief", Label: "Бриф", Value: nil, Cost: 0}, items[1])
}

func TestEvaluate_CheckboxFalseUsesCostNo(t *testing.T) {
	formula := &models.Formula{
		BasePrice: 0,
		Fields: []models.FormulaField{
			{Key: "rush", Type: models.FieldTypeCheckbox, CostYes: 10, CostNo: 2},
		},
	}

	total, _ := Evaluate(formula, map[string]any{"rush": false})
	assert.Equal(t, 2, total)
}
