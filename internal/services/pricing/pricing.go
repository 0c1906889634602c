// Package pricing реализует вычисление стоимости заказа по формуле.
//
// Вычислитель чистый и работает только на сервере: итоговая сумма
// к списанию всегда пересчитывается из определения формулы и отправленных
// значений, присланной клиентом сумме сервер не доверяет.
package pricing

import (
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// Evaluate вычисляет итоговую стоимость формулы для отправленных значений
// и возвращает её вместе с построчной разбивкой по полям.
// Разбивка сохраняется в заказе как неизменяемый снимок.
//
// Правила по типам полей:
//   - text/textarea: Cost, если значение непустое;
//   - number: CostIfZero при нуле (если задан), иначе value*Cost при value > 0;
//   - yesno/checkbox: CostYes при истине, CostNo при лжи;
//   - dropdown: стоимость выбранного варианта.
//
// Неизвестные типы полей и отсутствующие значения дают нулевой вклад.
func Evaluate(f *models.Formula, values map[string]any) (int, []models.OrderItem) {
	total := f.BasePrice
	items := make([]models.OrderItem, 0, len(f.Fields))

	for _, field := range f.Fields {
		value, ok := values[field.Key]
		cost := 0
		if ok {
			cost = fieldCost(field, value)
		}
		total += cost
		items = append(items, models.OrderItem{
			Key:   field.Key,
			Label: field.Label,
			Value: value,
			Cost:  cost,
		})
	}
	return total, items
}

func fieldCost(field models.FormulaField, value any) int {
	switch field.Type {
	case models.FieldTypeText, models.FieldTypeTextarea:
		if s, ok := value.(string); ok && s != "" {
			return field.Cost
		}
		return 0
	case models.FieldTypeNumber:
		n, ok := asNumber(value)
		if !ok {
			return 0
		}
		if n == 0 && field.CostIfZero != nil {
			return *field.CostIfZero
		}
		if n > 0 {
			return n * field.Cost
		}
		return 0
	case models.FieldTypeYesNo, models.FieldTypeCheckbox:
		if b, ok := asBool(value); ok {
			if b {
				return field.CostYes
			}
			return field.CostNo
		}
		return 0
	case models.FieldTypeDropdown:
		s, ok := value.(string)
		if !ok {
			return 0
		}
		for _, opt := range field.Options {
			if opt.Value == s {
				return opt.Cost
			}
		}
		return 0
	}
	return 0
}

// asNumber приводит значение из JSON к целому числу.
// encoding/json отдаёт числа как float64, но прямые вызовы могут передавать int.
func asNumber(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// asBool приводит значение к bool; yesno-поля с форм присылают и строки "yes"/"no".
func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "yes", "true":
			return true, true
		case "no", "false":
			return false, true
		}
	}
	return false, false
}
