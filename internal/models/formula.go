package models

// FieldType тип поля формулы. От типа зависит, какая часть правила
// стоимости применяется при вычислении цены.
type FieldType string

// Типы полей формулы.
const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeYesNo    FieldType = "yesno"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDropdown FieldType = "dropdown"
)

// AccessLevel уровень доступа к формуле.
type AccessLevel string

// Уровни доступа к формуле.
const (
	AccessAdmin  AccessLevel = "admin"
	AccessUser   AccessLevel = "user"
	AccessPublic AccessLevel = "public"
)

// FieldOption вариант значения для поля типа dropdown.
type FieldOption struct {
	Value string `json:"value" validate:"required"` // Значение варианта
	Label string `json:"label"`                     // Подпись варианта
	Cost  int    `json:"cost"`                      // Стоимость выбора варианта
}

// FormulaField описывает одно поле формулы ценообразования.
//
// Структура — размеченное объединение по полю Type: для text/textarea
// действует Cost, для number — Cost за единицу и необязательный CostIfZero,
// для yesno/checkbox — CostYes/CostNo, для dropdown — стоимости вариантов.
// Поля неизвестного типа в стоимость не вносят ничего.
type FormulaField struct {
	Key        string        `json:"key" validate:"required"`  // Уникальный ключ поля внутри формулы
	Label      string        `json:"label"`                    // Подпись поля на форме
	Type       FieldType     `json:"type" validate:"required"` // Тип поля
	Cost       int           `json:"cost"`                     // Базовая стоимость (text/textarea/number)
	CostIfZero *int          `json:"cost_if_zero,omitempty"`   // Стоимость при нуле для number
	CostYes    int           `json:"cost_yes"`                 // Стоимость при значении "да"
	CostNo     int           `json:"cost_no"`                  // Стоимость при значении "нет"
	Options    []FieldOption `json:"options,omitempty"`        // Варианты для dropdown
}

// Formula представляет правило ценообразования, составленное администратором.
// Итоговая стоимость заказа — BasePrice плюс вклад каждого поля,
// списывается в очках категории Category.
type Formula struct {
	ID        int            // Идентификатор формулы
	Name      string         // Название формулы
	BasePrice int            // Базовая стоимость в очках
	Category  Category       // Категория очков для списания
	Fields    []FormulaField // Упорядоченный список полей
	Access    AccessLevel    // Уровень доступа: admin, user или public
}

// DummyFormula используется для приёма определения формулы из JSON-запроса.
type DummyFormula struct {
	Name      string         `json:"name" validate:"required"`
	BasePrice int            `json:"base_price" validate:"gte=0"`
	Category  string         `json:"category" validate:"required,oneof=editing recording design consulting"`
	Access    string         `json:"access" validate:"required,oneof=admin user public"`
	Fields    []FormulaField `json:"fields" validate:"dive"`
}

// DummyEvaluate используется для приёма значений полей при расчёте цены.
type DummyEvaluate struct {
	Values map[string]any `json:"values" validate:"required"`
}
