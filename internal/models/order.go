package models

import "time"

// Статусы заказов. Хранятся в исходном виде, как их показывает дашборд;
// переходы выполняет только администратор через endpoint смены статуса.
const (
	OrderStatusReceived   = "Приета"
	OrderStatusInProgress = "В изпълнение"
	OrderStatusCompleted  = "Завършена"
	OrderStatusCancelled  = "Отказана"
)

// IsValidOrderStatus проверяет, что строка — известный статус заказа.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusReceived, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidTransition проверяет допустимость перехода статуса заказа.
// Автоматических переходов нет: Приета -> В изпълнение -> Завършена | Отказана.
// Отказать заказ можно из любого незавершённого состояния.
func IsValidTransition(from, to string) bool {
	switch from {
	case OrderStatusReceived:
		return to == OrderStatusInProgress || to == OrderStatusCancelled
	case OrderStatusInProgress:
		return to == OrderStatusCompleted || to == OrderStatusCancelled
	}
	return false
}

// OrderKind вид заказа: по формуле или одна из типовых услуг.
type OrderKind string

// Виды заказов.
const (
	OrderKindFormula   OrderKind = "formula"
	OrderKindVlog      OrderKind = "vlog"
	OrderKindTikTok    OrderKind = "tiktok"
	OrderKindThumbnail OrderKind = "thumbnail"
	OrderKindRecording OrderKind = "recording"
)

// ParseOrderKind проверяет строку и возвращает вид заказа.
func ParseOrderKind(s string) (OrderKind, bool) {
	switch OrderKind(s) {
	case OrderKindFormula, OrderKindVlog, OrderKindTikTok, OrderKindThumbnail, OrderKindRecording:
		return OrderKind(s), true
	}
	return "", false
}

// OrderItem снимок одного заполненного поля формулы на момент заказа.
// Снимок неизменяем и не зависит от последующих правок формулы.
type OrderItem struct {
	Key   string `json:"key"`   // Ключ поля
	Label string `json:"label"` // Подпись поля
	Value any    `json:"value"` // Отправленное значение
	Cost  int    `json:"cost"`  // Вклад поля в стоимость
}

// FormulaOrder заказ, оформленный по формуле ценообразования.
type FormulaOrder struct {
	ID          int         // Идентификатор заказа
	UserUID     string      // Заказчик
	FormulaID   int         // Формула, по которой считалась цена
	Category    Category    // Категория списанных очков
	TotalPoints int         // Сколько очков списано
	Items       []OrderItem // Снимок заполненных полей
	Status      string      // Текущий статус заказа
	AdminNotes  string      // Заметки администратора
	CreatedAt   time.Time   // Дата оформления
}

// ServiceOrder заказ типовой услуги (vlog/tiktok/thumbnail/recording).
// Таблицы заказов по видам услуг параллельны и имеют общую форму.
type ServiceOrder struct {
	ID          int       // Идентификатор заказа
	UserUID     string    // Заказчик
	Kind        OrderKind // Вид услуги
	FormulaID   int       // Формула, по которой считалась цена
	Category    Category  // Категория списанных очков
	TotalPoints int       // Сколько очков списано
	Details     string    // Описание задания от заказчика
	Status      string    // Текущий статус заказа
	AdminNotes  string    // Заметки администратора
	CreatedAt   time.Time // Дата оформления
}

// PointsOrder запись о покупке пакета очков.
type PointsOrder struct {
	ID        int       // Идентификатор записи
	UserUID   string    // Покупатель
	PackageID int       // Созданный пакет
	Price     float64   // Цена покупки
	Status    string    // Статус покупки
	CreatedAt time.Time // Дата покупки
}

// DummyFormulaOrder используется для приёма заказа по формуле из JSON-запроса.
// Суммы к списанию в запросе нет: сервер сам вычисляет стоимость
// по формуле и отправленным значениям.
type DummyFormulaOrder struct {
	FormulaID int            `json:"formula_id" validate:"required,gt=0"`
	Values    map[string]any `json:"values" validate:"required"`
}

// DummyServiceOrder используется для приёма заказа типовой услуги.
type DummyServiceOrder struct {
	Kind      string         `json:"kind" validate:"required,oneof=vlog tiktok thumbnail recording"`
	FormulaID int            `json:"formula_id" validate:"required,gt=0"`
	Values    map[string]any `json:"values" validate:"required"`
	Details   string         `json:"details"`
}

// DummyStatusUpdate используется администратором для смены статуса заказа.
type DummyStatusUpdate struct {
	Kind   string `json:"kind" validate:"required,oneof=formula vlog tiktok thumbnail recording"`
	Status string `json:"status" validate:"required"`
}

// DummyNotesUpdate используется администратором для правки заметок заказа.
type DummyNotesUpdate struct {
	Kind  string `json:"kind" validate:"required,oneof=formula vlog tiktok thumbnail recording"`
	Notes string `json:"notes"`
}
