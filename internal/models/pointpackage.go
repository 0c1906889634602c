package models

import (
	"fmt"
	"time"
)

// Category тип категории очков. Каждая услуга маркетплейса
// списывает очки строго своей категории.
type Category string

// Категории очков.
const (
	CategoryEditing    Category = "editing"
	CategoryRecording  Category = "recording"
	CategoryDesign     Category = "design"
	CategoryConsulting Category = "consulting"
)

// AllCategories возвращает список всех категорий очков в фиксированном порядке.
func AllCategories() []Category {
	return []Category{CategoryEditing, CategoryRecording, CategoryDesign, CategoryConsulting}
}

// ParseCategory проверяет строку и возвращает категорию очков.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryEditing, CategoryRecording, CategoryDesign, CategoryConsulting:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown point category: %q", s)
}

// PackageStatus статус пакета очков.
type PackageStatus string

// Статусы пакета очков.
const (
	PackageStatusActive         PackageStatus = "Active"
	PackageStatusUsed           PackageStatus = "Used"
	PackageStatusExpired        PackageStatus = "Expired"
	PackageStatusCancelled      PackageStatus = "Cancelled"
	PackageStatusPendingPayment PackageStatus = "PendingPayment"
)

// PointPackage представляет купленный или выданный администратором пакет очков.
//
// Пакет пригоден к списанию по категории, если его статус Active,
// срок жизни (created_at + lifespan_days) ещё не истёк и баланс категории больше нуля.
// Поле Description накапливает человекочитаемые строки аудита:
// каждое списание и каждая корректировка администратора дописывают свою строку.
type PointPackage struct {
	ID               int           // Идентификатор пакета
	UserUID          string        // Владелец пакета
	EditingPoints    int           // Баланс очков монтажа
	RecordingPoints  int           // Баланс очков записи
	DesignPoints     int           // Баланс очков дизайна
	ConsultingPoints int           // Баланс очков консультаций
	CreatedAt        time.Time     // Дата создания пакета
	LifespanDays     int           // Срок жизни пакета в днях
	Status           PackageStatus // Статус пакета
	Price            float64       // Цена покупки пакета
	Description      string        // Журнал аудита в свободной форме
}

// ExpiresAt возвращает момент истечения срока жизни пакета.
func (p *PointPackage) ExpiresAt() time.Time {
	return p.CreatedAt.AddDate(0, 0, p.LifespanDays)
}

// IsExpired сообщает, истёк ли срок жизни пакета на момент now.
func (p *PointPackage) IsExpired(now time.Time) bool {
	return p.ExpiresAt().Before(now)
}

// Balance возвращает баланс пакета по категории очков.
func (p *PointPackage) Balance(c Category) int {
	switch c {
	case CategoryEditing:
		return p.EditingPoints
	case CategoryRecording:
		return p.RecordingPoints
	case CategoryDesign:
		return p.DesignPoints
	case CategoryConsulting:
		return p.ConsultingPoints
	}
	return 0
}

// SetBalance устанавливает баланс пакета по категории очков.
func (p *PointPackage) SetBalance(c Category, v int) {
	switch c {
	case CategoryEditing:
		p.EditingPoints = v
	case CategoryRecording:
		p.RecordingPoints = v
	case CategoryDesign:
		p.DesignPoints = v
	case CategoryConsulting:
		p.ConsultingPoints = v
	}
}

// IsUsable сообщает, можно ли списывать очки категории c из пакета на момент now.
func (p *PointPackage) IsUsable(c Category, now time.Time) bool {
	return p.Status == PackageStatusActive && !p.IsExpired(now) && p.Balance(c) > 0
}

// DummyPackage используется для приёма данных покупки пакета из JSON-запроса.
type DummyPackage struct {
	EditingPoints    int     `json:"editing_points" validate:"gte=0"`
	RecordingPoints  int     `json:"recording_points" validate:"gte=0"`
	DesignPoints     int     `json:"design_points" validate:"gte=0"`
	ConsultingPoints int     `json:"consulting_points" validate:"gte=0"`
	LifespanDays     int     `json:"lifespan_days" validate:"required,gt=0"`
	Price            float64 `json:"price" validate:"gte=0"`
	Description      string  `json:"description"`
}

// DummyPackageUpdate используется администратором для правки пакета.
type DummyPackageUpdate struct {
	LifespanDays int     `json:"lifespan_days" validate:"required,gt=0"`
	Status       string  `json:"status" validate:"required,oneof=Active Used Expired Cancelled PendingPayment"`
	Price        float64 `json:"price" validate:"gte=0"`
}

// DummyAdjust используется администратором для корректировки баланса пакета.
// Delta может быть отрицательной; баланс не может уйти ниже нуля.
type DummyAdjust struct {
	Category string `json:"category" validate:"required,oneof=editing recording design consulting"`
	Delta    int    `json:"delta" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// PackageExpiryInfo данные для уведомления владельца об истекающем пакете.
type PackageExpiryInfo struct {
	Email     string    // Почта владельца
	Username  string    // Имя владельца
	PackageID int       // Идентификатор пакета
	ExpiresAt time.Time // Момент истечения срока жизни
}
