// Package order содержит бизнес-логику оформления и сопровождения заказов.
//
// Сумма к списанию всегда вычисляется на сервере из определения формулы
// и отправленных значений; списание очков и вставка заказа выполняются
// хранилищем в одной транзакции.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
	"github.com/magabrotheeeer/points-marketplace/internal/services/formula"
	"github.com/magabrotheeeer/points-marketplace/internal/services/pricing"
)

// ErrFormulaNotAvailable возвращается при попытке заказа по формуле,
// недоступной роли пользователя.
var ErrFormulaNotAvailable = errors.New("formula is not available")

// ErrInvalidTransition возвращается при недопустимом переходе статуса заказа.
var ErrInvalidTransition = errors.New("invalid status transition")

// FormulaProvider отдаёт определения формул (с кешем поверх хранилища).
type FormulaProvider interface {
	Read(ctx context.Context, id int) (*models.Formula, error)
}

// OrderRepository определяет методы для работы с заказами в хранилище.
type OrderRepository interface {
	// CreateFormulaOrder списывает очки и вставляет заказ по формуле одной транзакцией.
	CreateFormulaOrder(ctx context.Context, order models.FormulaOrder) (int, error)
	// CreateServiceOrder списывает очки и вставляет заказ услуги одной транзакцией.
	CreateServiceOrder(ctx context.Context, order models.ServiceOrder) (int, error)
	// ListFormulaOrders возвращает заказы по формулам; пустой userUID — по всем пользователям.
	ListFormulaOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.FormulaOrder, error)
	// ListServiceOrders возвращает заказы услуг выбранного вида.
	ListServiceOrders(ctx context.Context, kind models.OrderKind, userUID string, limit, offset int) ([]*models.ServiceOrder, error)
	// GetOrderStatus возвращает текущий статус заказа.
	GetOrderStatus(ctx context.Context, kind models.OrderKind, id int) (string, error)
	// UpdateOrderStatus сохраняет новый статус заказа.
	UpdateOrderStatus(ctx context.Context, kind models.OrderKind, id int, status string) (int, error)
	// UpdateOrderNotes сохраняет заметки администратора по заказу.
	UpdateOrderNotes(ctx context.Context, kind models.OrderKind, id int, notes string) (int, error)
}

// Service реализует бизнес-логику заказов.
type Service struct {
	formulas FormulaProvider
	repo     OrderRepository
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(formulas FormulaProvider, repo OrderRepository, log *slog.Logger) *Service {
	return &Service{
		formulas: formulas,
		repo:     repo,
		log:      log,
	}
}

// CreateFormulaOrder оформляет заказ по формуле: вычисляет стоимость,
// списывает очки и сохраняет заказ со снимком заполненных полей.
// Возвращает ID заказа и списанную сумму.
func (s *Service) CreateFormulaOrder(ctx context.Context, userUID, role string, req models.DummyFormulaOrder) (int, int, error) {
	f, err := s.formulas.Read(ctx, req.FormulaID)
	if err != nil {
		return 0, 0, err
	}
	if !formula.CanUse(f, role) {
		return 0, 0, ErrFormulaNotAvailable
	}

	total, items := pricing.Evaluate(f, req.Values)
	order := models.FormulaOrder{
		UserUID:     userUID,
		FormulaID:   f.ID,
		Category:    f.Category,
		TotalPoints: total,
		Items:       items,
		Status:      models.OrderStatusReceived,
	}

	id, err := s.repo.CreateFormulaOrder(ctx, order)
	if err != nil {
		return 0, 0, err
	}
	s.log.Info("created formula order",
		slog.Int("id", id),
		slog.Int("formula_id", f.ID),
		slog.Int("total_points", total))
	return id, total, nil
}

// CreateServiceOrder оформляет заказ типовой услуги (vlog/tiktok/thumbnail/recording)
// по назначенной услуге формуле ценообразования.
func (s *Service) CreateServiceOrder(ctx context.Context, userUID, role string, req models.DummyServiceOrder) (int, int, error) {
	kind, ok := models.ParseOrderKind(req.Kind)
	if !ok || kind == models.OrderKindFormula {
		return 0, 0, fmt.Errorf("unknown service kind: %q", req.Kind)
	}

	f, err := s.formulas.Read(ctx, req.FormulaID)
	if err != nil {
		return 0, 0, err
	}
	if !formula.CanUse(f, role) {
		return 0, 0, ErrFormulaNotAvailable
	}

	total, _ := pricing.Evaluate(f, req.Values)
	order := models.ServiceOrder{
		UserUID:     userUID,
		Kind:        kind,
		FormulaID:   f.ID,
		Category:    f.Category,
		TotalPoints: total,
		Details:     req.Details,
		Status:      models.OrderStatusReceived,
	}

	id, err := s.repo.CreateServiceOrder(ctx, order)
	if err != nil {
		return 0, 0, err
	}
	s.log.Info("created service order",
		slog.Int("id", id),
		slog.String("kind", string(kind)),
		slog.Int("total_points", total))
	return id, total, nil
}

// ListFormulaOrders возвращает заказы по формулам в зависимости от роли:
// администратор видит все, пользователь — только свои.
func (s *Service) ListFormulaOrders(ctx context.Context, userUID, role string, limit, offset int) ([]*models.FormulaOrder, error) {
	if role == "admin" {
		userUID = ""
	}
	return s.repo.ListFormulaOrders(ctx, userUID, limit, offset)
}

// ListServiceOrders возвращает заказы услуг выбранного вида в зависимости от роли.
func (s *Service) ListServiceOrders(ctx context.Context, kind models.OrderKind, userUID, role string, limit, offset int) ([]*models.ServiceOrder, error) {
	if role == "admin" {
		userUID = ""
	}
	return s.repo.ListServiceOrders(ctx, kind, userUID, limit, offset)
}

// UpdateStatus переводит заказ в новый статус, проверяя допустимость перехода.
func (s *Service) UpdateStatus(ctx context.Context, kind models.OrderKind, id int, status string) (int, error) {
	if !models.IsValidOrderStatus(status) {
		return 0, fmt.Errorf("unknown order status: %q", status)
	}
	current, err := s.repo.GetOrderStatus(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	if !models.IsValidTransition(current, status) {
		return 0, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	count, err := s.repo.UpdateOrderStatus(ctx, kind, id, status)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated order status",
		slog.String("kind", string(kind)),
		slog.Int("id", id),
		slog.String("status", status))
	return count, nil
}

// UpdateNotes сохраняет заметки администратора по заказу.
func (s *Service) UpdateNotes(ctx context.Context, kind models.OrderKind, id int, notes string) (int, error) {
	return s.repo.UpdateOrderNotes(ctx, kind, id, notes)
}
