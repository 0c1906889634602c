// Package pointpackage содержит бизнес-логику управления пакетами очков:
// покупку, корректировки администратора, правку и удаление.
package pointpackage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// ErrAdjustRejected возвращается, когда корректировка увела бы баланс ниже нуля
// или пакет не существует.
var ErrAdjustRejected = errors.New("adjustment rejected")

// PackageRepository определяет методы для работы с пакетами очков в хранилище.
type PackageRepository interface {
	// CreatePackage добавляет новый пакет и возвращает его ID.
	CreatePackage(ctx context.Context, pkg models.PointPackage) (int, error)
	// ReadPackage возвращает пакет по ID.
	ReadPackage(ctx context.Context, id int) (*models.PointPackage, error)
	// ListPackagesByUser возвращает все пакеты пользователя.
	ListPackagesByUser(ctx context.Context, userUID string) ([]*models.PointPackage, error)
	// ListAllPackages возвращает все пакеты с пагинацией.
	ListAllPackages(ctx context.Context, limit, offset int) ([]*models.PointPackage, error)
	// UpdatePackage обновляет срок жизни, статус и цену пакета.
	UpdatePackage(ctx context.Context, id int, req models.DummyPackageUpdate) (int, error)
	// RemovePackage удаляет пакет по ID.
	RemovePackage(ctx context.Context, id int) (int, error)
	// AdjustPackagePoints корректирует баланс категории и дописывает строку аудита.
	AdjustPackagePoints(ctx context.Context, id int, category models.Category, delta int, auditLine string) (int, error)
	// CreatePointsOrder вставляет запись о покупке пакета.
	CreatePointsOrder(ctx context.Context, po models.PointsOrder) (int, error)
	// ListPointsOrders возвращает записи о покупках пакетов.
	ListPointsOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.PointsOrder, error)
}

// Service реализует бизнес-логику пакетов очков.
type Service struct {
	repo PackageRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo PackageRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Purchase создает пакет очков для пользователя и запись о покупке.
// Возвращает ID пакета и ID записи о покупке.
func (s *Service) Purchase(ctx context.Context, userUID string, req models.DummyPackage) (int, int, error) {
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("покупка пакета %s", time.Now().Format("2006-01-02"))
	}
	pkg := models.PointPackage{
		UserUID:          userUID,
		EditingPoints:    req.EditingPoints,
		RecordingPoints:  req.RecordingPoints,
		DesignPoints:     req.DesignPoints,
		ConsultingPoints: req.ConsultingPoints,
		LifespanDays:     req.LifespanDays,
		Status:           models.PackageStatusActive,
		Price:            req.Price,
		Description:      description,
	}

	packageID, err := s.repo.CreatePackage(ctx, pkg)
	if err != nil {
		return 0, 0, err
	}

	orderID, err := s.repo.CreatePointsOrder(ctx, models.PointsOrder{
		UserUID:   userUID,
		PackageID: packageID,
		Price:     req.Price,
		Status:    models.OrderStatusReceived,
	})
	if err != nil {
		return 0, 0, err
	}

	s.log.Info("created point package",
		slog.Int("package_id", packageID),
		slog.Int("points_order_id", orderID),
		slog.String("user_uid", userUID))
	return packageID, orderID, nil
}

// Adjust корректирует баланс категории пакета на delta со строкой аудита.
// Баланс не может уйти ниже нуля.
func (s *Service) Adjust(ctx context.Context, id int, adminUsername string, req models.DummyAdjust) error {
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("%s: %+d %s, %s (admin: %s)",
		time.Now().Format("2006-01-02 15:04"), req.Delta, category, req.Reason, adminUsername)
	count, err := s.repo.AdjustPackagePoints(ctx, id, category, req.Delta, line)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAdjustRejected
	}

	s.log.Info("adjusted package points",
		slog.Int("package_id", id),
		slog.String("category", string(category)),
		slog.Int("delta", req.Delta))
	return nil
}

// Read возвращает пакет по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.PointPackage, error) {
	return s.repo.ReadPackage(ctx, id)
}

// List возвращает пакеты в зависимости от роли: администратор видит все,
// пользователь — только свои.
func (s *Service) List(ctx context.Context, userUID, role string, limit, offset int) ([]*models.PointPackage, error) {
	if role == "admin" {
		return s.repo.ListAllPackages(ctx, limit, offset)
	}
	return s.repo.ListPackagesByUser(ctx, userUID)
}

// Update обновляет срок жизни, статус и цену пакета.
func (s *Service) Update(ctx context.Context, id int, req models.DummyPackageUpdate) (int, error) {
	return s.repo.UpdatePackage(ctx, id, req)
}

// Remove удаляет пакет по ID.
func (s *Service) Remove(ctx context.Context, id int) (int, error) {
	return s.repo.RemovePackage(ctx, id)
}

// ListPointsOrders возвращает записи о покупках пакетов в зависимости от роли.
func (s *Service) ListPointsOrders(ctx context.Context, userUID, role string, limit, offset int) ([]*models.PointsOrder, error) {
	if role == "admin" {
		userUID = ""
	}
	return s.repo.ListPointsOrders(ctx, userUID, limit, offset)
}
