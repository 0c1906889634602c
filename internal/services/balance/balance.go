// Package balance содержит бизнес-логику расчёта активного баланса очков.
package balance

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// PackageRepository определяет методы для работы с пакетами очков в хранилище.
type PackageRepository interface {
	// ListActivePackages возвращает пакеты со статусом Active и положительным
	// балансом категории, без фильтра по сроку жизни.
	ListActivePackages(ctx context.Context, userUID string, category models.Category) ([]*models.PointPackage, error)
}

// Service реализует калькулятор активного баланса.
//
// Активный баланс — сумма балансов категории по пригодным пакетам.
// Пакеты со статусом Active, но истёкшим сроком жизни — терпимая
// рассогласованность данных: они исключаются из суммы с предупреждением
// в логе, но не исправляются.
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

// ActiveBalance возвращает активный баланс очков категории для пользователя.
// Побочных эффектов нет, повторный вызов без списаний возвращает то же значение.
func (s *Service) ActiveBalance(ctx context.Context, userUID string, category models.Category) (int, error) {
	packages, err := s.repo.ListActivePackages(ctx, userUID, category)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	total := 0
	for _, p := range packages {
		if p.IsExpired(now) {
			s.log.Warn("active package is past its lifespan, excluded from balance",
				slog.Int("package_id", p.ID),
				slog.String("user_uid", userUID),
				slog.Time("expired_at", p.ExpiresAt()))
			continue
		}
		total += p.Balance(category)
	}
	return total, nil
}

// ActiveBalances возвращает активные балансы по всем категориям очков.
func (s *Service) ActiveBalances(ctx context.Context, userUID string) (map[models.Category]int, error) {
	result := make(map[models.Category]int, len(models.AllCategories()))
	for _, category := range models.AllCategories() {
		total, err := s.ActiveBalance(ctx, userUID, category)
		if err != nil {
			return nil, err
		}
		result[category] = total
	}
	return result, nil
}
