// Package formula содержит бизнес-логику управления формулами ценообразования
// с кешированием горячих определений.
package formula

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// FormulaRepository определяет методы для работы с формулами в хранилище.
type FormulaRepository interface {
	// CreateFormula добавляет новую формулу и возвращает её ID.
	CreateFormula(ctx context.Context, f models.Formula) (int, error)
	// ReadFormula возвращает формулу по ID.
	ReadFormula(ctx context.Context, id int) (*models.Formula, error)
	// ListFormulas возвращает формулы с перечисленными уровнями доступа.
	ListFormulas(ctx context.Context, accessLevels []models.AccessLevel) ([]*models.Formula, error)
	// UpdateFormula обновляет формулу по ID.
	UpdateFormula(ctx context.Context, f models.Formula, id int) (int, error)
	// RemoveFormula удаляет формулу по ID.
	RemoveFormula(ctx context.Context, id int) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с формулами, включая кеширование.
type Service struct {
	repo  FormulaRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo FormulaRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// VisibleAccessLevels возвращает уровни доступа формул, видимые роли.
// Аноним видит только публичные формулы, пользователь — ещё и пользовательские,
// администратор — все.
func VisibleAccessLevels(role string) []models.AccessLevel {
	switch role {
	case "admin":
		return []models.AccessLevel{models.AccessAdmin, models.AccessUser, models.AccessPublic}
	case "user":
		return []models.AccessLevel{models.AccessUser, models.AccessPublic}
	}
	return []models.AccessLevel{models.AccessPublic}
}

// CanUse сообщает, может ли роль оформлять заказы по формуле.
func CanUse(f *models.Formula, role string) bool {
	for _, level := range VisibleAccessLevels(role) {
		if f.Access == level {
			return true
		}
	}
	return false
}

func fromDummy(req models.DummyFormula) models.Formula {
	return models.Formula{
		Name:      req.Name,
		BasePrice: req.BasePrice,
		Category:  models.Category(req.Category),
		Fields:    req.Fields,
		Access:    models.AccessLevel(req.Access),
	}
}

// Create создает новую формулу, кеширует её и возвращает ID.
func (s *Service) Create(ctx context.Context, req models.DummyFormula) (int, error) {
	f := fromDummy(req)
	id, err := s.repo.CreateFormula(ctx, f)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new formula", slog.Int("id", id))

	f.ID = id
	cacheKey := fmt.Sprintf("formula:%d", id)
	if err := s.cache.Set(cacheKey, f, time.Hour); err != nil {
		s.log.Warn("failed to cache formula", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return id, nil
}

// Read возвращает формулу по ID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, id int) (*models.Formula, error) {
	var result *models.Formula
	cacheKey := fmt.Sprintf("formula:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadFormula(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// List возвращает формулы, видимые роли.
func (s *Service) List(ctx context.Context, role string) ([]*models.Formula, error) {
	return s.repo.ListFormulas(ctx, VisibleAccessLevels(role))
}

// Update обновляет формулу и обновляет кеш.
func (s *Service) Update(ctx context.Context, req models.DummyFormula, id int) (int, error) {
	f := fromDummy(req)
	res, err := s.repo.UpdateFormula(ctx, f, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated formula in storage", slog.Int("id", id))

	f.ID = id
	cacheKey := fmt.Sprintf("formula:%d", id)
	if err := s.cache.Set(cacheKey, f, time.Hour); err != nil {
		s.log.Warn("failed to cache formula", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет формулу по ID и инвалидирует кеш.
func (s *Service) Remove(ctx context.Context, id int) (int, error) {
	cacheKey := fmt.Sprintf("formula:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveFormula(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}
