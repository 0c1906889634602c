// Package services содержит планировщик уведомлений об истекающих пакетах очков.
//
// Планировщик только наблюдает: он публикует сообщения для владельцев
// пакетов, но никогда не меняет статус или балансы пакетов.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/points-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// PackageRepository определяет поиск пакетов с истекающим сроком жизни.
type PackageRepository interface {
	FindPackagesExpiringTomorrow(ctx context.Context) ([]*models.PackageExpiryInfo, error)
}

// SchedulerService периодически ищет истекающие пакеты и публикует уведомления.
type SchedulerService struct {
	repo PackageRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo PackageRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringPackages раз в 12 часов ищет пакеты, истекающие завтра,
// и публикует сообщение на каждый в обменник notifications.
func (s *SchedulerService) FindExpiringPackages(ctx context.Context, channel *amqp.Channel) {
	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.log.Info("starting service to find expiring packages")
		infos, err := s.repo.FindPackagesExpiringTomorrow(ctx)
		if err != nil {
			s.log.Error("failed to find expiring packages", sl.Err(err))
		}
		for _, info := range infos {
			err = rabbitmq.PublishMessage(channel, "notifications", "package-expiring", info)
			if err != nil {
				s.log.Error("failed to publish message", sl.Err(err))
			}
		}
	}
}
