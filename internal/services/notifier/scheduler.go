// Package services содержит фоновые службы напоминаний об окончании подписки:
// планировщик находит периоды, истекающие завтра, и публикует напоминания в очередь,
// а отправитель рассылает их по электронной почте.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
	"github.com/movienest/movienest/internal/rabbitmq"
)

// ReminderRepository определяет метод выборки периодов, истекающих завтра.
type ReminderRepository interface {
	FindEntitlementsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryReminder, error)
}

// SchedulerService периодически находит подписки, истекающие завтра,
// и публикует напоминания в очередь.
type SchedulerService struct {
	repo     ReminderRepository
	exchange string
	interval time.Duration
	log      *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo ReminderRepository, exchange string, interval time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:     repo,
		exchange: exchange,
		interval: interval,
		log:      log,
	}
}

// Run запускает цикл поиска истекающих подписок. Первый проход выполняется
// сразу, далее — раз в interval, до отмены ctx.
func (s *SchedulerService) Run(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringEntitlements(ctx, channel)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runFindExpiringEntitlements(ctx, channel)
		}
	}
}

func (s *SchedulerService) runFindExpiringEntitlements(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting search for entitlements expiring tomorrow")
	reminders, err := s.repo.FindEntitlementsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring entitlements", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		s.log.Info("no expiring entitlements found")
		return
	}
	s.log.Info("found expiring entitlements", "count", len(reminders))
	for _, reminder := range reminders {
		err = rabbitmq.PublishMessage(channel, s.exchange, rabbitmq.RoutingKeyReminder, reminder)
		if err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
		}
	}
}
