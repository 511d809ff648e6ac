// Package sender собирает приложение отправки почтовых напоминаний.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/movienest/movienest/internal/config"
	"github.com/movienest/movienest/internal/lib/smtp"
	"github.com/movienest/movienest/internal/rabbitmq"
	notifierservice "github.com/movienest/movienest/internal/services/notifier"
)

const (
	rabbitMaxRetries = 5
	rabbitRetryDelay = 3 * time.Second
)

// App представляет приложение отправителя напоминаний.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *notifierservice.SenderService
	reminderQueue string
	logger        *slog.Logger
}

// New создает новый экземпляр приложения отправителя.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitConnection.AddressRabbit, rabbitMaxRetries, rabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetEventQueues(cfg.RabbitConnection)
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitConnection.Exchange, queues)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTPConnection, logger)
	senderService := notifierservice.NewSenderService(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		reminderQueue: cfg.RabbitConnection.ReminderQueue,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди напоминаний.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.reminderQueue, a.senderService.SendExpiryReminder)
	if err != nil {
		a.logger.Error("failed to start reminder consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
