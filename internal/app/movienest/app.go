package movienest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/movienest/movienest/internal/cache"
	"github.com/movienest/movienest/internal/config"
	"github.com/movienest/movienest/internal/lib/token"
	"github.com/movienest/movienest/internal/migrations"
	"github.com/movienest/movienest/internal/rabbitmq"
	adminservice "github.com/movienest/movienest/internal/services/admin"
	authservice "github.com/movienest/movienest/internal/services/auth"
	catalogservice "github.com/movienest/movienest/internal/services/catalog"
	entitlementservice "github.com/movienest/movienest/internal/services/entitlement"
	"github.com/movienest/movienest/internal/storage/repository"
)

const (
	rabbitMaxRetries = 5
	rabbitRetryDelay = 3 * time.Second
)

// App представляет главное HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: хранилище с миграциями, кеш, брокер,
// фабрику токенов и сервисы. Неподдерживаемый алгоритм подписи токена
// останавливает запуск.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	maker, err := token.New(cfg.AccessToken.SecretKey, cfg.AccessToken.Algorithm, cfg.AccessToken.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to init token maker: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnection.AddressRabbit, rabbitMaxRetries, rabbitRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	queues := rabbitmq.GetEventQueues(cfg.RabbitConnection)
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitConnection.Exchange, queues)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	publisher := rabbitmq.NewEventPublisher(ch, cfg.RabbitConnection.Exchange)

	authService := authservice.NewAuthService(db, maker)
	entitlementService := entitlementservice.NewEntitlementService(db, cacheRedis, publisher, logger)
	adminService := adminservice.NewAdminService(db, logger)
	catalogService := catalogservice.NewCatalogService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker, db, cacheRedis, conn, authService, entitlementService, adminService, catalogService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
