// Package services содержит бизнес-логику управления периодами подписки:
// применение покупки плана, подсчёт действующих периодов и кеширование планов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
	"github.com/movienest/movienest/internal/storage/repository"
)

// ErrPlanNotFound возвращается при покупке неизвестного тарифного плана.
var ErrPlanNotFound = errors.New("plan not found")

// ErrNoActiveEntitlement возвращается, когда у пользователя нет действующего периода.
var ErrNoActiveEntitlement = errors.New("no active entitlement")

// EntitlementRepository определяет методы для работы с периодами подписки в хранилище.
type EntitlementRepository interface {
	// GetPlan возвращает тарифный план по ID.
	GetPlan(ctx context.Context, id int64) (*models.Plan, error)
	// AcquireEntitlement атомарно применяет покупку плана к состоянию пользователя.
	AcquireEntitlement(ctx context.Context, userID int64, plan *models.Plan, now time.Time) (*models.Entitlement, error)
	// GetActiveEntitlementByUser возвращает действующий период пользователя.
	GetActiveEntitlementByUser(ctx context.Context, userID int64, asOf time.Time) (*models.Entitlement, error)
	// CountActiveEntitlements считает действующие периоды по всем пользователям.
	CountActiveEntitlements(ctx context.Context, asOf time.Time) (int, error)
	// CountActiveEntitlementsByUser считает действующие периоды пользователя.
	CountActiveEntitlementsByUser(ctx context.Context, userID int64, asOf time.Time) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// Publisher публикует событие покупки в очередь.
type Publisher interface {
	PublishPurchase(event models.PurchaseEvent) error
}

// EntitlementService реализует бизнес-логику периодов подписки.
type EntitlementService struct {
	repo   EntitlementRepository
	cache  Cache
	events Publisher
	log    *slog.Logger
}

// NewEntitlementService создает новый экземпляр EntitlementService.
// events может быть nil — тогда события покупок не публикуются.
func NewEntitlementService(repo EntitlementRepository, cache Cache, events Publisher, log *slog.Logger) *EntitlementService {
	return &EntitlementService{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// Acquire применяет покупку плана planID пользователем userID.
//
// Неизвестный план даёт ErrPlanNotFound. Переходы состояния (создание,
// продление того же плана, замена плана) выполняются хранилищем одной
// транзакцией; частично применённое состояние наружу не видно.
func (s *EntitlementService) Acquire(ctx context.Context, userID, planID int64) (*models.Entitlement, error) {
	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	ent, err := s.repo.AcquireEntitlement(ctx, userID, plan, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("entitlement acquired",
		slog.Int64("user_id", userID),
		slog.Int64("plan_id", planID),
		slog.Int64("entitlement_id", ent.ID),
		slog.Time("end_date", ent.EndDate))

	if s.events != nil {
		event := models.PurchaseEvent{
			EventID:       uuid.New().String(),
			UserID:        userID,
			PlanID:        planID,
			EntitlementID: ent.ID,
			EndDate:       ent.EndDate,
			OccurredAt:    time.Now().UTC(),
		}
		// Покупка уже применена: ошибка публикации логируется, но не отменяет её.
		if err := s.events.PublishPurchase(event); err != nil {
			s.log.Warn("failed to publish purchase event", sl.Err(err))
		}
	}

	return ent, nil
}

// ActiveForUser возвращает действующий период пользователя или ErrNoActiveEntitlement.
func (s *EntitlementService) ActiveForUser(ctx context.Context, userID int64) (*models.Entitlement, error) {
	ent, err := s.repo.GetActiveEntitlementByUser(ctx, userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveEntitlement
		}
		return nil, err
	}
	return ent, nil
}

// CountActive считает действующие на момент asOf периоды по всем пользователям.
// Нулевой asOf означает "сейчас".
func (s *EntitlementService) CountActive(ctx context.Context, asOf time.Time) (int, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	return s.repo.CountActiveEntitlements(ctx, asOf)
}

// getPlan возвращает план из кеша или хранилища, выдерживая паузу кеша при сбоях.
func (s *EntitlementService) getPlan(ctx context.Context, planID int64) (*models.Plan, error) {
	cacheKey := fmt.Sprintf("plan:%d", planID)

	var cached *models.Plan
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plan from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && cached != nil {
		return cached, nil
	}

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, plan, time.Hour); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", cacheKey), sl.Err(err))
	}
	return plan, nil
}
