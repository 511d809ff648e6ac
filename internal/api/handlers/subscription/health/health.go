// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
)

// DatabaseChecker проверяет доступность базы данных. *sql.DB подходит напрямую.
type DatabaseChecker interface {
	PingContext(ctx context.Context) error
}

// CacheChecker проверяет доступность кеша.
type CacheChecker interface {
	Ping(ctx context.Context) error
}

// BrokerChecker сообщает состояние соединения с брокером.
// *amqp.Connection подходит напрямую.
type BrokerChecker interface {
	IsClosed() bool
}

// Handler обрабатывает HTTP-запросы проверки готовности.
type Handler struct {
	log    *slog.Logger
	db     DatabaseChecker
	rabbit BrokerChecker
	cache  CacheChecker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, db DatabaseChecker, rabbit BrokerChecker, cache CacheChecker) *Handler {
	return &Handler{
		log:    log,
		db:     db,
		rabbit: rabbit,
		cache:  cache,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Description Проверяет доступность базы данных, брокера и кеша
// @Tags Health
// @Produce  json
// @Success 200 {object} response.OKResponse "Все компоненты доступны"
// @Failure 503 {object} response.OKResponse "Часть компонентов недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.health"

	components := map[string]string{
		"database": "ok",
		"rabbitmq": "ok",
		"cache":    "ok",
	}
	healthy := true

	if err := h.db.PingContext(r.Context()); err != nil {
		h.log.Error("database ping failed", slog.String("op", op), sl.Err(err))
		components["database"] = "unavailable"
		healthy = false
	}
	if h.rabbit.IsClosed() {
		h.log.Error("rabbitmq connection closed", slog.String("op", op))
		components["rabbitmq"] = "unavailable"
		healthy = false
	}
	if err := h.cache.Ping(r.Context()); err != nil {
		h.log.Error("cache ping failed", slog.String("op", op), sl.Err(err))
		components["cache"] = "unavailable"
		healthy = false
	}

	status := "ok"
	if !healthy {
		status = "degraded"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status":     status,
		"components": components,
	}))
}
