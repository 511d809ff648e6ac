// Package status реализует HTTP-обработчик выдачи действующей подписки пользователя.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/middlewarectx"
	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
	services "github.com/movienest/movienest/internal/services/entitlement"
)

// EntitlementService определяет метод выдачи действующей подписки.
type EntitlementService interface {
	ActiveForUser(ctx context.Context, userID int64) (*models.Entitlement, error)
}

// Handler обрабатывает HTTP-запросы статуса подписки.
type Handler struct {
	log          *slog.Logger
	entitlements EntitlementService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, entitlements EntitlementService) *Handler {
	return &Handler{log: log, entitlements: entitlements}
}

// ServeHTTP godoc
// @Summary Действующая подписка
// @Description Возвращает действующую подписку текущего пользователя
// @Tags Subscription
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Действующая подписка"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 404 {object} response.ErrorResponse "Нет действующей подписки"
// @Router /subscriptions/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subject, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || subject == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("could not validate credentials"))
		return
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		log.Error("malformed subject in token", slog.String("subject", subject))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("could not validate credentials"))
		return
	}

	ent, err := h.entitlements.ActiveForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveEntitlement) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("no active subscription"))
			return
		}
		log.Error("failed to get subscription status", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(ent))
}
