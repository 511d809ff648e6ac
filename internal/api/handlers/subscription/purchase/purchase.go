// Package purchase реализует HTTP-обработчик покупки тарифного плана.
package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/middlewarectx"
	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
	services "github.com/movienest/movienest/internal/services/entitlement"
	"github.com/movienest/movienest/internal/storage/repository"
)

// EntitlementService определяет метод применения покупки плана.
type EntitlementService interface {
	Acquire(ctx context.Context, userID, planID int64) (*models.Entitlement, error)
}

// Handler обрабатывает HTTP-запросы покупки подписки.
type Handler struct {
	log          *slog.Logger
	entitlements EntitlementService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, entitlements EntitlementService) *Handler {
	return &Handler{log: log, entitlements: entitlements}
}

// ServeHTTP godoc
// @Summary Покупка тарифного плана
// @Description Создает, продлевает или заменяет подписку текущего пользователя
// @Tags Subscription
// @Produce  json
// @Security BearerAuth
// @Param plan_id path int true "ID тарифного плана"
// @Success 200 {object} response.OKResponse "Итоговое состояние подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный plan_id"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/purchase/{plan_id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.purchase"

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

	planID, err := strconv.ParseInt(chi.URLParam(r, "plan_id"), 10, 64)
	if err != nil {
		log.Error("invalid plan_id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan_id"))
		return
	}

	ent, err := h.entitlements.Acquire(r.Context(), userID, planID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			log.Error("plan not found", slog.Int64("plan_id", planID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("user not found or deleted", slog.Int64("user_id", userID))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("could not validate credentials"))
		default:
			log.Error("failed to purchase subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to purchase subscription"))
		}
		return
	}

	log.Info("subscription purchased",
		slog.Int64("user_id", userID),
		slog.Int64("plan_id", planID),
		slog.Time("end_date", ent.EndDate))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":         ent.ID,
		"plan_id":    ent.PlanID,
		"start_date": ent.StartDate,
		"end_date":   ent.EndDate,
		"is_active":  ent.IsActive,
	}))
}
