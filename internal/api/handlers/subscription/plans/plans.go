// Package plans реализует HTTP-обработчик выдачи списка тарифных планов.
package plans

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
)

// PlanRepository определяет метод выдачи списка планов.
type PlanRepository interface {
	ListPlans(ctx context.Context) ([]*models.Plan, error)
}

// Handler обрабатывает HTTP-запросы списка тарифных планов.
type Handler struct {
	log   *slog.Logger
	plans PlanRepository
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, plans PlanRepository) *Handler {
	return &Handler{log: log, plans: plans}
}

// ServeHTTP godoc
// @Summary Список тарифных планов
// @Description Возвращает все доступные тарифные планы
// @Tags Subscription
// @Produce  json
// @Success 200 {object} response.OKResponse "Список планов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.plans"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.plans.ListPlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list plans"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
