// Package overview реализует HTTP-обработчик административной сводки.
package overview

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	services "github.com/movienest/movienest/internal/services/admin"
)

// AdminService определяет метод выдачи сводных показателей.
type AdminService interface {
	Overview(ctx context.Context) (*services.Overview, error)
}

// Handler обрабатывает HTTP-запросы административной сводки.
type Handler struct {
	log   *slog.Logger
	admin AdminService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin AdminService) *Handler {
	return &Handler{log: log, admin: admin}
}

// ServeHTTP godoc
// @Summary Сводка по сервису
// @Description Возвращает число пользователей и действующих подписок
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Сводные показатели"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/overview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.overview"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.admin.Overview(r.Context())
	if err != nil {
		log.Error("failed to build overview", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build overview"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
