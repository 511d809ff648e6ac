// Package removeuser реализует HTTP-обработчик мягкого удаления пользователя.
package removeuser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	services "github.com/movienest/movienest/internal/services/admin"
)

// AdminService определяет метод мягкого удаления пользователя.
type AdminService interface {
	DeleteUser(ctx context.Context, userID int64) error
}

// Handler обрабатывает HTTP-запросы удаления пользователей.
type Handler struct {
	log   *slog.Logger
	admin AdminService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin AdminService) *Handler {
	return &Handler{log: log, admin: admin}
}

// ServeHTTP godoc
// @Summary Удаление пользователя
// @Description Помечает пользователя удалённым, история подписок сохраняется
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.OKResponse "Пользователь удалён"
// @Failure 400 {object} response.ErrorResponse "Пользователь уже удалён"
// @Failure 403 {object} response.ErrorResponse "Нельзя удалить администратора"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.removeuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid user id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	if err := h.admin.DeleteUser(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			log.Error("user not found", slog.Int64("user_id", userID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, services.ErrAlreadyDeleted):
			log.Error("user already deleted", slog.Int64("user_id", userID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("user already deleted"))
		case errors.Is(err, services.ErrDeleteAdmin):
			log.Error("cannot delete admin user", slog.Int64("user_id", userID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("cannot delete an admin user"))
		default:
			log.Error("failed to delete user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete user"))
		}
		return
	}

	log.Info("user deleted", slog.Int64("user_id", userID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user deleted successfully",
	}))
}
