// Package listusers реализует HTTP-обработчик постраничной выдачи пользователей.
package listusers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
)

// AdminService определяет метод постраничной выдачи пользователей.
type AdminService interface {
	ListUsers(ctx context.Context, search string, page, pageSize int) (*models.UserPage, error)
}

// Handler обрабатывает HTTP-запросы списка пользователей.
type Handler struct {
	log   *slog.Logger
	admin AdminService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin AdminService) *Handler {
	return &Handler{log: log, admin: admin}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает страницу неудалённых пользователей с поиском по имени и почте
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param search query string false "Подстрока поиска"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} response.OKResponse "Страница пользователей"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listusers"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	result, err := h.admin.ListUsers(r.Context(), query.Get("search"), page, pageSize)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list users"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
