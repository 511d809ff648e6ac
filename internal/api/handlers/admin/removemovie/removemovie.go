// Package removemovie реализует HTTP-обработчик удаления фильма из каталога.
package removemovie

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

// AdminService определяет метод удаления фильма.
type AdminService interface {
	DeleteMovie(ctx context.Context, movieID int64) error
}

// Handler обрабатывает HTTP-запросы удаления фильмов.
type Handler struct {
	log   *slog.Logger
	admin AdminService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin AdminService) *Handler {
	return &Handler{log: log, admin: admin}
}

// ServeHTTP godoc
// @Summary Удаление фильма
// @Description Удаляет фильм из каталога по его ID
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID фильма"
// @Success 200 {object} response.OKResponse "Фильм удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Фильм не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/movies/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.removemovie"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	movieID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid movie id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid movie id"))
		return
	}

	if err := h.admin.DeleteMovie(r.Context(), movieID); err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			log.Error("movie not found", slog.Int64("movie_id", movieID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("movie not found"))
			return
		}
		log.Error("failed to delete movie", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete movie"))
		return
	}

	log.Info("movie deleted", slog.Int64("movie_id", movieID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "movie deleted successfully",
	}))
}
