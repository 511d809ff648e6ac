// Package details реализует HTTP-обработчик карточки фильма.
package details

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
	"github.com/movienest/movienest/internal/models"
	"github.com/movienest/movienest/internal/storage/repository"
)

// CatalogService определяет метод выдачи фильма по ID.
type CatalogService interface {
	Movie(ctx context.Context, movieID int64) (*models.Movie, error)
}

// Handler обрабатывает HTTP-запросы карточки фильма.
type Handler struct {
	log     *slog.Logger
	catalog CatalogService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog CatalogService) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Карточка фильма
// @Description Возвращает фильм каталога по ID
// @Tags Movies
// @Produce  json
// @Param id path int true "ID фильма"
// @Success 200 {object} response.OKResponse "Фильм"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Фильм не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /movies/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.movies.details"

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

	movie, err := h.catalog.Movie(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("movie not found", slog.Int64("movie_id", movieID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("movie not found"))
			return
		}
		log.Error("failed to get movie", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get movie"))
		return
	}

	render.JSON(w, r, response.OKWithData(movie))
}
