// Package list реализует HTTP-обработчик постраничной выдачи каталога фильмов.
package list

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

// CatalogService определяет метод постраничной выдачи каталога.
type CatalogService interface {
	ListMovies(ctx context.Context, search string, page, pageSize int) (*models.MoviePage, error)
}

// Handler обрабатывает HTTP-запросы списка фильмов.
type Handler struct {
	log     *slog.Logger
	catalog CatalogService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog CatalogService) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Каталог фильмов
// @Description Возвращает страницу каталога с поиском по названию
// @Tags Movies
// @Produce  json
// @Param search query string false "Подстрока поиска по названию"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} response.OKResponse "Страница каталога"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /movies [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.movies.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	result, err := h.catalog.ListMovies(r.Context(), query.Get("search"), page, pageSize)
	if err != nil {
		log.Error("failed to list movies", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list movies"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
