// Package createmovie реализует HTTP-обработчик добавления фильма в каталог.
package createmovie

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
)

// Request — входные данные нового фильма
type Request struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	DurationMin int     `json:"duration_min" validate:"omitempty,min=1"`
	Price       float64 `json:"price" validate:"omitempty,gte=0"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	ImdbRate    float64 `json:"imdb_rate" validate:"omitempty,gte=0,lte=10"`
	CoverURL    string  `json:"cover_url" validate:"omitempty,url"`
	Genre       string  `json:"genre" validate:"omitempty,max=100"`
}

// AdminService определяет метод добавления фильма.
type AdminService interface {
	CreateMovie(ctx context.Context, movie models.Movie) (*models.Movie, error)
}

// Handler обрабатывает HTTP-запросы добавления фильмов.
type Handler struct {
	log      *slog.Logger
	admin    AdminService
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin AdminService) *Handler {
	return &Handler{
		log:      log,
		admin:    admin,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавление фильма
// @Description Добавляет новый фильм в каталог
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Данные нового фильма"
// @Success 201 {object} response.OKResponse "Созданный фильм"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/movies [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.createmovie"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	movie, err := h.admin.CreateMovie(r.Context(), models.Movie{
		Title:       req.Title,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Description: req.Description,
		ImdbRate:    req.ImdbRate,
		CoverURL:    req.CoverURL,
		Genre:       req.Genre,
	})
	if err != nil {
		log.Error("failed to create movie", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create movie"))
		return
	}

	log.Info("movie created", slog.Int64("movie_id", movie.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(movie))
}
