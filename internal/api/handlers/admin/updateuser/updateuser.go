// Package updateuser реализует HTTP-обработчик изменения имени пользователя.
package updateuser

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
	services "github.com/movienest/movienest/internal/services/admin"
)

// Request — входные данные для изменения пользователя
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}

// AdminService определяет метод изменения имени пользователя.
type AdminService interface {
	UpdateUser(ctx context.Context, userID int64, username string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы изменения пользователя.
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
// @Summary Изменение пользователя
// @Description Меняет имя пользователя по его ID
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Param request body Request true "Новое имя пользователя"
// @Success 200 {object} response.OKResponse "Обновлённый пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Имя уже занято"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updateuser"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.admin.UpdateUser(r.Context(), userID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			log.Error("user not found", slog.Int64("user_id", userID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, services.ErrUsernameTaken):
			log.Error("username already taken", slog.String("username", req.Username))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("username already taken"))
		default:
			log.Error("failed to update user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update user"))
		}
		return
	}

	log.Info("user updated", slog.Int64("user_id", userID), slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(user))
}
