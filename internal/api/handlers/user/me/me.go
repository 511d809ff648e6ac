// Package me реализует HTTP-обработчик выдачи данных текущего пользователя.
package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/middlewarectx"
	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/models"
	services "github.com/movienest/movienest/internal/services/auth"
)

// AuthService определяет метод выдачи пользователя по subject токена.
type AuthService interface {
	Me(ctx context.Context, subject string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы данных текущего пользователя.
type Handler struct {
	log  *slog.Logger
	auth AuthService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth AuthService) *Handler {
	return &Handler{log: log, auth: auth}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает данные владельца токена доступа
// @Tags User
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.me"

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

	user, err := h.auth.Me(r.Context(), subject)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Error("user not found", slog.String("subject", subject))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
