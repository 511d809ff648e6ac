// Package middlewarectx содержит HTTP middleware: проверку токена доступа,
// требование административной роли и ограничение частоты запросов.
//
// JWTMiddleware проверяет наличие и валидность токена в заголовке Authorization
// и в случае успеха добавляет в контекст идентификатор пользователя и роль
// для дальнейшего использования в обработчиках.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movienest/movienest/internal/api/response"
	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/lib/token"
	"github.com/movienest/movienest/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ для идентификатора пользователя (subject токена) в контексте.
	UserID Key = "user_id"
	// Role — ключ для роли пользователя в контексте.
	Role Key = "role"
)

// JWTMiddleware возвращает HTTP middleware, который проверяет токен доступа
// в заголовке Authorization.
//
// Если токен валиден, добавляет идентификатор пользователя и роль в контекст
// запроса. Истёкший токен даёт 401 с отдельным сообщением, любой другой
// дефект токена — 401 с общим сообщением, не раскрывающим причину.
func JWTMiddleware(maker token.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				if errors.Is(err, token.ErrExpiredToken) {
					log.Error("token has expired", sl.Err(err))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("token has expired"))
					return
				}
				log.Error("could not validate credentials", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("could not validate credentials"))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, claims.Subject)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware возвращает HTTP middleware, который пропускает дальше только
// пользователей с ролью не ниже admin. Ставится после JWTMiddleware.
func AdminMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role, ok := r.Context().Value(Role).(models.Role)
			if !ok {
				log.Error("role missing in request context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("could not validate credentials"))
				return
			}
			if !role.Meets(models.RoleAdmin) {
				log.Error("access denied", slog.String("role", role.String()))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin role required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
