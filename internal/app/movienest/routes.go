// Package movienest собирает главное HTTP-приложение: хранилище, кеш,
// брокер событий, сервисы и маршруты.
package movienest

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/movienest/movienest/internal/api/handlers/admin/createmovie"
	"github.com/movienest/movienest/internal/api/handlers/admin/listusers"
	"github.com/movienest/movienest/internal/api/handlers/admin/overview"
	"github.com/movienest/movienest/internal/api/handlers/admin/removemovie"
	"github.com/movienest/movienest/internal/api/handlers/admin/removeuser"
	"github.com/movienest/movienest/internal/api/handlers/admin/updateuser"
	"github.com/movienest/movienest/internal/api/handlers/auth/login"
	"github.com/movienest/movienest/internal/api/handlers/auth/register"
	"github.com/movienest/movienest/internal/api/handlers/movies/details"
	"github.com/movienest/movienest/internal/api/handlers/movies/list"
	"github.com/movienest/movienest/internal/api/handlers/subscription/health"
	"github.com/movienest/movienest/internal/api/handlers/subscription/plans"
	"github.com/movienest/movienest/internal/api/handlers/subscription/purchase"
	"github.com/movienest/movienest/internal/api/handlers/subscription/status"
	"github.com/movienest/movienest/internal/api/handlers/user/me"
	"github.com/movienest/movienest/internal/api/middlewarectx"
	"github.com/movienest/movienest/internal/cache"
	"github.com/movienest/movienest/internal/lib/token"
	adminservice "github.com/movienest/movienest/internal/services/admin"
	authservice "github.com/movienest/movienest/internal/services/auth"
	catalogservice "github.com/movienest/movienest/internal/services/catalog"
	entitlementservice "github.com/movienest/movienest/internal/services/entitlement"
	"github.com/movienest/movienest/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	maker token.Maker,
	storage *repository.Storage,
	cacheRedis *cache.Cache,
	rabbitConn *amqp.Connection,
	authService *authservice.AuthService,
	entitlementService *entitlementservice.EntitlementService,
	adminService *adminservice.AdminService,
	catalogService *catalogservice.CatalogService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/subscriptions/plans", plans.New(logger, storage).ServeHTTP)
		r.Get("/movies", list.New(logger, catalogService).ServeHTTP)
		r.Get("/movies/{id}", details.New(logger, catalogService).ServeHTTP)
		r.Get("/health", health.New(logger, storage.DB, rabbitConn, cacheRedis).ServeHTTP)

		// Группа с проверкой токена доступа
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, 10, 30))
			r.Get("/users/me", me.New(logger, authService).ServeHTTP)
			r.Post("/subscriptions/purchase/{plan_id}", purchase.New(logger, entitlementService).ServeHTTP)
			r.Get("/subscriptions/status", status.New(logger, entitlementService).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))
				r.Get("/admin/overview", overview.New(logger, adminService).ServeHTTP)
				r.Get("/admin/users", listusers.New(logger, adminService).ServeHTTP)
				r.Patch("/admin/users/{id}", updateuser.New(logger, adminService).ServeHTTP)
				r.Delete("/admin/users/{id}", removeuser.New(logger, adminService).ServeHTTP)
				r.Post("/admin/movies", createmovie.New(logger, adminService).ServeHTTP)
				r.Delete("/admin/movies/{id}", removemovie.New(logger, adminService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
