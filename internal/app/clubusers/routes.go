// Package clubusers собирает HTTP-приложение сервиса участников клуба.
package clubusers

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/club-users/internal/config"
	"github.com/magabrotheeeer/club-users/internal/http/handlers/health"
	"github.com/magabrotheeeer/club-users/internal/http/handlers/home"
	"github.com/magabrotheeeer/club-users/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/club-users/internal/http/handlers/users/signin"
	"github.com/magabrotheeeer/club-users/internal/http/handlers/users/signup"
	"github.com/magabrotheeeer/club-users/internal/http/middlewarectx"
)

// UserService объединяет операции, которые нужны обработчикам.
type UserService interface {
	signup.Service
	signin.Service
	list.Service
	health.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service UserService, reg *prometheus.Registry, limits config.RateLimit) {
	metrics := middlewarectx.NewMetrics(reg)

	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		cors.AllowAll().Handler,
		metrics.Middleware,
	)

	r.Get("/", home.ServeHTTP)
	r.Get("/health", health.New(logger, service).ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limits.RPS, limits.Burst))
		r.Post("/signup", signup.New(logger, service).ServeHTTP)
		r.Post("/signin", signin.New(logger, service).ServeHTTP)
		r.Get("/Club_users", list.New(logger, service).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
