// Package health содержит обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-users/internal/http/response"
	"github.com/magabrotheeeer/club-users/internal/lib/sl"
)

const pingTimeout = 2 * time.Second

// Service проверяет доступность зависимостей.
type Service interface {
	Ready(ctx context.Context) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP проверяет соединение с хранилищем.
// @Summary Проверка готовности
// @Tags System
// @Produce  json
// @Success 200 {object} map[string]string "Сервис готов"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.service.Ready(ctx); err != nil {
		h.log.Error("storage is not ready",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("storage unavailable"))
		return
	}

	render.JSON(w, r, map[string]string{"status": "ok"})
}
