// Package list содержит обработчик получения списка участников клуба.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-users/internal/http/response"
	"github.com/magabrotheeeer/club-users/internal/lib/sl"
	"github.com/magabrotheeeer/club-users/internal/models"
)

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

// ServeHTTP отдаёт всех участников, последние вошедшие первыми.
// @Summary Список участников
// @Description Возвращает всех участников без идентификатора, отсортированных по last_signin по убыванию.
// @Tags Users
// @Produce  json
// @Success 200 {array} models.User "Список участников"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /Club_users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	if users == nil {
		users = []models.User{}
	}

	log.Debug("users listed", slog.Int("count", len(users)))
	render.JSON(w, r, users)
}
