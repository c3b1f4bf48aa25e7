// Package signin содержит обработчик входа участника по email.
package signin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-users/internal/http/response"
	"github.com/magabrotheeeer/club-users/internal/lib/sl"
	"github.com/magabrotheeeer/club-users/internal/storage"
)

// Request входные данные входа.
type Request struct {
	Email string `json:"email" validate:"required"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP отмечает вход участника.
// @Summary Вход участника
// @Description Проставляет last_signin всем документам с указанным email.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Email участника"
// @Success 200 {object} response.SigninResponse "Вход выполнен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустой email"
// @Failure 404 {object} response.ErrorResponse "Email не зарегистрирован"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /signin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.signin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req *Request
	err := json.NewDecoder(r.Body).Decode(&req)
	if err == nil && req == nil {
		err = errors.New("request body is not a json object")
	}
	if err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidData))
		return
	}

	if err := h.validate.Struct(*req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err = h.service.Signin(r.Context(), req.Email)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		log.Info("email not registered", slog.String("email", req.Email))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotRegistered))
		return
	case err != nil:
		log.Error("failed to sign in user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	log.Info("user signed in", slog.String("email", req.Email))
	render.JSON(w, r, response.Signin())
}
