// Package signup содержит обработчик регистрации участника по email.
package signup

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

// Request входные данные регистрации.
type Request struct {
	Email string `json:"email" validate:"required"`
}

// Handler обрабатывает POST /signup.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик регистрации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP регистрирует участника.
// @Summary Регистрация участника
// @Description Создаёт участника с указанным email. Повторная регистрация того же email запрещена.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Email участника"
// @Success 201 {object} response.SignupResponse "Участник создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустой email"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.signup"

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

	id, err := h.service.Signup(r.Context(), req.Email)
	if errors.Is(err, storage.ErrUserExists) {
		log.Info("user already exists", slog.String("email", req.Email))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error(response.MsgUserExists))
		return
	}
	if err != nil {
		log.Error("failed to sign up user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	log.Info("user signed up", slog.String("user_id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Signup(id))
}
