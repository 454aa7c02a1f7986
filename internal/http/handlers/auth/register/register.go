// Package register реализует HTTP-обработчик регистрации нового пользователя.
//
// Handler принимает JSON с учетными данными, валидирует их, создает пользователя
// через сервис и сразу выдает JWT-токен, чтобы клиент не делал второй запрос.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/music-favorites/internal/http/response"
	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/lib/sl"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

// Request — входные данные для регистрации.
type Request struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	maker    TokenMaker
	validate *validator.Validate
}

// Service описывает бизнес-логику создания пользователя.
type Service interface {
	Register(ctx context.Context, username, password, firstName, lastName, email string) (*models.UserInfo, error)
}

// TokenMaker выпускает JWT для свежесозданного пользователя.
type TokenMaker interface {
	GenerateToken(username string) (string, error)
}

func New(log *slog.Logger, service Service, maker TokenMaker) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		maker:    maker,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать пользователя
// @Description Создает нового пользователя и возвращает JWT-токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные нового пользователя"
// @Success 201 {object} map[string]any "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или имя занято"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	info, err := h.service.Register(r.Context(), req.Username, req.Password, req.FirstName, req.LastName, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			log.Info("username is already taken", slog.String("username", req.Username))
			w.WriteHeader(apperr.HTTPStatus(err))
			render.JSON(w, r, response.Error("username is already taken"))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	token, err := h.maker.GenerateToken(info.Username)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", slog.String("username", info.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username": info.Username,
		"token":    token,
	}))
}
