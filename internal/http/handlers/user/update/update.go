// Package update реализует HTTP-обработчик частичного обновления профиля.
//
// Каждый запрос обязан нести действующий пароль: он подтверждает личность
// владельца и, будучи подтвержденным, перехэшируется и сохраняется заново.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/music-favorites/internal/http/response"
	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/lib/sl"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service применяет частичное обновление профиля.
type Service interface {
	Update(ctx context.Context, username string, fields models.UpdateUserFields) (*models.EnrichedUser, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить профиль пользователя
// @Description Частично обновляет профиль. Поле password обязательно и подтверждает личность.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Param request body models.UpdateUserFields true "Обновляемые поля"
// @Success 200 {object} models.EnrichedUser "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Пустое тело запроса"
// @Failure 401 {object} response.ErrorResponse "Пароль не подтвержден"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{username} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")

	var fields models.UpdateUserFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(fields); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Update(r.Context(), username, fields)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrBadInput):
			log.Info("empty update payload", slog.String("username", username))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("no fields to update"))
		case errors.Is(err, apperr.ErrUnauthenticated):
			log.Info("password confirmation failed", slog.String("username", username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("password is incorrect"))
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("user not found", slog.String("username", username))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to update user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update user"))
		}
		return
	}

	log.Info("user updated", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(user))
}
