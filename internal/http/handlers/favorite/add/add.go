// Package add реализует HTTP-обработчик добавления песни в избранное.
//
// Клиент присылает детали песни из каталога вместе с ее внешним ID: песня
// идемпотентно сохраняется в локальном кэше каталога, после чего создается
// связь пользователь-песня.
package add

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/music-favorites/internal/http/response"
	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/lib/sl"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

// Request — детали песни, полученные клиентом из каталога.
type Request struct {
	SongName       string `json:"song_name" validate:"required"`
	SongArtist     string `json:"song_artist" validate:"required"`
	SongGenreNames string `json:"song_genre_names"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service кэширует песню и добавляет ее в избранное пользователя.
type Service interface {
	CacheSong(ctx context.Context, song models.Song) (*models.Song, error)
	Add(ctx context.Context, username string, externalID int64) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить песню в избранное
// @Description Сохраняет песню в локальном каталоге и связывает ее с пользователем.
// @Tags Favorites
// @Accept  json
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Param id path int true "Внешний ID песни"
// @Param request body Request true "Детали песни"
// @Success 200 {object} map[string]any "Песня добавлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или песня уже в избранном"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{username}/songs/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.favorite.add"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	externalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid song id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid song id"))
		return
	}

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

	song := models.Song{
		ExternalID: externalID,
		Name:       req.SongName,
		Artist:     req.SongArtist,
		GenreNames: req.SongGenreNames,
	}
	if _, err := h.service.CacheSong(r.Context(), song); err != nil {
		log.Error("failed to cache song", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to add favorite"))
		return
	}

	if err := h.service.Add(r.Context(), username, externalID); err != nil {
		switch {
		case errors.Is(err, apperr.ErrConflict):
			log.Info("song is already favorited",
				slog.String("username", username), slog.Int64("song_id", externalID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("song is already in favorites"))
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("user or song not found", slog.String("username", username))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user or song not found"))
		default:
			log.Error("failed to add favorite", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add favorite"))
		}
		return
	}

	log.Info("favorite added",
		slog.String("username", username), slog.Int64("song_id", externalID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"favorited": true,
		"song_id":   externalID,
	}))
}
