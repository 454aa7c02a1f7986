// Package remove реализует HTTP-обработчик удаления песни из избранного.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-favorites/internal/http/response"
	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service удаляет связь пользователь-песня и чистит осиротевшие песни.
type Service interface {
	Remove(ctx context.Context, username string, externalID int64) (int, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить песню из избранного
// @Description Убирает песню из избранного пользователя. Песня без оставшихся
// @Description связей удаляется и из локального каталога.
// @Tags Favorites
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Param id path int true "Внешний ID песни"
// @Success 200 {object} map[string]any "Песня удалена из избранного"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Песни нет в избранном"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{username}/songs/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.favorite.remove"

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

	songID, err := h.service.Remove(r.Context(), username, externalID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Info("favorite not found",
				slog.String("username", username), slog.Int64("song_id", externalID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("song is not in favorites"))
			return
		}
		log.Error("failed to remove favorite", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove favorite"))
		return
	}

	log.Info("favorite removed",
		slog.String("username", username), slog.Int64("song_id", externalID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_favorite": songID,
	}))
}
