// Package read реализует HTTP-обработчик получения деталей песни из каталога.
//
// К сырому ответу внешнего каталога добавляется флаг favorited: находится ли
// песня в избранном у пользователя, сделавшего запрос.
package read

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-favorites/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-favorites/internal/http/response"
	"github.com/magabrotheeeer/music-favorites/internal/lib/sl"
	"github.com/magabrotheeeer/music-favorites/internal/musicapi"
)

type Handler struct {
	log       *slog.Logger
	catalog   Catalog
	favorites Favorites
}

// Catalog возвращает детали песни из внешнего каталога.
type Catalog interface {
	SongDetail(ctx context.Context, externalID int64) (json.RawMessage, *musicapi.CatalogSong, error)
}

// Favorites проверяет наличие песни в избранном пользователя.
type Favorites interface {
	IsFavorited(ctx context.Context, externalID int64, username string) (bool, error)
}

func New(log *slog.Logger, catalog Catalog, favorites Favorites) *Handler {
	return &Handler{
		log:       log,
		catalog:   catalog,
		favorites: favorites,
	}
}

// ServeHTTP godoc
// @Summary Получить детали песни
// @Description Возвращает детали песни из внешнего каталога и флаг favorited.
// @Tags Catalog
// @Produce  json
// @Param id path int true "Внешний ID песни"
// @Success 200 {object} map[string]any "Детали песни"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Каталог недоступен"
// @Router /catalog/songs/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	externalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid song id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid song id"))
		return
	}

	raw, _, err := h.catalog.SongDetail(r.Context(), externalID)
	if err != nil {
		log.Error("failed to read song detail", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("catalog is unavailable"))
		return
	}

	favorited := false
	if username, ok := middlewarectx.Username(r.Context()); ok {
		favorited, err = h.favorites.IsFavorited(r.Context(), externalID, username)
		if err != nil {
			log.Warn("failed to check favorite status", sl.Err(err))
			favorited = false
		}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"song":      raw,
		"favorited": favorited,
	}))
}
