// Package search реализует HTTP-обработчик поиска по внешнему музыкальному каталогу.
//
// Результаты поиска кэшируются в Redis: повторный запрос с тем же термином
// не ходит во внешний API, пока не истечет TTL.
package search

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-favorites/internal/http/response"
	"github.com/magabrotheeeer/music-favorites/internal/lib/sl"
	"github.com/magabrotheeeer/music-favorites/internal/musicapi"
)

const (
	defaultLimit = 10
	cacheTTL     = 15 * time.Minute
)

type Handler struct {
	log     *slog.Logger
	service Service
	cache   Cache
}

// Service выполняет поиск во внешнем каталоге.
type Service interface {
	Search(ctx context.Context, term string, limit int) (*musicapi.SearchResults, error)
}

// Cache хранит результаты поиска между запросами.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

func New(log *slog.Logger, service Service, cache Cache) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cache:   cache,
	}
}

// ServeHTTP godoc
// @Summary Поиск по каталогу
// @Description Ищет песни, артистов и альбомы во внешнем каталоге по термину.
// @Tags Catalog
// @Produce  json
// @Param term path string true "Поисковый термин"
// @Param limit query int false "Максимум результатов на секцию"
// @Success 200 {object} musicapi.SearchResults "Результаты поиска"
// @Failure 500 {object} response.ErrorResponse "Каталог недоступен"
// @Router /catalog/search/{term} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	term := chi.URLParam(r, "term")
	if decoded, err := url.PathUnescape(term); err == nil {
		term = decoded
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cacheKey := "search:" + term + ":" + strconv.Itoa(limit)

	var cached musicapi.SearchResults
	found, err := h.cache.Get(r.Context(), cacheKey, &cached)
	if err != nil {
		log.Warn("failed to read search cache", sl.Err(err))
	}
	if found {
		log.Info("search served from cache", slog.String("term", term))
		render.JSON(w, r, response.StatusOKWithData(&cached))
		return
	}

	results, err := h.service.Search(r.Context(), term, limit)
	if err != nil {
		log.Error("catalog search failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("catalog is unavailable"))
		return
	}

	if err := h.cache.Set(r.Context(), cacheKey, results, cacheTTL); err != nil {
		log.Warn("failed to cache search results", sl.Err(err))
	}

	log.Info("search completed", slog.String("term", term))
	render.JSON(w, r, response.StatusOKWithData(results))
}
