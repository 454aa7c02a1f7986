package musicfavorites

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/music-favorites/internal/cache"
	"github.com/magabrotheeeer/music-favorites/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/music-favorites/internal/http/handlers/auth/register"
	catalogread "github.com/magabrotheeeer/music-favorites/internal/http/handlers/catalog/read"
	"github.com/magabrotheeeer/music-favorites/internal/http/handlers/catalog/search"
	"github.com/magabrotheeeer/music-favorites/internal/http/handlers/favorite/add"
	"github.com/magabrotheeeer/music-favorites/internal/http/handlers/favorite/remove"
	"github.com/magabrotheeeer/music-favorites/internal/http/handlers/health"
	userread "github.com/magabrotheeeer/music-favorites/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/music-favorites/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/music-favorites/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-favorites/internal/lib/jwt"
	"github.com/magabrotheeeer/music-favorites/internal/musicapi"
	favoriteservice "github.com/magabrotheeeer/music-favorites/internal/services/favorite"
	userservice "github.com/magabrotheeeer/music-favorites/internal/services/user"
	"github.com/magabrotheeeer/music-favorites/internal/storage/repository"
)

// Deps — зависимости HTTP-слоя, собранные при старте приложения.
type Deps struct {
	Users      *userservice.UserService
	Favorites  *favoriteservice.FavoriteService
	Catalog    *musicapi.Client
	Cache      *cache.Cache
	TokenMaker jwt.Maker
	Storage    *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps *Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Токен разбирается на каждом запросе; его отсутствие не ошибка,
	// запрос просто остается анонимным.
	r.Use(middlewarectx.Identity(deps.TokenMaker, logger))

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, deps.Users, deps.TokenMaker).ServeHTTP)
		r.Post("/auth/token", login.New(logger, deps.Users, deps.TokenMaker).ServeHTTP)

		// Детали песни доступны и анонимно: флаг favorited тогда всегда false
		r.Get("/catalog/songs/{id}", catalogread.New(logger, deps.Catalog, deps.Favorites).ServeHTTP)

		// Поиск требует любой аутентифицированной личности
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireUser(logger))
			r.Get("/catalog/search/{term}", search.New(logger, deps.Catalog, deps.Cache).ServeHTTP)
		})

		// Маршруты профиля доступны только его владельцу
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireOwner(logger))
			r.Get("/users/{username}", userread.New(logger, deps.Users).ServeHTTP)
			r.Patch("/users/{username}", update.New(logger, deps.Users).ServeHTTP)
			r.Post("/users/{username}/songs/{id}", add.New(logger, deps.Favorites).ServeHTTP)
			r.Delete("/users/{username}/songs/{id}", remove.New(logger, deps.Favorites).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, deps.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
