// Package musicfavorites собирает приложение целиком: хранилище, миграции,
// Redis-кэш, клиент внешнего каталога, сервисы и HTTP-сервер.
package musicfavorites

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/music-favorites/internal/cache"
	"github.com/magabrotheeeer/music-favorites/internal/config"
	"github.com/magabrotheeeer/music-favorites/internal/lib/jwt"
	"github.com/magabrotheeeer/music-favorites/internal/migrations"
	"github.com/magabrotheeeer/music-favorites/internal/musicapi"
	favoriteservice "github.com/magabrotheeeer/music-favorites/internal/services/favorite"
	userservice "github.com/magabrotheeeer/music-favorites/internal/services/user"
	"github.com/magabrotheeeer/music-favorites/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tokenMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	catalogClient := musicapi.NewClient(cfg.MusicAPI)

	userService := userservice.NewUserService(db, cacheRedis, cfg.BcryptCost, logger)
	favoriteService := favoriteservice.NewFavoriteService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Deps{
		Users:      userService,
		Favorites:  favoriteService,
		Catalog:    catalogClient,
		Cache:      cacheRedis,
		TokenMaker: tokenMaker,
		Storage:    db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
