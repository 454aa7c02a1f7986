// Package services содержит бизнес-логику кэширования песен каталога
// и ведения избранного пользователей.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/music-favorites/internal/models"
)

// FavoriteRepository определяет методы для работы с песнями и избранным в хранилище.
type FavoriteRepository interface {
	// UpsertSong кэширует песню каталога; существующая строка возвращается без изменений.
	UpsertSong(ctx context.Context, song models.Song) (*models.Song, error)
	// AddFavorite добавляет ребро избранного.
	AddFavorite(ctx context.Context, username string, externalID int64) error
	// RemoveFavorite удаляет ребро избранного и возвращает суррогатный ключ песни.
	RemoveFavorite(ctx context.Context, username string, externalID int64) (int, error)
	// IsFavorited проверяет членство песни в избранном пользователя.
	IsFavorited(ctx context.Context, externalID int64, username string) (bool, error)
}

// Cache описывает методы для инвалидации кэша профилей.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
}

// FavoriteService реализует операции над избранным, включая кэширование
// песен при первом упоминании.
type FavoriteService struct {
	repo  FavoriteRepository
	cache Cache
	log   *slog.Logger
}

// NewFavoriteService создает новый экземпляр FavoriteService.
func NewFavoriteService(repo FavoriteRepository, cache Cache, log *slog.Logger) *FavoriteService {
	return &FavoriteService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CacheSong кэширует песню каталога при первом упоминании. Повторный вызов
// с тем же внешним идентификатором — no-op, существующая строка не меняется.
func (s *FavoriteService) CacheSong(ctx context.Context, song models.Song) (*models.Song, error) {
	cached, err := s.repo.UpsertSong(ctx, song)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// Add добавляет песню каталога в избранное пользователя. Песня должна быть
// закэширована до вызова (CacheSong); незакэшированная песня — NotFound,
// повторное добавление — Conflict.
func (s *FavoriteService) Add(ctx context.Context, username string, externalID int64) error {
	if err := s.repo.AddFavorite(ctx, username, externalID); err != nil {
		return err
	}
	s.log.Info("added favorite",
		slog.String("username", username), slog.Int64("song_id", externalID))

	s.invalidateProfile(ctx, username)
	return nil
}

// Remove удаляет песню из избранного пользователя и возвращает суррогатный
// ключ удалённой песни. Отсутствующее ребро — NotFound.
func (s *FavoriteService) Remove(ctx context.Context, username string, externalID int64) (int, error) {
	songID, err := s.repo.RemoveFavorite(ctx, username, externalID)
	if err != nil {
		return 0, err
	}
	s.log.Info("removed favorite",
		slog.String("username", username), slog.Int64("song_id", externalID))

	s.invalidateProfile(ctx, username)
	return songID, nil
}

// IsFavorited проверяет членство песни каталога в избранном пользователя.
// Песня, которую никто не кэшировал, не может быть в избранном.
func (s *FavoriteService) IsFavorited(ctx context.Context, externalID int64, username string) (bool, error) {
	return s.repo.IsFavorited(ctx, externalID, username)
}

func (s *FavoriteService) invalidateProfile(ctx context.Context, username string) {
	cacheKey := "user:" + username
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
