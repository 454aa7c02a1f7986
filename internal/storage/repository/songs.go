package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

// UpsertSong кэширует песню каталога: если строка с таким внешним song_id
// уже есть, она возвращается без изменений (первый писатель выигрывает),
// иначе вставляется новая. Повторная вставка при гонке двух запросов
// разрешается повторным чтением, не ошибкой.
func (s *Storage) UpsertSong(ctx context.Context, song models.Song) (*models.Song, error) {
	const op = "storage.UpsertSong"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	existing, err := s.GetSongByExternalID(ctx, song.ExternalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO songs (song_id, song_name, song_artist, song_genre_names)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	row := s.DB.QueryRowContext(ctx, query,
		song.ExternalID, song.Name, song.Artist, song.GenreNames)
	if err := row.Scan(&song.ID); err != nil {
		if isUniqueViolation(err) {
			// Конкурентный запрос успел вставить ту же песню
			return s.GetSongByExternalID(ctx, song.ExternalID)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &song, nil
}

// GetSongByExternalID возвращает закэшированную песню по идентификатору
// внешнего каталога. Незакэшированная песня отдаётся как apperr.ErrNotFound.
func (s *Storage) GetSongByExternalID(ctx context.Context, externalID int64) (*models.Song, error) {
	const op = "storage.GetSongByExternalID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, song_id, song_name, song_artist, song_genre_names
			  FROM songs
			  WHERE song_id = $1`
	song := &models.Song{}
	row := s.DB.QueryRowContext(ctx, query, externalID)
	if err := row.Scan(&song.ID, &song.ExternalID, &song.Name,
		&song.Artist, &song.GenreNames); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: no song with external id %d", op, apperr.ErrNotFound, externalID)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return song, nil
}

// IsFavorited проверяет, находится ли песня каталога в избранном пользователя.
// Незакэшированная песня означает false: её никто не мог добавить в избранное.
func (s *Storage) IsFavorited(ctx context.Context, externalID int64, username string) (bool, error) {
	const op = "storage.IsFavorited"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1
				  FROM favorites f
				  JOIN songs s ON s.id = f.song_id
				  WHERE s.song_id = $1
					AND f.username = $2
			  )`
	var favorited bool
	if err := s.DB.QueryRowContext(ctx, query, externalID, username).Scan(&favorited); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return favorited, nil
}
