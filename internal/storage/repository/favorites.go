package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

// AddFavorite добавляет песню каталога в избранное пользователя.
// Последовательность проверок и вставка выполняются в одной транзакции;
// ограничение уникальности на паре (username, song_id) — последний рубеж
// против гонки двух одинаковых запросов, его нарушение отдаётся как
// apperr.ErrConflict. Песня должна быть закэширована до вызова.
func (s *Storage) AddFavorite(ctx context.Context, username string, externalID int64) error {
	const op = "storage.AddFavorite"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		songID, err := lookupUserAndSong(ctx, tx, username, externalID)
		if err != nil {
			return err
		}

		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM favorites WHERE username = $1 AND song_id = $2)`,
			username, songID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: song %d is already in the favorites of %q", apperr.ErrConflict, externalID, username)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO favorites (username, song_id) VALUES ($1, $2)`,
			username, songID); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: song %d is already in the favorites of %q", apperr.ErrConflict, externalID, username)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveFavorite удаляет песню каталога из избранного пользователя и
// возвращает суррогатный ключ удалённой песни. Отсутствующее ребро — это
// apperr.ErrNotFound: удаление не идемпотентно. Строка самой песни удаляется
// только когда на неё не осталось ни одного ребра избранного, чтобы не
// ломать избранное других пользователей.
func (s *Storage) RemoveFavorite(ctx context.Context, username string, externalID int64) (int, error) {
	const op = "storage.RemoveFavorite"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var songID int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		songID, err = lookupUserAndSong(ctx, tx, username, externalID)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM favorites WHERE username = $1 AND song_id = $2`,
			username, songID)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return fmt.Errorf("%w: song %d is not in the favorites of %q", apperr.ErrNotFound, externalID, username)
		}

		var remaining bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM favorites WHERE song_id = $1)`,
			songID).Scan(&remaining)
		if err != nil {
			return err
		}
		if !remaining {
			if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, songID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return songID, nil
}

// ListFavoriteSongs возвращает детали всех любимых песен пользователя.
// Одиночный параметризованный JOIN: пустое избранное даёт пустой список,
// а не некорректный запрос.
func (s *Storage) ListFavoriteSongs(ctx context.Context, username string) ([]models.FavoriteSong, error) {
	const op = "storage.ListFavoriteSongs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.song_id, s.song_name, s.song_artist, s.song_genre_names
			  FROM favorites f
			  JOIN songs s ON s.id = f.song_id
			  WHERE f.username = $1
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.FavoriteSong, 0)
	for rows.Next() {
		var item models.FavoriteSong
		if err := rows.Scan(&item.SongID, &item.Name, &item.Artist, &item.GenreNames); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// lookupUserAndSong проверяет существование пользователя и закэшированной
// песни внутри транзакции и возвращает суррогатный ключ песни.
func lookupUserAndSong(ctx context.Context, tx *sql.Tx, username string, externalID int64) (int, error) {
	var found string
	err := tx.QueryRowContext(ctx,
		`SELECT username FROM users WHERE username = $1`, username).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no user %q", apperr.ErrNotFound, username)
	}
	if err != nil {
		return 0, err
	}

	var songID int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM songs WHERE song_id = $1`, externalID).Scan(&songID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no song with external id %d", apperr.ErrNotFound, externalID)
	}
	if err != nil {
		return 0, err
	}
	return songID, nil
}
