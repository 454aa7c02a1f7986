package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	user := models.User{
		UID:          uuid.New().String(),
		Username:     "testuser",
		PasswordHash: "hashedpassword",
		FirstName:    "Test",
		LastName:     "User",
		Email:        "test@example.com",
	}

	t.Run("successful register", func(t *testing.T) {
		err := storage.RegisterUser(context.Background(), user)
		require.NoError(t, err)

		got, err := storage.GetUserByUsername(context.Background(), "testuser")
		require.NoError(t, err)
		assert.Equal(t, user.UID, got.UID)
		assert.Equal(t, "test@example.com", got.Email)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := user
		dup.UID = uuid.New().String()
		err := storage.RegisterUser(context.Background(), dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestStorage_GetUserByUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "testuser", "hashedpassword", "Test", "User", "test@example.com")

	t.Run("existing user", func(t *testing.T) {
		got, err := storage.GetUserByUsername(context.Background(), "testuser")
		require.NoError(t, err)
		assert.Equal(t, "Test", got.FirstName)
		assert.Equal(t, "hashedpassword", got.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := storage.GetUserByUsername(context.Background(), "ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStorage_UpdateUser(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, "testuser", "oldhash", "Test", "User", "test@example.com")

		got, err := storage.UpdateUser(context.Background(), "testuser", models.UpdateUserFields{
			Password:  strPtr("newhash"),
			FirstName: strPtr("Updated"),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.FirstName)
		assert.Equal(t, "User", got.LastName)
		assert.Equal(t, "test@example.com", got.Email)
		assert.Equal(t, "newhash", got.PasswordHash)
	})

	t.Run("all fields", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, "testuser", "oldhash", "Test", "User", "test@example.com")

		got, err := storage.UpdateUser(context.Background(), "testuser", models.UpdateUserFields{
			Password:  strPtr("newhash"),
			FirstName: strPtr("A"),
			LastName:  strPtr("B"),
			Email:     strPtr("new@example.com"),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "A", got.FirstName)
		assert.Equal(t, "B", got.LastName)
		assert.Equal(t, "new@example.com", got.Email)
	})

	t.Run("confirm sees the stored hash before the write", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, "testuser", "oldhash", "Test", "User", "test@example.com")

		var seen string
		got, err := storage.UpdateUser(context.Background(), "testuser", models.UpdateUserFields{
			Password: strPtr("newhash"),
		}, func(passwordHash string) error {
			seen = passwordHash
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "oldhash", seen)
		assert.Equal(t, "newhash", got.PasswordHash)
	})

	t.Run("failed confirmation aborts the whole update", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, "testuser", "oldhash", "Test", "User", "test@example.com")

		_, err := storage.UpdateUser(context.Background(), "testuser", models.UpdateUserFields{
			Password:  strPtr("newhash"),
			FirstName: strPtr("Updated"),
		}, func(string) error {
			return apperr.ErrUnauthenticated
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

		got, err := storage.GetUserByUsername(context.Background(), "testuser")
		require.NoError(t, err)
		assert.Equal(t, "oldhash", got.PasswordHash)
		assert.Equal(t, "Test", got.FirstName)
	})

	t.Run("unknown user", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		_, err := storage.UpdateUser(context.Background(), "ghost", models.UpdateUserFields{
			Password: strPtr("newhash"),
		}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStorage_UpsertSong(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	song := models.Song{
		ExternalID: 42,
		Name:       "Song A",
		Artist:     "Artist A",
		GenreNames: "Pop, Rock",
	}

	t.Run("first insert", func(t *testing.T) {
		got, err := storage.UpsertSong(context.Background(), song)
		require.NoError(t, err)
		assert.NotZero(t, got.ID)
		assert.Equal(t, int64(42), got.ExternalID)
	})

	t.Run("repeated upsert keeps first row", func(t *testing.T) {
		changed := song
		changed.Name = "Renamed"

		got, err := storage.UpsertSong(context.Background(), changed)
		require.NoError(t, err)
		assert.Equal(t, "Song A", got.Name)

		verification := NewTestVerification(storage)
		verification.VerifySongCount(t, 42, 1)
	})
}

func TestStorage_AddFavorite(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "testuser", "hashedpassword", "Test", "User", "test@example.com")
	factory.CreateSong(t, 42, "Song A", "Artist A", "Pop")

	t.Run("successful add", func(t *testing.T) {
		err := storage.AddFavorite(context.Background(), "testuser", 42)
		require.NoError(t, err)

		favorited, err := storage.IsFavorited(context.Background(), 42, "testuser")
		require.NoError(t, err)
		assert.True(t, favorited)
	})

	t.Run("duplicate favorite", func(t *testing.T) {
		err := storage.AddFavorite(context.Background(), "testuser", 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := storage.AddFavorite(context.Background(), "ghost", 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("uncached song", func(t *testing.T) {
		err := storage.AddFavorite(context.Background(), "testuser", 999)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStorage_AddFavorite_Concurrent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "testuser", "hashedpassword", "Test", "User", "test@example.com")
	factory.CreateSong(t, 42, "Song A", "Artist A", "Pop")

	t.Run("two parallel adds: one wins, one gets a conflict", func(t *testing.T) {
		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = storage.AddFavorite(context.Background(), "testuser", 42)
			}(i)
		}
		wg.Wait()

		var ok, conflicts int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperr.ErrConflict):
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, conflicts)

		verification := NewTestVerification(storage)
		verification.VerifyFavoriteCount(t, "testuser", 1)
	})
}

func TestStorage_UpsertSong_Concurrent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	song := models.Song{
		ExternalID: 42,
		Name:       "Song A",
		Artist:     "Artist A",
		GenreNames: "Pop, Rock",
	}

	t.Run("two parallel upserts land on one row", func(t *testing.T) {
		results := make([]*models.Song, 2)
		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = storage.UpsertSong(context.Background(), song)
			}(i)
		}
		wg.Wait()

		for i := range errs {
			require.NoError(t, errs[i])
			require.NotNil(t, results[i])
		}
		assert.Equal(t, results[0].ID, results[1].ID)

		verification := NewTestVerification(storage)
		verification.VerifySongCount(t, 42, 1)
	})
}

func TestStorage_RemoveFavorite(t *testing.T) {
	t.Run("last edge removes the song row", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, "testuser", "hashedpassword", "Test", "User", "test@example.com")
		songID := factory.CreateSong(t, 42, "Song A", "Artist A", "Pop")
		factory.CreateFavorite(t, "testuser", songID)

		got, err := storage.RemoveFavorite(context.Background(), "testuser", 42)
		require.NoError(t, err)
		assert.Equal(t, songID, got)

		verification := NewTestVerification(storage)
		verification.VerifyFavoriteCount(t, "testuser", 0)
		verification.VerifySongCount(t, 42, 0)
	})

	t.Run("song shared with another user survives", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, "user1", "hash1", "A", "A", "a@example.com")
		factory.CreateUser(t, "user2", "hash2", "B", "B", "b@example.com")
		songID := factory.CreateSong(t, 42, "Song A", "Artist A", "Pop")
		factory.CreateFavorite(t, "user1", songID)
		factory.CreateFavorite(t, "user2", songID)

		_, err := storage.RemoveFavorite(context.Background(), "user1", 42)
		require.NoError(t, err)

		verification := NewTestVerification(storage)
		verification.VerifySongCount(t, 42, 1)

		favorited, err := storage.IsFavorited(context.Background(), 42, "user2")
		require.NoError(t, err)
		assert.True(t, favorited)
	})

	t.Run("not in favorites", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, "testuser", "hashedpassword", "Test", "User", "test@example.com")
		factory.CreateSong(t, 42, "Song A", "Artist A", "Pop")

		_, err := storage.RemoveFavorite(context.Background(), "testuser", 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStorage_ListFavoriteSongs(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "testuser", "hashedpassword", "Test", "User", "test@example.com")
	songID1 := factory.CreateSong(t, 42, "Song A", "Artist A", "Pop")
	songID2 := factory.CreateSong(t, 43, "Song B", "Artist B", "Rock")
	factory.CreateFavorite(t, "testuser", songID1)
	factory.CreateFavorite(t, "testuser", songID2)

	t.Run("all favorites with details", func(t *testing.T) {
		got, err := storage.ListFavoriteSongs(context.Background(), "testuser")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(42), got[0].SongID)
		assert.Equal(t, "Song A", got[0].Name)
		assert.Equal(t, "Rock", got[1].GenreNames)
	})

	t.Run("empty favorites stay an empty list", func(t *testing.T) {
		factory.CreateUser(t, "empty", "hash", "E", "E", "e@example.com")

		got, err := storage.ListFavoriteSongs(context.Background(), "empty")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestStorage_IsFavorited(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "testuser", "hashedpassword", "Test", "User", "test@example.com")
	songID := factory.CreateSong(t, 42, "Song A", "Artist A", "Pop")
	factory.CreateFavorite(t, "testuser", songID)

	t.Run("favorited", func(t *testing.T) {
		got, err := storage.IsFavorited(context.Background(), 42, "testuser")
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("uncached song is never favorited", func(t *testing.T) {
		got, err := storage.IsFavorited(context.Background(), 999, "testuser")
		require.NoError(t, err)
		assert.False(t, got)
	})
}
