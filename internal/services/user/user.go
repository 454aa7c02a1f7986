// Package services содержит логику бизнес-уровня для работы с профилями
// пользователей: аутентификацию, регистрацию, чтение и частичное обновление.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/lib/password"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя.
	RegisterUser(ctx context.Context, user models.User) error

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUser частично обновляет профиль и возвращает обновлённую строку.
	// confirm вызывается с текущим хэшем пароля внутри той же транзакции,
	// что и запись; его ошибка отменяет обновление.
	UpdateUser(ctx context.Context, username string, fields models.UpdateUserFields, confirm func(passwordHash string) error) (*models.User, error)

	// ListFavoriteSongs возвращает детали любимых песен пользователя.
	ListFavoriteSongs(ctx context.Context, username string) ([]models.FavoriteSong, error)
}

// Cache описывает методы для кэширования обогащённых профилей.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// UserService реализует операции над профилем пользователя.
type UserService struct {
	users      UserRepository
	cache      Cache
	bcryptCost int
	log        *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
// bcryptCost настраивается конфигом: в тестах ниже, чем в продакшене.
func NewUserService(users UserRepository, cache Cache, bcryptCost int, log *slog.Logger) *UserService {
	return &UserService{
		users:      users,
		cache:      cache,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Дубликат имени пользователя отдаётся как apperr.ErrConflict.
func (s *UserService) Register(ctx context.Context, username, rawPassword, firstName, lastName, email string) (*models.UserInfo, error) {
	hashed, err := password.GetHash(rawPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		UID:          uuid.NewString(),
		Username:     username,
		PasswordHash: hashed,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
	}
	if err := s.users.RegisterUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("registered new user", slog.String("username", username))

	info := user.Info()
	return &info, nil
}

// Authenticate проверяет пароль пользователя и возвращает профиль без секрета.
// Неизвестное имя и неверный пароль неразличимы для вызывающего:
// оба случая — apperr.ErrUnauthenticated.
func (s *UserService) Authenticate(ctx context.Context, username, rawPassword string) (*models.UserInfo, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthenticated)
		}
		return nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthenticated)
	}

	info := user.Info()
	return &info, nil
}

// Get возвращает обогащённый профиль пользователя: публичные поля плюс
// детали всех любимых песен. Профиль кэшируется до первой мутации.
func (s *UserService) Get(ctx context.Context, username string) (*models.EnrichedUser, error) {
	cacheKey := "user:" + username

	var cached models.EnrichedUser
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read profile from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	favorites, err := s.users.ListFavoriteSongs(ctx, username)
	if err != nil {
		return nil, err
	}

	enriched := &models.EnrichedUser{
		UserInfo:      user.Info(),
		FavoriteSongs: favorites,
	}
	if err := s.cache.Set(ctx, cacheKey, enriched, time.Hour); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return enriched, nil
}

// Update частично обновляет профиль пользователя. Пустое тело — apperr.ErrBadInput.
// Поле password обязательно при каждом обновлении: оно подтверждает личность
// по текущему хэшу и, подтверждённое, само перехэшируется и сохраняется.
// Переданный пустой пароль — неудачное подтверждение, apperr.ErrUnauthenticated.
// Подтверждение выполняется хранилищем в одной транзакции с записью, поэтому
// конкурентная смена пароля не может вклиниться между проверкой и записью.
// Непереданные поля сохраняют прежние значения.
func (s *UserService) Update(ctx context.Context, username string, fields models.UpdateUserFields) (*models.EnrichedUser, error) {
	if fields.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", apperr.ErrBadInput)
	}
	raw := ""
	if fields.Password != nil {
		raw = *fields.Password
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: password confirmation is required", apperr.ErrUnauthenticated)
	}

	hashed, err := password.GetHash(raw, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	fields.Password = &hashed

	updated, err := s.users.UpdateUser(ctx, username, fields, func(currentHash string) error {
		if err := password.CompareHash(currentHash, raw); err != nil {
			return fmt.Errorf("%w: password is incorrect", apperr.ErrUnauthenticated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("updated user profile", slog.String("username", username))

	cacheKey := "user:" + username
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	favorites, err := s.users.ListFavoriteSongs(ctx, username)
	if err != nil {
		return nil, err
	}
	return &models.EnrichedUser{
		UserInfo:      updated.Info(),
		FavoriteSongs: favorites,
	}, nil
}
