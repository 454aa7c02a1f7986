package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/music-favorites/internal/lib/apperr"
	"github.com/magabrotheeeer/music-favorites/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных.
// Дубликат имени пользователя отдаётся как apperr.ErrConflict.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) error {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, username, password_hash, first_name, last_name, email)
			  VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := s.DB.ExecContext(ctx, query,
		user.UID, user.Username, user.PasswordHash, user.FirstName,
		user.LastName, user.Email); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w: duplicate username %q", op, apperr.ErrConflict, user.Username)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByUsername возвращает пользователя по его username.
// Неизвестный username отдаётся как apperr.ErrNotFound.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, first_name, last_name, email
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	if err := row.Scan(&u.UID, &u.Username, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: no user %q", op, apperr.ErrNotFound, username)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUser частично обновляет профиль пользователя: меняются только
// переданные поля, остальные сохраняют прежние значения. Подтверждение
// и запись выполняются в одной транзакции: строка пользователя берётся
// под блокировку FOR UPDATE, confirm получает её текущий хэш пароля, и
// только после успешного подтверждения выполняется один оператор UPDATE
// с параметризованными значениями; имена колонок берутся из фиксированного
// списка. Конкурентная смена пароля не может проскочить между проверкой
// и записью. fields.Password к этому моменту несёт свежий хэш.
// Неизвестный username отдаётся как apperr.ErrNotFound.
func (s *Storage) UpdateUser(ctx context.Context, username string, fields models.UpdateUserFields, confirm func(passwordHash string) error) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u := &models.User{}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var currentHash string
		err := tx.QueryRowContext(ctx,
			`SELECT password_hash FROM users WHERE username = $1 FOR UPDATE`,
			username).Scan(&currentHash)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: no user %q", apperr.ErrNotFound, username)
		}
		if err != nil {
			return err
		}
		if confirm != nil {
			if err := confirm(currentHash); err != nil {
				return err
			}
		}

		setCols := []string{"password_hash"}
		values := []any{*fields.Password}
		if fields.FirstName != nil {
			setCols = append(setCols, "first_name")
			values = append(values, *fields.FirstName)
		}
		if fields.LastName != nil {
			setCols = append(setCols, "last_name")
			values = append(values, *fields.LastName)
		}
		if fields.Email != nil {
			setCols = append(setCols, "email")
			values = append(values, *fields.Email)
		}

		query := `UPDATE users SET `
		for i, col := range setCols {
			if i > 0 {
				query += ", "
			}
			query += fmt.Sprintf("%s = $%d", col, i+1)
		}
		query += fmt.Sprintf(` WHERE username = $%d
			  RETURNING uid, username, password_hash, first_name, last_name, email`, len(values)+1)
		values = append(values, username)

		return tx.QueryRowContext(ctx, query, values...).Scan(&u.UID, &u.Username,
			&u.PasswordHash, &u.FirstName, &u.LastName, &u.Email)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
