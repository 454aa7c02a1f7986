// Package apperr определяет классификацию ошибок сервиса и их
// сопоставление с HTTP-статусами. Сервисы заворачивают ошибки-сентинелы
// через fmt.Errorf("...: %w"), обработчики распознают их errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated — отсутствующая, неверная или чужая личность,
	// а также неверный пароль подтверждения.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrBadInput — пустое тело обновления и прочий некорректный ввод.
	ErrBadInput = errors.New("bad input")
	// ErrNotFound — неизвестный пользователь, песня или ребро избранного.
	ErrNotFound = errors.New("not found")
	// ErrConflict — дубликат имени пользователя или ребра избранного.
	ErrConflict = errors.New("conflict")
)

// HTTPStatus возвращает HTTP-статус для ошибки сервиса.
// Неклассифицированные ошибки считаются внутренними.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadInput), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
