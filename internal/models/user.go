// Package models содержит доменную модель пользователя сервиса,
// включающую данные учётной записи и хэш пароля, а также
// вспомогательные типы для приёма данных из JSON-запросов.
package models

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string // Уникальный идентификатор пользователя
	Username     string // Имя пользователя (уникальное)
	PasswordHash string // Хэш пароля пользователя
	FirstName    string // Имя
	LastName     string // Фамилия
	Email        string // Электронная почта
}

// UserInfo представляет публичную часть профиля пользователя, без секрета.
type UserInfo struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// EnrichedUser — профиль пользователя вместе со списком любимых песен.
// FavoriteSongs всегда не nil: пустой список означает отсутствие избранного.
type EnrichedUser struct {
	UserInfo
	FavoriteSongs []FavoriteSong `json:"favorite_songs"`
}

// UpdateUserFields описывает частичное обновление профиля.
// Поля-указатели равны nil, если поле не передано в запросе.
// Password обязателен: он подтверждает личность и одновременно
// становится новым паролем пользователя. Переданный, но пустой пароль —
// это неудачное подтверждение, а не отсутствующее поле.
type UpdateUserFields struct {
	Password  *string `json:"password"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

// Empty сообщает, что запрос на обновление не содержит ни одного поля.
func (f UpdateUserFields) Empty() bool {
	return f.Password == nil && f.FirstName == nil && f.LastName == nil && f.Email == nil
}

// Info возвращает публичную часть профиля.
func (u *User) Info() UserInfo {
	return UserInfo{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
