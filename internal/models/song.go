// Package models содержит доменные структуры кэшированных песен каталога.
package models

// Song представляет песню, закэшированную из внешнего каталога.
// ID — суррогатный ключ хранилища, ExternalID — идентификатор песни
// во внешнем каталоге (уникален среди закэшированных строк).
type Song struct {
	ID         int    // Суррогатный ключ хранилища
	ExternalID int64  // Идентификатор песни во внешнем каталоге
	Name       string // Название песни
	Artist     string // Исполнитель
	GenreNames string // Жанры, как их отдаёт каталог
}

// FavoriteSong — строка избранного в обогащённом профиле пользователя.
type FavoriteSong struct {
	SongID     int64  `json:"song_id"`
	Name       string `json:"song_name"`
	Artist     string `json:"song_artist"`
	GenreNames string `json:"song_genre_names"`
}
