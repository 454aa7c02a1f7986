// Package musicapi реализует клиент внешнего музыкального каталога.
package musicapi

import "encoding/json"

// SearchResults — разделы ответа поиска каталога. Содержимое разделов
// сервис не нормализует и отдаёт клиенту как есть; для непустых ответов
// раздел songs дополнительно разбирается в CatalogSong.
type SearchResults struct {
	Songs      []json.RawMessage `json:"songs"`
	Artists    []json.RawMessage `json:"artists"`
	Albums     []json.RawMessage `json:"albums"`
	Playlists  []json.RawMessage `json:"playlists"`
	MusicVideo []json.RawMessage `json:"music_videos"`
}

// CatalogSong — песня в ответе каталога. Сервис потребляет из неё только
// идентификатор, название, исполнителя и жанры.
type CatalogSong struct {
	ID         string `json:"id"`
	Attributes struct {
		URL        string   `json:"url"`
		Name       string   `json:"name"`
		ArtistName string   `json:"artistName"`
		GenreNames []string `json:"genreNames"`
	} `json:"attributes"`
}

// searchResponse — сырой ответ каталога на запрос поиска.
type searchResponse struct {
	Results struct {
		Songs       *section `json:"songs"`
		Artists     *section `json:"artists"`
		Albums      *section `json:"albums"`
		Playlists   *section `json:"playlists"`
		MusicVideos *section `json:"music-videos"`
	} `json:"results"`
}

type section struct {
	Data []json.RawMessage `json:"data"`
}

// songDetailResponse — сырой ответ каталога на запрос деталей песни.
type songDetailResponse struct {
	Data []json.RawMessage `json:"data"`
}
