package musicapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/music-favorites/internal/config"
)

// Client — HTTP-клиент внешнего музыкального каталога.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создаёт новый клиент каталога из конфига.
func NewClient(cfg config.MusicAPI) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.APIToken,
		httpClient: &http.Client{Timeout: cfg.TimeoutAPI},
	}
}

func (c *Client) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

func (c *Client) do(req *http.Request, dst any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// Search выполняет поиск по каталогу со свободным текстовым запросом
// и возвращает найденные разделы. Пустые разделы остаются пустыми списками.
func (c *Client) Search(ctx context.Context, term string, limit int) (*SearchResults, error) {
	const op = "musicapi.Search"

	query := url.Values{}
	query.Set("term", term)
	query.Set("limit", fmt.Sprintf("%d", limit))

	req, err := c.newRequest(ctx, "/search", query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var raw searchResponse
	if err := c.do(req, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	results := &SearchResults{
		Songs:      sectionData(raw.Results.Songs),
		Artists:    sectionData(raw.Results.Artists),
		Albums:     sectionData(raw.Results.Albums),
		Playlists:  sectionData(raw.Results.Playlists),
		MusicVideo: sectionData(raw.Results.MusicVideos),
	}
	return results, nil
}

// SongDetail возвращает деталь одной песни каталога по её внешнему
// идентификатору: сырой JSON для передачи клиенту и разобранные атрибуты.
func (c *Client) SongDetail(ctx context.Context, externalID int64) (json.RawMessage, *CatalogSong, error) {
	const op = "musicapi.SongDetail"

	query := url.Values{}
	query.Set("ids", fmt.Sprintf("%d", externalID))

	req, err := c.newRequest(ctx, "/songs", query)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	var raw songDetailResponse
	if err := c.do(req, &raw); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(raw.Data) == 0 {
		return nil, nil, fmt.Errorf("%s: song %d not found in catalog", op, externalID)
	}

	var song CatalogSong
	if err := json.Unmarshal(raw.Data[0], &song); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw.Data[0], &song, nil
}

func sectionData(s *section) []json.RawMessage {
	if s == nil {
		return []json.RawMessage{}
	}
	return s.Data
}
