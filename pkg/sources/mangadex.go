package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kerbaras/mangatrack/pkg/data"
	"github.com/kerbaras/mangatrack/pkg/utils"
)

const (
	DefaultBaseURL = "https://api.mangadex.org"
	feedLimit      = 100
	maxTags        = 3
)

var includes = []string{"cover_art", "author", "artist"}

type Manga struct {
	ID         string `json:"id"`
	Attributes struct {
		Title       map[string]string `json:"title"`
		Description map[string]string `json:"description"`
		Status      string            `json:"status"`
		Tags        []struct {
			Attributes struct {
				Name map[string]string `json:"name"`
			} `json:"attributes"`
		} `json:"tags"`
	} `json:"attributes"`
}

func (m *Manga) ToManga() *data.Manga {
	out := &data.Manga{
		ID:          m.ID,
		Name:        localized(m.Attributes.Title, "Unknown"),
		Description: m.Attributes.Description["en"],
		Source:      "mangadex",
		Status:      m.Attributes.Status,
	}
	for _, tag := range m.Attributes.Tags {
		if len(out.Tags) == maxTags {
			break
		}
		if name := tag.Attributes.Name["en"]; name != "" {
			out.Tags = append(out.Tags, name)
		}
	}
	return out
}

type Chapter struct {
	ID         string `json:"id"`
	Attributes struct {
		Title    string `json:"title"`
		Language string `json:"translatedLanguage"`
		Volume   string `json:"volume"`
		Number   string `json:"chapter"`
		Pages    int    `json:"pages"`
	} `json:"attributes"`
}

func (c *Chapter) ToChapter(mangaID string) *data.Chapter {
	return &data.Chapter{
		ID:       c.ID,
		MangaID:  mangaID,
		Title:    c.Attributes.Title,
		Language: c.Attributes.Language,
		Volume:   c.Attributes.Volume,
		Number:   c.Attributes.Number,
		Pages:    c.Attributes.Pages,
	}
}

type MangaDex struct {
	api      *utils.API
	language string
}

func NewMangaDex(api *utils.API, language string) *MangaDex {
	if language == "" {
		language = "en"
	}
	return &MangaDex{api: api, language: language}
}

func (m *MangaDex) Search(ctx context.Context, query string, limit int) ([]*data.Manga, error) {
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	params := url.Values{
		"title":      {query},
		"limit":      {strconv.Itoa(limit)},
		"includes[]": includes,
	}
	var resp struct {
		Data []Manga `json:"data"`
	}
	if err := m.api.Get(ctx, "/manga", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	out := make([]*data.Manga, len(resp.Data))
	for i := range resp.Data {
		out[i] = resp.Data[i].ToManga()
	}
	return out, nil
}

func (m *MangaDex) GetManga(ctx context.Context, id string) (*data.Manga, error) {
	var resp struct {
		Data Manga `json:"data"`
	}
	if err := m.api.Get(ctx, "/manga/"+url.PathEscape(id), url.Values{"includes[]": includes}, &resp); err != nil {
		return nil, fmt.Errorf("manga %s: %w", id, err)
	}
	return resp.Data.ToManga(), nil
}

// GetChapters asks for translated chapters first and retries without the
// language filter when the manga has none in that language.
func (m *MangaDex) GetChapters(ctx context.Context, mangaID string) ([]*data.Chapter, error) {
	params := url.Values{
		"translatedLanguage[]": {m.language},
		"order[chapter]":       {"asc"},
		"limit":                {strconv.Itoa(feedLimit)},
	}
	feed, err := m.feed(ctx, mangaID, params)
	if err != nil {
		return nil, err
	}
	if len(feed) == 0 {
		params.Del("translatedLanguage[]")
		if feed, err = m.feed(ctx, mangaID, params); err != nil {
			return nil, err
		}
	}

	out := make([]*data.Chapter, len(feed))
	for i := range feed {
		out[i] = feed[i].ToChapter(mangaID)
	}
	return out, nil
}

func (m *MangaDex) feed(ctx context.Context, mangaID string, params url.Values) ([]Chapter, error) {
	var resp struct {
		Data []Chapter `json:"data"`
	}
	if err := m.api.Get(ctx, "/manga/"+url.PathEscape(mangaID)+"/feed", params, &resp); err != nil {
		return nil, fmt.Errorf("chapters of %s: %w", mangaID, err)
	}
	return resp.Data, nil
}

func (m *MangaDex) GetPages(ctx context.Context, chapterID string) ([]string, error) {
	var server struct {
		BaseURL string `json:"baseUrl"`
		Chapter struct {
			Hash string   `json:"hash"`
			Data []string `json:"data"`
		} `json:"chapter"`
	}
	if err := m.api.Get(ctx, "/at-home/server/"+url.PathEscape(chapterID), nil, &server); err != nil {
		return nil, fmt.Errorf("pages of %s: %w", chapterID, err)
	}
	if server.BaseURL == "" || server.Chapter.Hash == "" {
		return nil, fmt.Errorf("%w: incomplete at-home response for %s", utils.ErrNetwork, chapterID)
	}
	pages := make([]string, len(server.Chapter.Data))
	for i, file := range server.Chapter.Data {
		pages[i] = fmt.Sprintf("%s/data/%s/%s", server.BaseURL, server.Chapter.Hash, file)
	}
	return pages, nil
}

// localized picks the English value, then any other one, then fallback.
func localized(values map[string]string, fallback string) string {
	if v := values["en"]; v != "" {
		return v
	}
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return fallback
}
