package sources

import (
	"context"

	"github.com/kerbaras/mangatrack/pkg/data"
)

// Source is a remote manga catalog.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]*data.Manga, error)
	GetManga(ctx context.Context, id string) (*data.Manga, error)
	// GetChapters returns the chapters of a manga in ascending chapter order.
	GetChapters(ctx context.Context, mangaID string) ([]*data.Chapter, error)
	// GetPages returns the page image URLs of a chapter in reading order.
	GetPages(ctx context.Context, chapterID string) ([]string, error)
}
