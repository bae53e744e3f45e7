package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kerbaras/mangatrack/pkg/sources"
	"github.com/kerbaras/mangatrack/pkg/utils"
)

// DefaultRateLimit keeps bulk page downloads at 2 req/sec.
const DefaultRateLimit = 500 * time.Millisecond

// DownloadProgress represents the progress of a chapter download
type DownloadProgress struct {
	ChapterID   string
	CurrentPage int
	TotalPages  int
	Status      string // "downloading", "complete", "error"
	Error       error
}

// Downloader fetches page images. Interactive reads go through FetchPage
// directly; bulk chapter downloads are rate limited.
type Downloader struct {
	source      sources.Source
	client      *http.Client
	rateLimiter *time.Ticker
	log         *zap.Logger
}

// NewDownloader creates a Downloader. A zero interval disables rate limiting.
func NewDownloader(source sources.Source, client *http.Client, interval time.Duration, log *zap.Logger) *Downloader {
	d := &Downloader{source: source, client: client, log: log}
	if d.client == nil {
		d.client = &http.Client{Timeout: utils.DefaultTimeout}
	}
	if interval > 0 {
		d.rateLimiter = time.NewTicker(interval)
	}
	return d
}

// FetchPage downloads a single page image. Any failure wraps utils.ErrNetwork.
func (d *Downloader) FetchPage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrNetwork, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch image: %v", utils.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: bad status: %s", utils.ErrNetwork, resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image content: %v", utils.ErrNetwork, err)
	}
	return content, nil
}

// DownloadChapter fetches every page of a chapter in reading order.
func (d *Downloader) DownloadChapter(ctx context.Context, chapterID string, progress func(DownloadProgress)) ([][]byte, error) {
	if progress == nil {
		progress = func(DownloadProgress) {}
	}

	pages, err := d.source.GetPages(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages found for chapter %s", chapterID)
	}

	images := make([][]byte, 0, len(pages))
	for i, pageURL := range pages {
		if err := d.wait(ctx); err != nil {
			return nil, err
		}
		progress(DownloadProgress{ChapterID: chapterID, CurrentPage: i + 1, TotalPages: len(pages), Status: "downloading"})

		content, err := d.FetchPage(ctx, pageURL)
		if err != nil {
			progress(DownloadProgress{ChapterID: chapterID, CurrentPage: i + 1, TotalPages: len(pages), Status: "error", Error: err})
			return nil, fmt.Errorf("failed to download page %d: %w", i+1, err)
		}
		d.log.Debug("Page downloaded", zap.String("chapter", chapterID), zap.Int("page", i+1), zap.Int("bytes", len(content)))
		images = append(images, content)
	}

	progress(DownloadProgress{ChapterID: chapterID, CurrentPage: len(pages), TotalPages: len(pages), Status: "complete"})
	return images, nil
}

func (d *Downloader) wait(ctx context.Context) error {
	if d.rateLimiter == nil {
		return ctx.Err()
	}
	select {
	case <-d.rateLimiter.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cleans up resources
func (d *Downloader) Close() {
	if d.rateLimiter != nil {
		d.rateLimiter.Stop()
	}
}
