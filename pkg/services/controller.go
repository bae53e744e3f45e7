package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kerbaras/mangatrack/pkg/config"
	"github.com/kerbaras/mangatrack/pkg/data"
	"github.com/kerbaras/mangatrack/pkg/integrations"
	"github.com/kerbaras/mangatrack/pkg/reader"
	"github.com/kerbaras/mangatrack/pkg/sources"
)

// ReadOptions describes one interactive chapter read.
type ReadOptions struct {
	MangaID  string
	Chapter  string // chapter number; empty selects the first chapter
	Strategy reader.Strategy
	MaxPages int
	In       io.Reader
	Out      io.Writer
}

type MangaController struct {
	source     sources.Source
	store      data.Store
	downloader *Downloader
	cfg        *config.Config
	log        *zap.Logger

	// displays builds the non-ASCII display strategies for one session.
	displays func(temp *reader.TempFiles, console *reader.Console) map[reader.Strategy]reader.Displayer
	now      func() time.Time
}

func NewMangaController(source sources.Source, store data.Store, downloader *Downloader, cfg *config.Config, log *zap.Logger) *MangaController {
	return &MangaController{
		source:     source,
		store:      store,
		downloader: downloader,
		cfg:        cfg,
		log:        log,
		displays:   defaultDisplays,
		now:        time.Now,
	}
}

func defaultDisplays(temp *reader.TempFiles, console *reader.Console) map[reader.Strategy]reader.Displayer {
	return map[reader.Strategy]reader.Displayer{
		reader.Native:       reader.NewNativeDisplay(),
		reader.SystemViewer: reader.NewSystemViewerDisplay(temp, reader.NewOpener(), console),
		reader.Browser:      reader.NewBrowserDisplay(console),
	}
}

func (c *MangaController) Search(ctx context.Context, query string, limit int) ([]*data.Manga, error) {
	return c.source.Search(ctx, query, limit)
}

func (c *MangaController) GetManga(ctx context.Context, id string) (*data.Manga, error) {
	return c.source.GetManga(ctx, id)
}

func (c *MangaController) Chapters(ctx context.Context, mangaID string) ([]*data.Chapter, error) {
	return c.source.GetChapters(ctx, mangaID)
}

// Track adds a manga to the library and records its current chapter count.
// It reports whether the manga was newly tracked.
func (c *MangaController) Track(ctx context.Context, mangaID string) (*data.Manga, bool, error) {
	manga, err := c.source.GetManga(ctx, mangaID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get manga: %w", err)
	}

	added, err := c.store.Track(manga.ID, manga.Name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to track manga: %w", err)
	}

	chapters, err := c.source.GetChapters(ctx, manga.ID)
	if err != nil {
		c.log.Warn("Failed to count chapters", zap.String("manga", manga.ID), zap.Error(err))
		return manga, added, nil
	}
	if err := c.store.SetTotalChapters(manga.ID, len(chapters)); err != nil {
		return manga, added, fmt.Errorf("failed to save chapter count: %w", err)
	}
	return manga, added, nil
}

func (c *MangaController) Untrack(mangaID string) error {
	return c.store.Untrack(mangaID)
}

func (c *MangaController) Library() ([]*data.TrackedManga, error) {
	return c.store.List()
}

// MarkRead records chapter as read for a tracked manga.
func (c *MangaController) MarkRead(mangaID, chapter string) error {
	tracked, err := c.store.Get(mangaID)
	if err != nil {
		return err
	}
	if tracked == nil {
		return fmt.Errorf("%w: %s", data.ErrNotTracked, mangaID)
	}
	return c.store.MarkChapterRead(mangaID, chapter, c.now())
}

// ResolveChapter picks the chapter whose number equals requested numerically.
// Empty, non-numeric or unmatched requests fall back to the first chapter.
func (c *MangaController) ResolveChapter(chapters []*data.Chapter, requested string) *data.Chapter {
	if len(chapters) == 0 {
		return nil
	}
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return chapters[0]
	}

	want, err := strconv.ParseFloat(requested, 64)
	if err == nil {
		for _, ch := range chapters {
			if n, err := strconv.ParseFloat(ch.Number, 64); err == nil && n == want {
				return ch
			}
		}
	}

	c.log.Warn("Chapter not found, using the first chapter",
		zap.String("requested", requested), zap.String("chapter", chapters[0].Number))
	return chapters[0]
}

// ReadChapter runs the reading loop over one chapter and reports whether any
// page was displayed. Progress is recorded only for tracked manga and only
// when the session ended normally.
func (c *MangaController) ReadChapter(ctx context.Context, opts ReadOptions) (bool, error) {
	chapters, err := c.source.GetChapters(ctx, opts.MangaID)
	if err != nil {
		return false, fmt.Errorf("failed to get chapters: %w", err)
	}
	chapter := c.ResolveChapter(chapters, opts.Chapter)
	if chapter == nil {
		return false, fmt.Errorf("no chapters available for %s", opts.MangaID)
	}

	pages, err := c.source.GetPages(ctx, chapter.ID)
	if err != nil {
		return false, fmt.Errorf("failed to get pages: %w", err)
	}
	if len(pages) == 0 {
		return false, fmt.Errorf("no pages found for chapter %s", chapter.Number)
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = c.cfg.MaxPages
	}

	console := reader.NewConsole(opts.In, opts.Out)
	temp := reader.NewTempFiles(c.cfg.TempDir)
	ascii := reader.NewASCIIDisplay(reader.NewRenderer(), c.cfg.ASCIIWidth, console)
	selector := reader.NewSelector(c.displays(temp, console), ascii, console, c.log)
	walker := reader.NewWalker(c.downloader, selector, console, temp, c.log)

	c.log.Info("Reading chapter",
		zap.String("manga", opts.MangaID),
		zap.String("chapter", chapter.Number),
		zap.Int("pages", len(pages)),
		zap.Stringer("strategy", opts.Strategy))

	session := walker.Walk(ctx, pages, opts.Strategy, maxPages)
	c.log.Debug("Session finished", zap.Stringer("state", session.State), zap.Ints("shown", session.Shown))

	if session.State != reader.StateDone || !session.DisplayedAny() {
		return session.DisplayedAny(), nil
	}

	tracked, err := c.store.Get(opts.MangaID)
	if err != nil {
		return true, err
	}
	if tracked != nil {
		if err := c.store.MarkChapterRead(opts.MangaID, progressKey(chapter), c.now()); err != nil {
			return true, fmt.Errorf("failed to record progress: %w", err)
		}
	}
	return true, nil
}

// progressKey is the chapter number recorded as read. Oneshots count as
// chapter 1.
func progressKey(ch *data.Chapter) string {
	if ch.Number == "" {
		return "1"
	}
	return ch.Number
}

// ExportOptions selects the chapter to export and, optionally, the e-reader
// profile its pages are fitted to.
type ExportOptions struct {
	MangaID string
	Chapter string
	Device  string
}

// Export downloads a chapter and writes it as an EPUB into the configured
// export directory.
func (c *MangaController) Export(ctx context.Context, opts ExportOptions, progress func(DownloadProgress)) (string, error) {
	var optimizer *integrations.PageOptimizer
	if opts.Device != "" {
		device, ok := integrations.LookupDevice(opts.Device)
		if !ok {
			return "", fmt.Errorf("unknown device %q", opts.Device)
		}
		optimizer = integrations.NewPageOptimizer(device)
	}

	manga, err := c.source.GetManga(ctx, opts.MangaID)
	if err != nil {
		return "", fmt.Errorf("failed to get manga: %w", err)
	}
	chapters, err := c.source.GetChapters(ctx, opts.MangaID)
	if err != nil {
		return "", fmt.Errorf("failed to get chapters: %w", err)
	}
	chapter := c.ResolveChapter(chapters, opts.Chapter)
	if chapter == nil {
		return "", fmt.Errorf("no chapters available for %s", opts.MangaID)
	}

	images, err := c.downloader.DownloadChapter(ctx, chapter.ID, progress)
	if err != nil {
		return "", err
	}

	if optimizer != nil {
		for i, content := range images {
			if images[i], err = optimizer.Optimize(content); err != nil {
				return "", fmt.Errorf("failed to optimize page %d: %w", i+1, err)
			}
		}
		c.log.Debug("Pages optimized", zap.String("device", opts.Device), zap.Int("pages", len(images)))
	}

	builder := integrations.NewEPubBuilder(c.cfg.ExportDir)
	return builder.Build(manga, chapter, images)
}

// Close cleans up resources
func (c *MangaController) Close() error {
	c.downloader.Close()
	return c.store.Close()
}
