package reader

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/kerbaras/mangatrack/pkg/app"
	"github.com/kerbaras/mangatrack/pkg/app/styles"
	"github.com/kerbaras/mangatrack/pkg/utils"
)

// Page is a fetched and decoded chapter page.
type Page struct {
	Number int // 1-based
	URL    string
	Image  image.Image
	Format string
}

func (p *Page) Title() string {
	return fmt.Sprintf("Page %d", p.Number)
}

// Displayer shows one page. Failures wrap utils.ErrDisplay.
type Displayer interface {
	Display(ctx context.Context, page *Page) error
}

// NativeDisplay shows the page in the full screen terminal viewer.
type NativeDisplay struct {
	Available func() bool
	Show      func(img image.Image, title string) error
}

func NewNativeDisplay() *NativeDisplay {
	return &NativeDisplay{Available: app.Available, Show: app.NewViewer().Show}
}

func (d *NativeDisplay) Display(_ context.Context, page *Page) error {
	if d.Available != nil && !d.Available() {
		return fmt.Errorf("%w: terminal cannot host the native viewer", utils.ErrDisplay)
	}
	if err := d.Show(page.Image, page.Title()); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDisplay, err)
	}
	return nil
}

type fileOpener interface {
	Open(ctx context.Context, path string) error
}

// SystemViewerDisplay saves the page to its temp file and opens it with the
// host's image viewer.
type SystemViewerDisplay struct {
	temp    *TempFiles
	opener  fileOpener
	console *Console
}

func NewSystemViewerDisplay(temp *TempFiles, opener fileOpener, console *Console) *SystemViewerDisplay {
	return &SystemViewerDisplay{temp: temp, opener: opener, console: console}
}

func (d *SystemViewerDisplay) Display(ctx context.Context, page *Page) error {
	path, err := d.temp.Save(page.Number, page.Image)
	if err != nil {
		return fmt.Errorf("%w: failed to save %s: %v", utils.ErrDisplay, page.Title(), err)
	}
	if err := d.opener.Open(ctx, path); err != nil {
		return err
	}
	d.console.Success("Opened in system viewer. Close to continue...")
	return nil
}

// BrowserDisplay opens the page's remote URL in the default browser.
type BrowserDisplay struct {
	open    func(url string) error
	console *Console
}

func NewBrowserDisplay(console *Console) *BrowserDisplay {
	return &BrowserDisplay{open: browser.OpenURL, console: console}
}

func (d *BrowserDisplay) Display(_ context.Context, page *Page) error {
	if err := d.open(page.URL); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDisplay, err)
	}
	d.console.Success("Opened in browser. Close tab to continue...")
	return nil
}

// ASCIIDisplay prints the page as character art. It never fails.
type ASCIIDisplay struct {
	renderer *Renderer
	width    int
	console  *Console
}

func NewASCIIDisplay(renderer *Renderer, width int, console *Console) *ASCIIDisplay {
	return &ASCIIDisplay{renderer: renderer, width: width, console: console}
}

func (d *ASCIIDisplay) Display(_ context.Context, page *Page) error {
	art := d.renderer.Render(page.Image, d.width)
	d.console.Clear()
	d.console.Println(styles.Panel(page.Title(), strings.TrimSuffix(art, "\n")))
	return nil
}

// Selector dispatches a page to the chosen strategy and falls back to ASCII
// for that page when the strategy fails.
type Selector struct {
	displays map[Strategy]Displayer
	ascii    Displayer
	console  *Console
	log      *zap.Logger
}

func NewSelector(displays map[Strategy]Displayer, ascii Displayer, console *Console, log *zap.Logger) *Selector {
	return &Selector{displays: displays, ascii: ascii, console: console, log: log}
}

// Display shows page and returns the strategy that actually rendered it.
// The fallback is local to this call: the next page starts again from
// strategy.
func (s *Selector) Display(ctx context.Context, page *Page, strategy Strategy) Strategy {
	if strategy != ASCII {
		err := fmt.Errorf("%w: %s display is not configured", utils.ErrDisplay, strategy)
		if d, ok := s.displays[strategy]; ok {
			err = d.Display(ctx, page)
		}
		if err == nil {
			return strategy
		}
		s.log.Warn("Display failed",
			zap.Stringer("strategy", strategy), zap.Int("page", page.Number), zap.Error(err))
		s.console.Warn("%s display failed: %v", strategy, err)
		s.console.Warn("Falling back to ASCII...")
	}

	if err := s.ascii.Display(ctx, page); err != nil {
		s.log.Debug("ASCII display returned an error", zap.Error(err))
	}
	return ASCII
}
