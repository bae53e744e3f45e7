package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/kerbaras/mangatrack/pkg/app/components"
	"github.com/kerbaras/mangatrack/pkg/app/styles"
	"github.com/kerbaras/mangatrack/pkg/utils"
)

// PageFetcher downloads a page image. Failures wrap utils.ErrNetwork.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

type State int

const (
	StateLoading State = iota
	StateAwaitingInput
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is one pass of the reading loop over a chapter.
type Session struct {
	Pages    []string
	Index    int
	Strategy Strategy
	MaxPages int
	State    State
	// Shown lists page indices in the order they were displayed.
	Shown []int
	Err   error
}

// Limit is the number of pages the session may walk through. A MaxPages of
// zero or less means no cap.
func (s *Session) Limit() int {
	if s.MaxPages <= 0 || s.MaxPages > len(s.Pages) {
		return len(s.Pages)
	}
	return s.MaxPages
}

// DisplayedAny reports whether at least one page reached the screen.
func (s *Session) DisplayedAny() bool {
	return len(s.Shown) > 0
}

// Next computes the transition out of AwaitingInput(i).
func Next(i, limit int, input string) (int, State) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "q":
		return i, StateDone
	case "b":
		if i > 0 {
			return i - 1, StateLoading
		}
		return i, StateLoading
	default:
		if i+1 < limit {
			return i + 1, StateLoading
		}
		return i, StateDone
	}
}

// Walker drives the page by page reading loop.
type Walker struct {
	fetcher  PageFetcher
	selector *Selector
	console  *Console
	temp     *TempFiles
	log      *zap.Logger
}

func NewWalker(fetcher PageFetcher, selector *Selector, console *Console, temp *TempFiles, log *zap.Logger) *Walker {
	return &Walker{fetcher: fetcher, selector: selector, console: console, temp: temp, log: log}
}

// Walk reads pages until the user quits, the cap is reached or a page fails
// to load. Errors end the session; they are recorded in Session.Err and
// never returned.
func (w *Walker) Walk(ctx context.Context, pages []string, strategy Strategy, maxPages int) *Session {
	s := &Session{Pages: pages, Strategy: strategy, MaxPages: maxPages, State: StateLoading}
	limit := s.Limit()
	if limit == 0 {
		s.State = StateDone
	}

	for s.State == StateLoading || s.State == StateAwaitingInput {
		if err := ctx.Err(); err != nil {
			s.Err = err
			s.State = StateAborted
			break
		}

		switch s.State {
		case StateLoading:
			w.console.Println(components.PageLoading(s.Index+1, limit))
			page, err := w.load(ctx, s.Index, pages[s.Index])
			if err != nil {
				w.console.Error("Failed to load page %d: %v", s.Index+1, err)
				w.log.Warn("Page load failed", zap.Int("page", s.Index+1), zap.Error(err))
				s.Err = err
				s.State = StateAborted
				continue
			}
			used := w.selector.Display(ctx, page, strategy)
			w.log.Debug("Page displayed", zap.Int("page", page.Number), zap.Stringer("strategy", used))
			s.Shown = append(s.Shown, s.Index)
			s.State = StateAwaitingInput

		case StateAwaitingInput:
			w.console.Println(styles.HelpStyle.Render("Commands: [Enter] next, [b] back, [q] quit"))
			input, err := w.console.ReadLine()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					w.log.Warn("Reading input failed", zap.Error(err))
				}
				input = "q"
			}
			s.Index, s.State = Next(s.Index, limit, input)
		}
	}

	if err := w.temp.Cleanup(len(pages)); err != nil {
		w.log.Warn("Temp file cleanup failed", zap.Error(err))
	}
	return s
}

func (w *Walker) load(ctx context.Context, index int, url string) (*Page, error) {
	data, err := w.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Page{Number: index + 1, URL: url, Image: img, Format: format}, nil
}

// Decode sniffs and decodes page bytes. Failures wrap utils.ErrDecode.
func Decode(data []byte) (img image.Image, format string, err error) {
	if !filetype.IsImage(data) {
		return nil, "", fmt.Errorf("%w: payload is not an image", utils.ErrDecode)
	}
	kind, _ := filetype.Match(data)
	img, err = imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", utils.ErrDecode, kind.Extension, err)
	}
	return img, kind.Extension, nil
}
