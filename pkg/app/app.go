package app

import (
	"fmt"
	"image"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Viewer shows a single page image full screen until a key is pressed.
type Viewer struct {
	opts []tea.ProgramOption
}

func NewViewer() *Viewer {
	return &Viewer{opts: []tea.ProgramOption{tea.WithAltScreen()}}
}

// Available reports whether stdout can host the full screen viewer.
func Available() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func (v *Viewer) Show(img image.Image, title string) error {
	if img == nil {
		return fmt.Errorf("no image to show")
	}
	p := tea.NewProgram(NewPageModel(img, title), v.opts...)
	_, err := p.Run()
	return err
}
