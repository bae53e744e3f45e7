package reader

import (
	"fmt"
	"strings"
)

// Strategy is the mechanism used to show a page.
type Strategy int

const (
	Native Strategy = iota + 1
	SystemViewer
	Browser
	ASCII
)

var Strategies = []Strategy{Native, SystemViewer, Browser, ASCII}

func (s Strategy) String() string {
	switch s {
	case Native:
		return "native"
	case SystemViewer:
		return "system"
	case Browser:
		return "browser"
	case ASCII:
		return "ascii"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Describe is the label used in the display method menu.
func (s Strategy) Describe() string {
	switch s {
	case Native:
		return "Native image display (full screen terminal viewer)"
	case SystemViewer:
		return "System image viewer"
	case Browser:
		return "Web browser"
	case ASCII:
		return "ASCII art (fallback)"
	default:
		return s.String()
	}
}

// ParseStrategy accepts a menu number (1-4) or a strategy name. Empty input
// selects Native.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "native":
		return Native, nil
	case "2", "system", "system-viewer", "viewer":
		return SystemViewer, nil
	case "3", "browser":
		return Browser, nil
	case "4", "ascii":
		return ASCII, nil
	default:
		return 0, fmt.Errorf("unknown display method %q (choose 1-4, native, system, browser or ascii)", s)
	}
}
