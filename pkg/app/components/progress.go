package components

import (
	"fmt"
	"strings"

	"github.com/kerbaras/mangatrack/pkg/app/styles"
)

const loadingBarWidth = 20

// PageLoading renders the status line shown while a page is being fetched.
func PageLoading(current, total int) string {
	text := styles.WarningStyle.Render(fmt.Sprintf("Loading page %d/%d...", current, total))
	bar := renderProgressBar(current, total, loadingBarWidth)
	if bar == "" {
		return text
	}
	return text + " " + bar
}

func renderProgressBar(current, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}
