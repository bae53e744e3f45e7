package reader

import (
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/term"
)

const (
	DefaultWidth = 120
	MaxHeight    = 80

	// share of the terminal width used for a page
	terminalFill = 0.9
	// terminal cells are about twice as tall as they are wide
	cellAspect = 0.5
)

// Palette orders characters from lightest to darkest.
var Palette = []byte(" .'`^\",:;Il!i~+?_][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$")

// TerminalWidth returns the column count of stdout when it is a terminal.
func TerminalWidth() (int, bool) {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

// Renderer turns decoded pages into character art.
type Renderer struct {
	// Columns reports the terminal width, if known.
	Columns func() (int, bool)
}

func NewRenderer() *Renderer {
	return &Renderer{Columns: TerminalWidth}
}

// Width is the number of source pixels per output row for target.
func (r *Renderer) Width(target int) int {
	if target <= 0 {
		target = DefaultWidth
	}
	if r.Columns != nil {
		if cols, ok := r.Columns(); ok {
			if w := int(float64(cols) * terminalFill); w < target {
				target = w
			}
		}
	}
	if target < 1 {
		target = 1
	}
	return target
}

// Dimensions sizes an imgW x imgH image for a row of width pixels, capping
// the height at MaxHeight and narrowing the width to keep the ratio.
func Dimensions(imgW, imgH, width int) (int, int) {
	aspect := float64(imgH) / float64(imgW)
	height := int(float64(width) * aspect * cellAspect)
	if height > MaxHeight {
		height = MaxHeight
		width = int(float64(height) / aspect / cellAspect)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// PaletteIndex maps a luminance value onto Palette.
func PaletteIndex(lum uint8) int {
	return int(float64(lum) / 255 * float64(len(Palette)-1))
}

// Render converts img to text. Every row ends with a line break and holds
// two characters per pixel.
func (r *Renderer) Render(img image.Image, targetWidth int) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	w, h := Dimensions(b.Dx(), b.Dy(), r.Width(targetWidth))
	gray := imaging.Grayscale(imaging.Resize(img, w, h, imaging.Lanczos))

	var sb strings.Builder
	sb.Grow(h * (2*w + 1))
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			c := Palette[PaletteIndex(row[x*4])]
			sb.WriteByte(c)
			sb.WriteByte(c)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
