package reader

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y) * 255 / (w + h))
			img.Set(x, y, color.RGBA{v, v / 2, 255 - v, 255})
		}
	}
	return img
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func noTerminal() (int, bool) { return 0, false }

func TestRenderShape(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		target int
	}{
		{"portrait page", 100, 150, 120},
		{"landscape spread", 300, 100, 120},
		{"tall strip hits the height cap", 50, 400, 120},
		{"square above the cap", 64, 64, 200},
		{"single pixel", 1, 1, 10},
		{"narrow target", 800, 1200, 8},
	}

	r := &Renderer{Columns: noTerminal}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantW, wantH := Dimensions(tt.w, tt.h, tt.target)
			out := r.Render(gradient(tt.w, tt.h), tt.target)

			assert.Equal(t, wantH, strings.Count(out, "\n"))
			require.True(t, strings.HasSuffix(out, "\n"))
			lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			require.Len(t, lines, wantH)
			for _, line := range lines {
				assert.Len(t, line, 2*wantW)
			}
		})
	}
}

func TestRenderDoublesEveryCharacter(t *testing.T) {
	r := &Renderer{Columns: noTerminal}
	out := r.Render(gradient(90, 60), 40)
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		for i := 0; i < len(line); i += 2 {
			assert.Equal(t, line[i], line[i+1])
		}
	}
}

func TestRenderSolidImages(t *testing.T) {
	r := &Renderer{Columns: noTerminal}

	white := r.Render(solid(40, 40, color.White), 20)
	assert.Empty(t, strings.Trim(white, "$\n"), "white maps to the last palette entry")

	black := r.Render(solid(40, 40, color.Black), 20)
	assert.Empty(t, strings.Trim(black, " \n"), "black maps to the first palette entry")
}

func TestRenderIsDeterministic(t *testing.T) {
	r := &Renderer{Columns: noTerminal}
	img := gradient(120, 170)
	assert.Equal(t, r.Render(img, 80), r.Render(img, 80))
}

func TestRenderEmptyImage(t *testing.T) {
	r := &Renderer{Columns: noTerminal}
	assert.Empty(t, r.Render(image.NewRGBA(image.Rect(0, 0, 0, 0)), 80))
}

func TestPaletteIndex(t *testing.T) {
	assert.Equal(t, 0, PaletteIndex(0))
	assert.Equal(t, len(Palette)-1, PaletteIndex(255))
	assert.Equal(t, byte(' '), Palette[0])
	assert.Equal(t, byte('$'), Palette[len(Palette)-1])

	prev := PaletteIndex(0)
	for lum := 1; lum <= 255; lum++ {
		idx := PaletteIndex(uint8(lum))
		assert.GreaterOrEqual(t, idx, prev, "luminance %d", lum)
		assert.Less(t, idx, len(Palette))
		prev = idx
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name         string
		imgW, imgH   int
		width        int
		wantW, wantH int
	}{
		{"portrait below the cap", 100, 125, 120, 120, 75},
		{"below the cap", 100, 100, 120, 120, 60},
		{"exactly at the cap", 100, 100, 160, 160, 80},
		{"square above the cap", 100, 100, 200, 160, 80},
		{"tall page above the cap", 800, 1200, 120, 106, 80},
		{"wide strip rounds height up to one", 1000, 10, 50, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Dimensions(tt.imgW, tt.imgH, tt.width)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestDimensionsCapRecomputesWidth(t *testing.T) {
	for width := 162; width <= 400; width += 7 {
		w, h := Dimensions(64, 64, width)
		assert.Equal(t, MaxHeight, h, "width %d", width)
		assert.Equal(t, 160, w, "width %d", width)
	}

	for _, size := range [][2]int{{600, 900}, {700, 1000}, {320, 1280}} {
		aspect := float64(size[1]) / float64(size[0])
		w, h := Dimensions(size[0], size[1], 300)
		assert.Equal(t, MaxHeight, h)
		assert.Equal(t, int(float64(h)/aspect/0.5), w)
	}
}

func TestRendererWidth(t *testing.T) {
	tests := []struct {
		name    string
		columns func() (int, bool)
		target  int
		want    int
	}{
		{"no terminal keeps target", noTerminal, 120, 120},
		{"no terminal default", noTerminal, 0, DefaultWidth},
		{"narrow terminal", func() (int, bool) { return 100, true }, 120, 90},
		{"wide terminal is capped by target", func() (int, bool) { return 300, true }, 120, 120},
		{"odd width floors", func() (int, bool) { return 81, true }, 120, 72},
		{"nil probe", nil, 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Renderer{Columns: tt.columns}
			assert.Equal(t, tt.want, r.Width(tt.target))
		})
	}
}
