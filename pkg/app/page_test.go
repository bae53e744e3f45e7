package app

import (
	"image"
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFit(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"width bound", 200, 100, 50, 100, 50, 25},
		{"height bound", 100, 400, 80, 40, 10, 40},
		{"upscale", 10, 10, 40, 20, 20, 20},
		{"never zero", 1000, 1, 10, 10, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fit(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestHalfBlocks(t *testing.T) {
	out := HalfBlocks(solid(40, 40, color.White), 20, 10)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 10)
	for _, line := range lines {
		assert.Equal(t, 20, lipgloss.Width(line))
	}
	assert.Equal(t, 200, strings.Count(out, halfBlock))
}

func TestHalfBlocksEmpty(t *testing.T) {
	assert.Empty(t, HalfBlocks(solid(10, 10, color.Black), 0, 10))
	assert.Empty(t, HalfBlocks(image.NewRGBA(image.Rect(0, 0, 0, 0)), 10, 10))
}

func TestPageModel(t *testing.T) {
	m := NewPageModel(solid(8, 8, color.Black), "Page 3")
	assert.Nil(t, m.Init())
	assert.Equal(t, "Loading...", m.View())

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 10, Height: 7})
	assert.Nil(t, cmd)
	view := m.View()
	assert.Contains(t, view, "Page 3")
	assert.Contains(t, view, "press any key to close")
	assert.Equal(t, 5, strings.Count(m.rendered, "\n")+1)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if assert.NotNil(t, cmd) {
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestViewerRejectsNilImage(t *testing.T) {
	assert.Error(t, NewViewer().Show(nil, "x"))
}
