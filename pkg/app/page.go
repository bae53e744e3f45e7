package app

import (
	"fmt"
	"image"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangatrack/pkg/app/styles"
	"golang.org/x/image/draw"
)

const halfBlock = "▀"

// PageModel is the bubbletea model behind Viewer.
type PageModel struct {
	img   image.Image
	title string

	width    int
	height   int
	rendered string
}

func NewPageModel(img image.Image, title string) *PageModel {
	return &PageModel{img: img, title: title}
}

func (m *PageModel) Init() tea.Cmd {
	return nil
}

func (m *PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title and help take two rows
		m.rendered = HalfBlocks(m.img, m.width, m.height-2)
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *PageModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	title := styles.TitleStyle.Render(m.title)
	help := styles.MutedStyle.Render("press any key to close")
	return fmt.Sprintf("%s\n%s\n%s", title, m.rendered, help)
}

// HalfBlocks draws img into at most cols x rows terminal cells. Each cell
// carries two vertically stacked pixels: the foreground colors the upper
// half block and the background the lower one.
func HalfBlocks(img image.Image, cols, rows int) string {
	b := img.Bounds()
	if cols <= 0 || rows <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	w, h := fit(b.Dx(), b.Dy(), cols, rows*2)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			style := lipgloss.NewStyle().Foreground(hex(dst, x, y))
			if y+1 < h {
				style = style.Background(hex(dst, x, y+1))
			}
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

// fit scales w x h to the largest size inside maxW x maxH keeping the ratio.
func fit(w, h, maxW, maxH int) (int, int) {
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func hex(img *image.RGBA, x, y int) lipgloss.Color {
	c := img.RGBAAt(x, y)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
