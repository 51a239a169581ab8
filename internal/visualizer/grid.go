package visualizer

import (
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const upperHalfBlock = "▀"

// Grid is a Surface backed by terminal cells.
//
// Each cell shows two vertically stacked pixels using an upper half block:
// the foreground colour is the top pixel and the background the bottom one.
// A Grid of 40x10 cells is therefore a 40x20 pixel surface.
type Grid struct {
	width  int
	height int
	pixels []colorful.Color
}

// NewGrid creates a grid surface of width x height pixels. Odd heights are
// rounded up to fill whole cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Resize(width, height)
	return g
}

// Size implements Surface.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Resize implements Surface.
func (g *Grid) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 2)
	if height%2 == 1 {
		height++
	}
	g.width, g.height = width, height
	g.pixels = make([]colorful.Color, width*height)
}

// Fill implements Surface.
func (g *Grid) Fill(c colorful.Color) {
	for i := range g.pixels {
		g.pixels[i] = c
	}
}

// FillRect implements Surface. A pixel is covered when its centre lies
// inside the rectangle.
func (g *Grid) FillRect(x, y, w, h float64, c colorful.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, x1 := g.span(x, x+w, g.width)
	y0, y1 := g.span(y, y+h, g.height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			g.pixels[py*g.width+px] = c
		}
	}
}

// span returns the pixel indexes in [0, limit) whose centres fall in [from, to).
func (g *Grid) span(from, to float64, limit int) (int, int) {
	lo := int(math.Ceil(from - 0.5))
	hi := int(math.Ceil(to - 0.5))
	return max(lo, 0), min(hi, limit)
}

// FillCircle implements Surface.
func (g *Grid) FillCircle(cx, cy, r float64, c colorful.Color, alpha float64) {
	x0, x1 := g.span(cx-r, cx+r+1, g.width)
	y0, y1 := g.span(cy-r, cy+r+1, g.height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			dx, dy := float64(px)+0.5-cx, float64(py)+0.5-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			i := py*g.width + px
			g.pixels[i] = g.pixels[i].BlendRgb(c, alpha)
		}
	}
}

// Blit copies img into the grid starting at the top-left corner. Pixels
// outside the grid are clipped; transparent pixels are left untouched.
func (g *Grid) Blit(img image.Image) {
	b := img.Bounds()
	for y := 0; y < min(b.Dy(), g.height); y++ {
		for x := 0; x < min(b.Dx(), g.width); x++ {
			if c, ok := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y)); ok {
				g.pixels[y*g.width+x] = c
			}
		}
	}
}

// At returns the pixel at x, y.
func (g *Grid) At(x, y int) colorful.Color {
	return g.pixels[y*g.width+x]
}

// Render draws the grid as height/2 lines of coloured half blocks.
// Runs of identical cells share one lipgloss style.
func (g *Grid) Render() string {
	rows := make([]string, 0, g.height/2)
	for y := 0; y < g.height; y += 2 {
		var line strings.Builder
		runStart := 0
		for x := 1; x <= g.width; x++ {
			if x < g.width && g.cellKey(x, y) == g.cellKey(runStart, y) {
				continue
			}
			top := g.pixels[y*g.width+runStart].Clamped().Hex()
			bottom := g.pixels[(y+1)*g.width+runStart].Clamped().Hex()
			line.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(strings.Repeat(upperHalfBlock, x-runStart)))
			runStart = x
		}
		rows = append(rows, line.String())
	}
	return strings.Join(rows, "\n")
}

func (g *Grid) cellKey(x, y int) [2]string {
	return [2]string{
		g.pixels[y*g.width+x].Clamped().Hex(),
		g.pixels[(y+1)*g.width+x].Clamped().Hex(),
	}
}
