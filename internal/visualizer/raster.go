package visualizer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Raster is a Surface backed by an RGBA image. It is used for headless
// snapshots of the visualization.
//
// Example:
//
//	r := NewRaster(800, 300)
//	Draw(r, bins, elapsed, 2.5)
//	err := r.SavePNG("frame.png")
type Raster struct {
	img *image.RGBA
}

// NewRaster creates a raster surface of width x height pixels.
func NewRaster(width, height int) *Raster {
	r := &Raster{}
	r.Resize(width, height)
	return r
}

// Size implements Surface.
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize implements Surface.
func (r *Raster) Resize(width, height int) {
	r.img = image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
}

// Fill implements Surface.
func (r *Raster) Fill(c colorful.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(toRGBA(c, 1)), image.Point{}, draw.Src)
}

// FillRect implements Surface.
func (r *Raster) FillRect(x, y, w, h float64, c colorful.Color) {
	rect := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(r.img.Bounds())
	if rect.Empty() || w <= 0 || h <= 0 {
		return
	}
	draw.Draw(r.img, rect, image.NewUniform(toRGBA(c, 1)), image.Point{}, draw.Src)
}

// FillCircle implements Surface.
func (r *Raster) FillCircle(cx, cy, radius float64, c colorful.Color, alpha float64) {
	mask := &circle{cx: cx, cy: cy, r: radius}
	rect := mask.Bounds().Intersect(r.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.DrawMask(r.img, rect, image.NewUniform(toRGBA(c, alpha)), image.Point{}, mask, rect.Min, draw.Over)
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// WritePNG encodes the surface as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// SavePNG writes the surface to a PNG file.
func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func toRGBA(c colorful.Color, alpha float64) color.NRGBA {
	red, green, blue := c.Clamped().RGB255()
	return color.NRGBA{R: red, G: green, B: blue, A: uint8(math.Round(alpha * 255))}
}

// circle is an alpha mask for a filled disc.
type circle struct {
	cx, cy, r float64
}

func (c *circle) ColorModel() color.Model {
	return color.AlphaModel
}

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(c.cx-c.r)), int(math.Floor(c.cy-c.r)),
		int(math.Ceil(c.cx+c.r)), int(math.Ceil(c.cy+c.r)),
	)
}

func (c *circle) At(x, y int) color.Color {
	dx, dy := float64(x)+0.5-c.cx, float64(y)+0.5-c.cy
	if dx*dx+dy*dy <= c.r*c.r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
