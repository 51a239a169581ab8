package visualizer

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Surface is a resizable canvas the visualizer paints on.
//
// Coordinates are in pixels with the origin at the top left. Rectangles and
// circles may extend past the edges; implementations clip them.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// Resize changes the dimensions and clears the surface.
	Resize(width, height int)

	// Fill paints the whole surface with c.
	Fill(c colorful.Color)

	// FillRect paints an axis-aligned rectangle.
	FillRect(x, y, w, h float64, c colorful.Color)

	// FillCircle blends a disc of colour c with the given opacity.
	FillCircle(cx, cy, r float64, c colorful.Color, alpha float64)
}

const (
	barHeightRatio = 0.8
	dotRadius      = 2
	dotAlpha       = 0.8
)

// Draw paints one frame of bins onto s.
//
// elapsed is the time since the visualizer started; it drives the slow hue
// rotation. barScale widens bars relative to an even split of the width, so
// values above 1 leave the highest bins off the right edge.
func Draw(s Surface, bins []byte, elapsed time.Duration, barScale float64) {
	width, height := s.Size()
	w, h := float64(width), float64(height)

	hue := math.Mod(intensity(bins)+float64(elapsed.Milliseconds())/100, 360)
	s.Fill(colorful.Hsl(hue, 0.7, 0.05))

	n := len(bins)
	if n == 0 {
		return
	}

	barWidth := w / float64(n) * barScale
	cx, cy := w/2, h/2
	x := 0.0
	for i, b := range bins {
		level := float64(b) / 255
		barHue := math.Mod(hue+float64(i), 360)

		barHeight := level * h * barHeightRatio
		s.FillRect(x, h-barHeight, barWidth, barHeight, colorful.Hsl(barHue, 1, 0.5))

		radius := level * w / 4
		angle := float64(i) / float64(n) * 2 * math.Pi
		s.FillCircle(cx+math.Cos(angle)*radius, cy+math.Sin(angle)*radius, dotRadius,
			colorful.Hsl(math.Mod(barHue+180, 360), 1, 0.5), dotAlpha)

		x += barWidth + 1
	}
}

// intensity returns the mean bin value.
func intensity(bins []byte) float64 {
	if len(bins) == 0 {
		return 0
	}
	sum := 0
	for _, b := range bins {
		sum += int(b)
	}
	return float64(sum) / float64(len(bins))
}
