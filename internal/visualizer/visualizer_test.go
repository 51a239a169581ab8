package visualizer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/handiism/waveplayer/internal/audio"
	"github.com/lucasb-eyer/go-colorful"
)

type rect struct {
	x, y, w, h float64
	c          colorful.Color
}

type dot struct {
	x, y, r, alpha float64
	c              colorful.Color
}

type recorder struct {
	w, h   int
	fills  []colorful.Color
	rects  []rect
	dots   []dot
	resize [2]int
}

func (r *recorder) Size() (int, int) { return r.w, r.h }
func (r *recorder) Resize(w, h int) { r.resize = [2]int{w, h}; r.w, r.h = w, h }
func (r *recorder) Fill(c colorful.Color) { r.fills = append(r.fills, c) }
func (r *recorder) FillRect(x, y, w, h float64, c colorful.Color) {
	r.rects = append(r.rects, rect{x, y, w, h, c})
}
func (r *recorder) FillCircle(x, y, rad float64, c colorful.Color, alpha float64) {
	r.dots = append(r.dots, dot{x, y, rad, alpha, c})
}

type fakeSource struct {
	bins  []byte
	calls int
}

func (f *fakeSource) BinCount() int { return len(f.bins) }
func (f *fakeSource) ByteFrequencyData(dst []byte) {
	f.calls++
	copy(dst, f.bins)
}

type fakeTapper struct {
	src   audio.FrequencySource
	err   error
	calls int
}

func (f *fakeTapper) EstablishTap() (audio.FrequencySource, error) {
	f.calls++
	return f.src, f.err
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDraw_BarsAndDots(t *testing.T) {
	bins := make([]byte, 128)
	bins[0] = 255
	bins[32] = 51

	s := &recorder{w: 256, h: 100}
	Draw(s, bins, 0, 2.5)

	if len(s.fills) != 1 {
		t.Fatalf("background filled %d times, want 1", len(s.fills))
	}
	if len(s.rects) != 128 || len(s.dots) != 128 {
		t.Fatalf("got %d bars and %d dots, want 128 each", len(s.rects), len(s.dots))
	}

	barWidth := 256.0 / 128 * 2.5
	if !near(s.rects[0].w, barWidth) || !near(s.rects[1].x, barWidth+1) {
		t.Errorf("bar layout = %+v, %+v", s.rects[0], s.rects[1])
	}
	if !near(s.rects[0].h, 80) || !near(s.rects[0].y, 20) {
		t.Errorf("full bin bar = %+v, want height 80 from y 20", s.rects[0])
	}
	if s.rects[5].h != 0 {
		t.Errorf("silent bin bar height = %v", s.rects[5].h)
	}

	// Bin 0 points right at radius W/4; bin 32 of 128 points down.
	if !near(s.dots[0].x, 128+64) || !near(s.dots[0].y, 50) {
		t.Errorf("dot 0 at %v,%v", s.dots[0].x, s.dots[0].y)
	}
	if !near(s.dots[32].x, 128) || !near(s.dots[32].y, 50+12.8) {
		t.Errorf("dot 32 at %v,%v", s.dots[32].x, s.dots[32].y)
	}
	if s.dots[0].r != 2 || s.dots[0].alpha != 0.8 {
		t.Errorf("dot style = %+v", s.dots[0])
	}
}

func TestDraw_Palette(t *testing.T) {
	bins := make([]byte, 4)
	for i := range bins {
		bins[i] = 100
	}
	s := &recorder{w: 40, h: 10}
	Draw(s, bins, 2*time.Second, 1)

	// hue = 100 + 2000ms/100 = 120
	h, sat, l := s.fills[0].Hsl()
	if math.Abs(h-120) > 0.5 || math.Abs(sat-0.7) > 0.01 || math.Abs(l-0.05) > 0.01 {
		t.Errorf("background hsl = %v %v %v", h, sat, l)
	}
	h, _, _ = s.rects[2].c.Hsl()
	if math.Abs(h-122) > 0.5 {
		t.Errorf("bar 2 hue = %v, want 122", h)
	}
	h, _, _ = s.dots[2].c.Hsl()
	if math.Abs(h-302) > 0.5 {
		t.Errorf("dot 2 hue = %v, want 302", h)
	}
}

func TestVisualizer_FrameGenerations(t *testing.T) {
	src := &fakeSource{bins: make([]byte, 8)}
	tapper := &fakeTapper{src: src}
	surface := &recorder{w: 10, h: 10}
	v := New(tapper, surface, 2.5)

	if v.Frame(v.Generation()) {
		t.Error("inactive visualizer should not draw")
	}

	if !v.Activate() {
		t.Fatal("Activate() = false")
	}
	gen := v.Generation()
	if !v.Frame(gen) || src.calls != 1 {
		t.Fatalf("Frame(current) should draw, calls = %d", src.calls)
	}

	v.Deactivate()
	if v.Frame(gen) {
		t.Error("frame for a deactivated generation should be dropped")
	}
	if src.calls != 1 {
		t.Errorf("dropped frame sampled the analyser")
	}

	v.Activate()
	if v.Frame(gen) {
		t.Error("stale generation should not draw after reactivation")
	}
	if !v.Frame(v.Generation()) {
		t.Error("new generation should draw")
	}

	if tapper.calls != 1 {
		t.Errorf("EstablishTap called %d times, want 1", tapper.calls)
	}
	if len(v.bins) != 8 {
		t.Errorf("bins len = %d", len(v.bins))
	}
}

func TestVisualizer_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		tapper audio.Tapper
	}{
		{"nil tapper", nil},
		{"tap error", &fakeTapper{err: errors.New("no analysis")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.tapper, &recorder{w: 4, h: 4}, 0)
			if v.Activate() || v.Active() {
				t.Error("Activate() should report false without a tap")
			}
			if v.Frame(v.Generation()) {
				t.Error("Frame() should not draw without a tap")
			}
		})
	}
}

func TestVisualizer_Resize(t *testing.T) {
	s := &recorder{}
	New(nil, s, 1).Resize(30, 12)
	if s.resize != [2]int{30, 12} {
		t.Errorf("resize = %v", s.resize)
	}
}

func TestGrid(t *testing.T) {
	g := NewGrid(4, 3)
	if w, h := g.Size(); w != 4 || h != 4 {
		t.Fatalf("Size() = %d,%d, want 4,4", w, h)
	}

	black := colorful.Color{}
	red := colorful.Color{R: 1}
	g.Fill(black)
	g.FillRect(0, 2, 2, 2, red)

	if g.At(0, 2) != red || g.At(1, 3) != red {
		t.Error("rect not painted")
	}
	if g.At(2, 2) != black || g.At(0, 1) != black {
		t.Error("rect painted outside its bounds")
	}

	g.FillRect(-5, -5, 100, 1, red) // clipped, must not panic
	g.FillCircle(3.5, 0.5, 0.6, colorful.Color{B: 1}, 0.5)
	if got := g.At(3, 0); !near(got.B, 0.5) {
		t.Errorf("blended pixel = %+v", got)
	}

	out := g.Render()
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Errorf("Render() has %d lines, want 2", len(lines))
	}
	if !strings.Contains(out, upperHalfBlock) {
		t.Error("Render() should use half blocks")
	}
}

func TestGrid_Blit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(0, 0, color.RGBA{G: 0xFF, A: 0xFF})

	g := NewGrid(2, 2)
	g.Fill(colorful.Color{R: 1})
	g.Blit(img)

	if got := g.At(0, 0); got != (colorful.Color{G: 1}) {
		t.Errorf("At(0,0) = %+v, want green", got)
	}
	if got := g.At(1, 1); got != (colorful.Color{R: 1}) {
		t.Errorf("transparent pixel overwrote grid: %+v", got)
	}
}

func TestRaster_DrawAndPNG(t *testing.T) {
	r := NewRaster(64, 32)
	bins := make([]byte, 16)
	for i := range bins {
		bins[i] = 255
	}
	Draw(r, bins, 0, 2.5)

	// The first bar spans the bottom 80% of the left edge.
	_, _, _, a := r.Image().At(1, 31).RGBA()
	if a == 0 {
		t.Error("bar pixel not painted")
	}
	top := r.Image().RGBAAt(1, 0)
	bottom := r.Image().RGBAAt(1, 31)
	if top == bottom {
		t.Error("background and bar should differ")
	}

	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("png width = %d", img.Bounds().Dx())
	}

	r.Resize(10, 5)
	if w, h := r.Size(); w != 10 || h != 5 {
		t.Errorf("Size() after resize = %d,%d", w, h)
	}
}
