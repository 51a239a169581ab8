package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FrequencySource produces byte frequency data the way a WebAudio
// AnalyserNode does: one byte per bin, 0 for silence and 255 at the loudest.
type FrequencySource interface {
	// BinCount returns the number of frequency bins (fftSize / 2).
	BinCount() int

	// ByteFrequencyData fills dst with the current magnitudes. Only the
	// first min(len(dst), BinCount()) entries are written.
	ByteFrequencyData(dst []byte)
}

// Tapper is implemented by media that can expose a frequency analysis of
// what they play.
type Tapper interface {
	// EstablishTap returns the analyser for the media's output. It may be
	// called any number of times and always returns the same source.
	EstablishTap() (FrequencySource, error)
}

// SampleSource supplies the most recent mono samples, oldest first.
// Tap implements it.
type SampleSource interface {
	Samples(n int) []float64
}

// AnalyserConfig holds analyser parameters.
type AnalyserConfig struct {
	// FFTSize is the window length. It must be a power of two; other values
	// are rounded up.
	FFTSize int

	// Smoothing is the time constant between frames, in [0, 1).
	Smoothing float64

	// MinDecibels maps to byte 0.
	MinDecibels float64

	// MaxDecibels maps to byte 255.
	MaxDecibels float64
}

// DefaultAnalyserConfig returns the WebAudio defaults for an fftSize of 256.
func DefaultAnalyserConfig() AnalyserConfig {
	return AnalyserConfig{
		FFTSize:     256,
		Smoothing:   0.8,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

// Analyser computes byte frequency data from a SampleSource.
//
// Each call to ByteFrequencyData takes the last FFTSize samples, applies a
// Blackman window, transforms them and smooths the magnitudes against the
// previous call before converting to decibels.
//
// Analyser is not safe for concurrent use.
type Analyser struct {
	src      SampleSource
	cfg      AnalyserConfig
	window   []float64
	smoothed []float64
}

// NewAnalyser creates an Analyser reading from src.
func NewAnalyser(src SampleSource, cfg AnalyserConfig) *Analyser {
	cfg.FFTSize = nextPowerOfTwo(cfg.FFTSize)
	if cfg.Smoothing < 0 || cfg.Smoothing >= 1 {
		cfg.Smoothing = 0.8
	}
	if cfg.MaxDecibels <= cfg.MinDecibels {
		cfg.MinDecibels, cfg.MaxDecibels = -100, -30
	}
	return &Analyser{
		src:      src,
		cfg:      cfg,
		window:   blackman(cfg.FFTSize),
		smoothed: make([]float64, cfg.FFTSize/2),
	}
}

// BinCount returns FFTSize / 2.
func (a *Analyser) BinCount() int {
	return a.cfg.FFTSize / 2
}

// ByteFrequencyData implements FrequencySource.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	n := a.cfg.FFTSize
	samples := a.src.Samples(n)

	// Pad at the front when the source has fewer samples than the window.
	windowed := make([]float64, n)
	offset := n - len(samples)
	for i, s := range samples {
		windowed[offset+i] = s * a.window[offset+i]
	}

	coeffs := fft.FFTReal(windowed)

	tau := a.cfg.Smoothing
	scale := 255 / (a.cfg.MaxDecibels - a.cfg.MinDecibels)
	bins := min(len(dst), a.BinCount())
	for k := 0; k < a.BinCount(); k++ {
		mag := cmplx.Abs(coeffs[k]) / float64(n)
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
		if k >= bins {
			continue
		}
		db := 20 * math.Log10(a.smoothed[k])
		dst[k] = clampByte((db - a.cfg.MinDecibels) * scale)
	}
}

func clampByte(v float64) byte {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}

func blackman(n int) []float64 {
	const (
		a0 = 0.42
		a1 = 0.5
		a2 = 0.08
	)
	w := make([]float64, n)
	for i := range w {
		x := float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return w
}

func nextPowerOfTwo(n int) int {
	if n < 32 {
		return 32
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
