package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap sits between the mixer and the volume stage and records what is about
// to be played, so the analyser sees the signal before the user's volume is
// applied. Muting therefore does not flatten the visualization.
//
// Each stereo frame is folded into one mono sample, (left+right)/2, which is
// what the analyser windows. The history holds a few analyser windows so a
// frame that is drawn late still finds a full window of audio.
type Tap struct {
	s beep.Streamer

	mu      sync.Mutex
	history []float64 // len is a power of two
	mask    int
	next    int // index the next sample is written to
	filled  int // number of valid samples, up to len(history)
}

// NewTap wraps s with a history of at least capacity mono samples.
func NewTap(s beep.Streamer, capacity int) *Tap {
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Tap{
		s:       s,
		history: make([]float64, size),
		mask:    size - 1,
	}
}

// Stream implements beep.Streamer. Samples pass through unchanged.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)

	t.mu.Lock()
	for _, frame := range samples[:n] {
		t.history[t.next] = (frame[0] + frame[1]) / 2
		t.next = (t.next + 1) & t.mask
	}
	t.filled = min(t.filled+n, len(t.history))
	t.mu.Unlock()

	return n, ok
}

// Err implements beep.Streamer.
func (t *Tap) Err() error {
	return t.s.Err()
}

// Samples implements SampleSource. It returns at most n samples, fewer until
// the history has filled up.
func (t *Tap) Samples(n int) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	n = min(n, t.filled)
	out := make([]float64, n)
	start := t.next - n
	for i := range out {
		out[i] = t.history[(start+i)&t.mask]
	}
	return out
}

// Reset forgets the recorded history. The media calls it when the source
// changes so the next track does not start with the tail of the previous one.
func (t *Tap) Reset() {
	t.mu.Lock()
	clear(t.history)
	t.next, t.filled = 0, 0
	t.mu.Unlock()
}
