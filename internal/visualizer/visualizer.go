package visualizer

import (
	"time"

	"github.com/handiism/waveplayer/internal/audio"
	"github.com/rs/zerolog/log"
)

// Visualizer samples frequency data from the media and draws it onto a
// Surface once per frame while playback is active.
//
// The analysis tap is established on the first Activate and reused after
// that. Media without analysis support leave the visualizer permanently
// disabled: Activate reports false and no frames are drawn.
//
// A Visualizer is not safe for concurrent use; it belongs to the host's
// event loop.
type Visualizer struct {
	tapper   audio.Tapper
	source   audio.FrequencySource
	tried    bool
	surface  Surface
	barScale float64
	bins     []byte

	active bool
	gen    uint64

	start time.Time
	now   func() time.Time
}

// New creates a Visualizer drawing onto surface. tapper may be nil, in which
// case the visualization is disabled.
func New(tapper audio.Tapper, surface Surface, barScale float64) *Visualizer {
	if barScale <= 0 {
		barScale = 2.5
	}
	v := &Visualizer{
		tapper:   tapper,
		surface:  surface,
		barScale: barScale,
		now:      time.Now,
	}
	v.start = v.now()
	return v
}

// establish connects to the analysis tap once. Later calls return the cached
// outcome.
func (v *Visualizer) establish() bool {
	if v.tried {
		return v.source != nil
	}
	v.tried = true

	if v.tapper == nil {
		log.Debug().Msg("visualizer disabled: media has no analysis tap")
		return false
	}
	src, err := v.tapper.EstablishTap()
	if err != nil || src == nil {
		log.Debug().Err(err).Msg("visualizer disabled")
		return false
	}
	v.source = src
	v.bins = make([]byte, src.BinCount())
	return true
}

// Activate starts a new frame generation and reports whether frames will be
// drawn. It returns false when analysis is unavailable.
func (v *Visualizer) Activate() bool {
	if !v.establish() {
		return false
	}
	v.active = true
	v.gen++
	return true
}

// Deactivate stops the frame loop. A frame scheduled before the call is
// dropped when it arrives.
func (v *Visualizer) Deactivate() {
	v.active = false
	v.gen++
}

// Active reports whether frames are being drawn.
func (v *Visualizer) Active() bool {
	return v.active
}

// Generation identifies the current frame loop.
func (v *Visualizer) Generation() uint64 {
	return v.gen
}

// Frame draws one frame if gen is the current generation and reports whether
// the host should schedule another frame for gen.
func (v *Visualizer) Frame(gen uint64) bool {
	if !v.active || gen != v.gen {
		return false
	}
	v.source.ByteFrequencyData(v.bins)
	Draw(v.surface, v.bins, v.now().Sub(v.start), v.barScale)
	return true
}

// Resize resizes the surface to match its container.
func (v *Visualizer) Resize(width, height int) {
	v.surface.Resize(width, height)
}

// Surface returns the surface frames are drawn on.
func (v *Visualizer) Surface() Surface {
	return v.surface
}
