package player

import (
	"fmt"
	"math"
	"time"

	"github.com/handiism/waveplayer/internal/audio"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/rs/zerolog/log"
)

// DefaultRestoreVolume is the level unmuting returns to when no earlier level
// was recorded.
const DefaultRestoreVolume = 0.8

// Visualizer is the frame loop the controller starts and stops with playback.
type Visualizer interface {
	// Activate starts the frame loop and reports whether it is available.
	Activate() bool

	// Deactivate stops the frame loop.
	Deactivate()
}

// VolumeIcon is the glyph class shown next to the volume slider.
type VolumeIcon int

const (
	IconMuted VolumeIcon = iota
	IconLow
	IconHigh
)

// Options configures a new Controller.
type Options struct {
	// StartMode is the playlist selected at startup.
	StartMode model.Mode

	// InitialVolume is applied to the media at startup.
	InitialVolume float64

	// OnlineTracks seed the online playlist.
	OnlineTracks []model.Track

	// OnEvent receives user-facing status messages. It may be nil.
	OnEvent func(model.Event)
}

// Controller is the single owner of playlist and playback state.
//
// It holds the local and online playlists, the current mode and index, the
// play/pause flag and the volume, and it is the only component that drives
// the media and the visualizer.
//
// A Controller is not safe for concurrent use. Every method must be called
// from the host's event loop; results of background work (probes, media end
// notifications) are marshalled onto that loop before reaching it.
//
// Example:
//
//	c := NewController(media, viz, Options{StartMode: model.ModeOnline, InitialVolume: 0.8})
//	c.Play()
//	c.Next()
type Controller struct {
	media audio.Media
	viz   Visualizer

	local   *model.Playlist
	online  *model.Playlist
	current *model.Playlist

	index   int
	loaded  bool
	playing bool

	volume      float64
	savedVolume float64

	onEvent func(model.Event)
}

// NewController creates a Controller and selects opts.StartMode, loading its
// first track paused when the playlist is not empty.
func NewController(media audio.Media, viz Visualizer, opts Options) *Controller {
	c := &Controller{
		media:   media,
		viz:     viz,
		local:   model.NewPlaylist(model.ModeLocal),
		online:  model.NewPlaylist(model.ModeOnline),
		onEvent: opts.OnEvent,
	}
	c.online.Add(opts.OnlineTracks...)

	c.volume = clamp01(opts.InitialVolume)
	c.media.SetVolume(c.volume)

	c.SwitchSource(opts.StartMode)
	return c
}

// SwitchSource selects the local or online playlist and resets the index to
// 0. A non-empty playlist gets its first track loaded and paused; an empty one
// leaves the player Idle with nothing active.
func (c *Controller) SwitchSource(mode model.Mode) {
	if mode == model.ModeLocal {
		c.current = c.local
	} else {
		c.current = c.online
	}
	c.index = 0
	log.Debug().Msgf("source switched to %s (%d tracks)", mode, c.current.Len())

	if c.current.Empty() {
		c.stop()
		return
	}
	c.LoadTrack(0)
	c.Pause()
}

// stop unloads the media and clears the active entry.
func (c *Controller) stop() {
	c.setPlaying(false)
	c.media.Unload()
	c.loaded = false
}

// LoadTrack binds the media to the track at index of the current playlist
// and makes it the active entry. The track starts paused. It reports false
// and does nothing when the playlist is empty or index is out of range.
func (c *Controller) LoadTrack(index int) bool {
	track, ok := c.current.Track(index)
	if !ok {
		return false
	}

	c.setPlaying(false)
	c.index = index
	c.loaded = true
	c.media.Load(track.SourceURI)
	c.emit(model.LevelVerbose, "Loaded: %s", track)
	return true
}

// Play starts playback of the loaded track and activates the visualizer.
// It does nothing when the current playlist is empty.
func (c *Controller) Play() {
	if c.current.Empty() || !c.loaded {
		return
	}
	c.setPlaying(true)
	c.media.Play()
}

// Pause pauses playback and deactivates the visualizer.
func (c *Controller) Pause() {
	if c.current.Empty() || !c.loaded {
		return
	}
	c.setPlaying(false)
	c.media.Pause()
}

// Toggle plays when paused and pauses when playing.
func (c *Controller) Toggle() {
	if c.playing {
		c.Pause()
	} else {
		c.Play()
	}
}

func (c *Controller) setPlaying(playing bool) {
	if playing == c.playing {
		return
	}
	c.playing = playing
	if c.viz == nil {
		return
	}
	if playing {
		if !c.viz.Activate() {
			log.Debug().Msg("visualization unavailable")
		}
	} else {
		c.viz.Deactivate()
	}
}

// Next loads and plays the following track, wrapping to the first.
func (c *Controller) Next() {
	c.step(1)
}

// Previous loads and plays the preceding track, wrapping to the last.
func (c *Controller) Previous() {
	c.step(-1)
}

// OnTrackEnded advances exactly like Next, so the playlist loops forever.
func (c *Controller) OnTrackEnded() {
	c.step(1)
}

func (c *Controller) step(delta int) {
	if c.current.Empty() {
		return
	}
	c.LoadTrack(c.current.Wrap(c.index, delta))
	c.Play()
}

// Select loads and plays the track at index, as when it is clicked in the
// playlist panel. Out of range indexes are ignored.
func (c *Controller) Select(index int) {
	if !c.LoadTrack(index) {
		return
	}
	c.Play()
}

// AddLocalTrack appends a probed local track. If the local playlist is
// current and this is its first track, the track is loaded but not played.
func (c *Controller) AddLocalTrack(track model.Track) {
	track.Provenance = model.Local
	c.local.Add(track)
	if c.current == c.local && c.local.Len() == 1 {
		c.index = 0
		c.LoadTrack(0)
	}
}

// AddOnlineTrack appends an online track without probing or validating the
// URL. Blank names and artists get placeholders and the cover is the default
// image. If the online playlist is current and this is its first track, the
// track is loaded but not played.
func (c *Controller) AddOnlineTrack(name, artist, url string) model.Track {
	track := model.NewOnlineTrack(name, artist, url)
	c.online.Add(track)
	c.emit(model.LevelInfo, "Added online track: %s", track)
	if c.current == c.online && c.online.Len() == 1 {
		c.index = 0
		c.LoadTrack(0)
	}
	return track
}

// Seek moves playback to fraction of the track's duration. fraction is
// clamped to [0, 1]. Nothing happens while the duration is unknown.
func (c *Controller) Seek(fraction float64) {
	if !c.loaded {
		return
	}
	d := c.media.Duration()
	if d <= 0 {
		return
	}
	c.media.Seek(time.Duration(clamp01(fraction) * float64(d)))
}

// SetVolume sets the volume, clamped to [0, 1]. Going from a non-zero level
// to 0 records the previous level so that ToggleMute can restore it.
func (c *Controller) SetVolume(level float64) {
	level = clamp01(level)
	if level == 0 && c.volume > 0 {
		c.savedVolume = c.volume
	}
	c.volume = level
	c.media.SetVolume(level)
}

// ToggleMute mutes when the volume is above zero and otherwise restores the
// recorded level, or DefaultRestoreVolume if none was recorded.
func (c *Controller) ToggleMute() {
	if c.volume > 0 {
		c.SetVolume(0)
		return
	}
	restore := c.savedVolume
	if restore <= 0 {
		restore = DefaultRestoreVolume
	}
	c.SetVolume(restore)
}

// Volume returns the current volume.
func (c *Controller) Volume() float64 {
	return c.volume
}

// VolumeIcon classifies the volume for display.
func (c *Controller) VolumeIcon() VolumeIcon {
	switch {
	case c.volume == 0:
		return IconMuted
	case c.volume < 0.4:
		return IconLow
	default:
		return IconHigh
	}
}

// Mode returns the current playlist mode.
func (c *Controller) Mode() model.Mode {
	return c.current.Mode()
}

// Tracks returns the tracks of the current playlist.
func (c *Controller) Tracks() []model.Track {
	return c.current.Tracks()
}

// Playlist returns the tracks of the playlist for mode.
func (c *Controller) Playlist(mode model.Mode) []model.Track {
	if mode == model.ModeLocal {
		return c.local.Tracks()
	}
	return c.online.Tracks()
}

// ActiveIndex returns the index of the active entry, or -1 when Idle.
func (c *Controller) ActiveIndex() int {
	if !c.loaded {
		return -1
	}
	return c.index
}

// Current returns the loaded track, or false when Idle.
func (c *Controller) Current() (model.Track, bool) {
	if !c.loaded {
		return model.Track{}, false
	}
	return c.current.Track(c.index)
}

// Playing reports whether playback is advancing.
func (c *Controller) Playing() bool {
	return c.playing
}

// Status returns Idle, Paused or Playing.
func (c *Controller) Status() model.Status {
	switch {
	case !c.loaded:
		return model.Idle
	case c.playing:
		return model.Playing
	default:
		return model.Paused
	}
}

// State returns a snapshot of the playback state.
func (c *Controller) State() model.PlaybackState {
	return model.PlaybackState{
		Mode:    c.Mode(),
		Index:   c.index,
		Playing: c.playing,
		Volume:  c.volume,
		Status:  c.Status(),
	}
}

// Position returns the playback position and duration of the loaded track.
// The duration is 0 while unknown.
func (c *Controller) Position() (time.Duration, time.Duration) {
	if !c.loaded {
		return 0, 0
	}
	return c.media.Position(), c.media.Duration()
}

func (c *Controller) emit(level model.Level, format string, args ...any) {
	if c.onEvent != nil {
		c.onEvent(model.Event{Message: fmt.Sprintf(format, args...), Level: level})
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(v, 1))
}
