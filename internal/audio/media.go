package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	httpclient "github.com/handiism/waveplayer/internal/http"
	"github.com/rs/zerolog/log"
)

// Media is the playback primitive the player controller drives.
//
// Implementations must not block the caller: Load returns immediately and the
// source is opened in the background. Play and Pause may be called before the
// source is open and take effect once it is.
type Media interface {
	// Load binds the media to uri, discarding the previous source.
	// The media starts paused at position zero.
	Load(uri string)

	// Unload stops playback and releases the current source.
	Unload()

	// Play starts or resumes playback.
	Play()

	// Pause suspends playback.
	Pause()

	// Seek moves the playback position. It reports false and does nothing
	// when the duration is unknown.
	Seek(pos time.Duration) bool

	// Position returns the current playback position.
	Position() time.Duration

	// Duration returns the length of the source, or 0 if it is unknown.
	Duration() time.Duration

	// SetVolume sets the output level in [0, 1].
	SetVolume(level float64)

	// Ended delivers a value each time the loaded source plays to its end.
	Ended() <-chan struct{}
}

// MediaConfig holds BeepMedia settings.
type MediaConfig struct {
	SampleRate int
	Buffer     time.Duration
	Analyser   AnalyserConfig
}

// DefaultMediaConfig returns CD-quality output with a 100ms buffer.
func DefaultMediaConfig() MediaConfig {
	return MediaConfig{
		SampleRate: 44100,
		Buffer:     100 * time.Millisecond,
		Analyser:   DefaultAnalyserConfig(),
	}
}

// BeepMedia implements Media and Tapper on the faiface/beep speaker.
//
// The output pipeline is built once and lives for the life of the process:
//
//	mixer -> tap -> volume -> speaker
//
// Each Load adds a new Seq(Ctrl(stream), Callback) to the mixer. The callback
// fires on the speaker goroutine when the stream drains and reports on Ended
// only if no other source has been loaded since.
//
// Lock order is m.mu, then speaker.Lock.
type BeepMedia struct {
	mu sync.Mutex

	opener     *SourceOpener
	sampleRate beep.SampleRate

	mixer  *beep.Mixer
	tap    *Tap
	volume *effects.Volume

	analyserCfg AnalyserConfig
	tapOnce     sync.Once
	analyser    *Analyser

	gen     atomic.Uint64
	cancel  context.CancelFunc
	ctrl    *beep.Ctrl
	stream  beep.StreamSeekCloser
	format  beep.Format
	playing bool

	ended chan struct{}
}

// NewBeepMedia initialises the speaker and starts the output pipeline.
// It must be called at most once per process.
func NewBeepMedia(cfg MediaConfig, client *httpclient.Client) (*BeepMedia, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 100 * time.Millisecond
	}

	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(cfg.Buffer)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	m := newBeepMedia(cfg, client)
	speaker.Play(m.volume)
	return m, nil
}

func newBeepMedia(cfg MediaConfig, client *httpclient.Client) *BeepMedia {
	mixer := &beep.Mixer{}
	tap := NewTap(mixer, nextPowerOfTwo(cfg.Analyser.FFTSize)*4)
	return &BeepMedia{
		opener:      NewSourceOpener(client),
		sampleRate:  beep.SampleRate(cfg.SampleRate),
		mixer:       mixer,
		tap:         tap,
		volume:      &effects.Volume{Streamer: tap, Base: 2},
		analyserCfg: cfg.Analyser,
		ended:       make(chan struct{}, 1),
	}
}

// Load implements Media.
func (m *BeepMedia) Load(uri string) {
	m.mu.Lock()
	gen := m.releaseLocked()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	log.Debug().Msgf("loading %s", uri)
	go m.open(ctx, gen, uri)
}

// Unload implements Media.
func (m *BeepMedia) Unload() {
	m.mu.Lock()
	m.releaseLocked()
	m.mu.Unlock()
}

// releaseLocked invalidates the current source and returns the new generation.
func (m *BeepMedia) releaseLocked() uint64 {
	gen := m.gen.Add(1)
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()

	if m.stream != nil {
		m.stream.Close()
	}
	m.stream = nil
	m.ctrl = nil
	m.format = beep.Format{}
	m.playing = false
	m.tap.Reset()

	// Any end signal sent before the mixer was cleared belongs to the old source.
	select {
	case <-m.ended:
	default:
	}
	return gen
}

func (m *BeepMedia) open(ctx context.Context, gen uint64, uri string) {
	stream, format, err := m.opener.Open(ctx, uri)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msgf("cannot play %s", uri)
		}
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen.Load() != gen {
		stream.Close()
		return
	}

	var s beep.Streamer = stream
	if format.SampleRate != m.sampleRate {
		s = beep.Resample(4, format.SampleRate, m.sampleRate, stream)
	}
	ctrl := &beep.Ctrl{Streamer: s, Paused: !m.playing}

	speaker.Lock()
	m.mixer.Add(beep.Seq(ctrl, beep.Callback(func() { m.finished(gen) })))
	speaker.Unlock()

	m.ctrl = ctrl
	m.stream = stream
	m.format = format
	log.Debug().Msgf("opened %s (%d Hz, %s)", uri, format.SampleRate, format.SampleRate.D(stream.Len()))
}

// finished runs on the speaker goroutine with the speaker locked.
func (m *BeepMedia) finished(gen uint64) {
	if m.gen.Load() != gen {
		return
	}
	select {
	case m.ended <- struct{}{}:
	default:
	}
}

// Play implements Media.
func (m *BeepMedia) Play() {
	m.setPaused(false)
}

// Pause implements Media.
func (m *BeepMedia) Pause() {
	m.setPaused(true)
}

func (m *BeepMedia) setPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.playing = !paused
	if m.ctrl == nil {
		return
	}
	speaker.Lock()
	m.ctrl.Paused = paused
	speaker.Unlock()
}

// Seek implements Media.
func (m *BeepMedia) Seek(pos time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil || m.stream.Len() <= 0 {
		return false
	}
	n := m.format.SampleRate.N(pos)
	n = max(0, min(n, m.stream.Len()-1))

	speaker.Lock()
	err := m.stream.Seek(n)
	speaker.Unlock()
	if err != nil {
		log.Warn().Err(err).Msg("seek failed")
		return false
	}
	return true
}

// Position implements Media.
func (m *BeepMedia) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return 0
	}
	speaker.Lock()
	p := m.stream.Position()
	speaker.Unlock()
	return m.format.SampleRate.D(p)
}

// Duration implements Media.
func (m *BeepMedia) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil || m.stream.Len() <= 0 {
		return 0
	}
	return m.format.SampleRate.D(m.stream.Len())
}

// SetVolume implements Media. Levels map onto a base-2 gain so that 0.5 is
// one halving below full scale; 0 silences the output.
func (m *BeepMedia) SetVolume(level float64) {
	level = max(0, min(level, 1))

	speaker.Lock()
	defer speaker.Unlock()
	if level == 0 {
		m.volume.Silent = true
		return
	}
	m.volume.Silent = false
	m.volume.Volume = math.Log2(level)
}

// Ended implements Media.
func (m *BeepMedia) Ended() <-chan struct{} {
	return m.ended
}

// EstablishTap implements Tapper.
func (m *BeepMedia) EstablishTap() (FrequencySource, error) {
	m.tapOnce.Do(func() {
		m.analyser = NewAnalyser(m.tap, m.analyserCfg)
	})
	return m.analyser, nil
}

// Close releases the current source and stops the speaker.
func (m *BeepMedia) Close() {
	m.Unload()
	speaker.Clear()
}
