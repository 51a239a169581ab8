package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/handiism/waveplayer/internal/audio"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/rs/zerolog"
)

// TrackSettings describes an online track preloaded at startup.
type TrackSettings struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
	Cover  string `json:"cover"`
}

// Settings holds all configuration options.
type Settings struct {
	// Playback settings
	StartSource   string  `json:"start_source"` // local, online
	InitialVolume float64 `json:"initial_volume"`
	SampleRate    int     `json:"sample_rate"`
	BufferMillis  int     `json:"buffer_millis"`

	// Visualizer settings
	FFTSize     int     `json:"fft_size"`
	Smoothing   float64 `json:"smoothing"`
	MinDecibels float64 `json:"min_decibels"`
	MaxDecibels float64 `json:"max_decibels"`
	BarScale    float64 `json:"bar_scale"`
	FrameRate   int     `json:"frame_rate"`

	// Snapshot surface used by the headless player
	SnapshotWidth  int `json:"snapshot_width"`
	SnapshotHeight int `json:"snapshot_height"`

	// Library settings
	MaxConcurrentProbes int             `json:"max_concurrent_probes"`
	DefaultCover        string          `json:"default_cover"`
	OnlineTracks        []TrackSettings `json:"online_tracks"`

	// Network settings
	UserAgent         string  `json:"user_agent"`
	CoverMaxRetries   int     `json:"cover_max_retries"`
	CoverRetryBackoff float64 `json:"cover_retry_backoff"`

	// Logging settings
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"` // debug, info, warn, error
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		StartSource:   "online",
		InitialVolume: 0.8,
		SampleRate:    44100,
		BufferMillis:  100,

		FFTSize:     256,
		Smoothing:   0.8,
		MinDecibels: -100,
		MaxDecibels: -30,
		BarScale:    2.5,
		FrameRate:   30,

		SnapshotWidth:  800,
		SnapshotHeight: 300,

		MaxConcurrentProbes: 4,
		DefaultCover:        "",
		OnlineTracks: []TrackSettings{
			{
				Name:   "Electronic Vibes",
				Artist: "DJ Electron",
				URL:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
				Cover:  "https://picsum.photos/id/1/200",
			},
			{
				Name:   "Acoustic Dreams",
				Artist: "Guitar Master",
				URL:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
				Cover:  "https://picsum.photos/id/2/200",
			},
			{
				Name:   "Jazz Fusion",
				Artist: "Smooth Sax",
				URL:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
				Cover:  "https://picsum.photos/id/3/200",
			},
		},

		UserAgent:         "waveplayer",
		CoverMaxRetries:   3,
		CoverRetryBackoff: 0.5,

		LogFile:  filepath.Join(os.TempDir(), "waveplayer.log"),
		LogLevel: "info",
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "waveplayer", "config.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// StartMode converts StartSource to a model.Mode, defaulting to online.
func (s *Settings) StartMode() model.Mode {
	mode, err := model.ParseMode(s.StartSource)
	if err != nil {
		return model.ModeOnline
	}
	return mode
}

// SeedTracks converts OnlineTracks to model tracks.
func (s *Settings) SeedTracks() []model.Track {
	tracks := make([]model.Track, 0, len(s.OnlineTracks))
	for _, ts := range s.OnlineTracks {
		if ts.URL == "" {
			continue
		}
		track := model.NewOnlineTrack(ts.Name, ts.Artist, ts.URL)
		if ts.Cover != "" {
			track.CoverURI = ts.Cover
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// BufferDuration returns the speaker buffer length.
func (s *Settings) BufferDuration() time.Duration {
	if s.BufferMillis <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(s.BufferMillis) * time.Millisecond
}

// FrameInterval returns the delay between visualizer frames.
func (s *Settings) FrameInterval() time.Duration {
	fps := s.FrameRate
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

// MediaConfig returns the playback and analysis settings for the media.
func (s *Settings) MediaConfig() audio.MediaConfig {
	return audio.MediaConfig{
		SampleRate: s.SampleRate,
		Buffer:     s.BufferDuration(),
		Analyser: audio.AnalyserConfig{
			FFTSize:     s.FFTSize,
			Smoothing:   s.Smoothing,
			MinDecibels: s.MinDecibels,
			MaxDecibels: s.MaxDecibels,
		},
	}
}

// Level parses LogLevel, defaulting to info.
func (s *Settings) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || s.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}
