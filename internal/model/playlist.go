package model

import (
	"fmt"
	"strings"
)

// Mode selects which of the two playlists is current.
type Mode int

const (
	// ModeLocal browses the playlist of user-selected files.
	ModeLocal Mode = iota

	// ModeOnline browses the playlist of remote URLs.
	ModeOnline
)

// String returns "local" or "online".
func (m Mode) String() string {
	if m == ModeOnline {
		return "online"
	}
	return "local"
}

// ParseMode converts "local" or "online" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return ModeLocal, nil
	case "online":
		return ModeOnline, nil
	}
	return ModeLocal, fmt.Errorf("unknown source %q (want local or online)", s)
}

// Playlist is an ordered collection of tracks.
//
// Playlists only grow: tracks are appended and never mutated or removed while
// the player runs.
type Playlist struct {
	mode   Mode
	tracks []Track
}

// NewPlaylist creates an empty playlist for the given mode.
func NewPlaylist(mode Mode) *Playlist {
	return &Playlist{
		mode:   mode,
		tracks: make([]Track, 0),
	}
}

// Mode returns the playlist's mode.
func (p *Playlist) Mode() Mode {
	return p.mode
}

// Add appends tracks to the playlist.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Empty reports whether the playlist has no tracks.
func (p *Playlist) Empty() bool {
	return len(p.tracks) == 0
}

// Track returns the track at index, or false if the index is out of bounds.
func (p *Playlist) Track(index int) (Track, bool) {
	if index < 0 || index >= len(p.tracks) {
		return Track{}, false
	}
	return p.tracks[index], true
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Wrap maps index+delta onto the playlist with wraparound.
// It returns 0 for an empty playlist.
func (p *Playlist) Wrap(index, delta int) int {
	n := len(p.tracks)
	if n == 0 {
		return 0
	}
	return ((index+delta)%n + n) % n
}
