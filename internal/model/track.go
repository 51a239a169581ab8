package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provenance tells where a track's audio comes from.
type Provenance int

const (
	// Local tracks point at a file the user selected or dropped.
	Local Provenance = iota

	// Online tracks point at a remote URL streamed on demand.
	Online
)

// String returns "local" or "online".
func (p Provenance) String() string {
	if p == Online {
		return "online"
	}
	return "local"
}

const (
	// UnknownSong is the name stored for online tracks added without a name.
	UnknownSong = "Unknown Song"

	// UnknownArtist is the artist stored for online tracks added without one.
	UnknownArtist = "Unknown Artist"

	// LocalArtist is the artist used for local files without an artist tag.
	LocalArtist = "Local File"

	// DefaultCoverURI selects the placeholder cover image.
	DefaultCoverURI = "default-album"

	embeddedCoverScheme = "embedded:"
)

// Track is one playable audio item with its display metadata.
//
// A Track is immutable once it has been added to a playlist. Use NewLocalTrack
// or NewOnlineTrack so that the ID and defaults are filled in.
//
// Example:
//
//	t := NewOnlineTrack("", "", "https://example.com/song.mp3")
//	// t.Name == "Unknown Song", t.Artist == "Unknown Artist"
//	// t.CoverURI == DefaultCoverURI
type Track struct {
	// ID uniquely identifies the track within the running process.
	ID string

	// Name is the song title shown in the header and the playlist.
	Name string

	// Artist is the performer shown under the title.
	Artist string

	// SourceURI is a file path for local tracks and a URL for online tracks.
	SourceURI string

	// CoverURI is a file path, URL, EmbeddedCoverURI or DefaultCoverURI.
	// Empty means the track supplied no cover and the placeholder is used.
	CoverURI string

	// Provenance records whether the track is local or online.
	Provenance Provenance

	// Duration is known for probed local files and zero otherwise.
	Duration time.Duration
}

// NewLocalTrack creates a local track from probed metadata.
//
// A blank name falls back to the file name without its extension and a blank
// artist falls back to LocalArtist.
func NewLocalTrack(path, name, artist, coverURI string, duration time.Duration) Track {
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if strings.TrimSpace(artist) == "" {
		artist = LocalArtist
	}
	return Track{
		ID:         uuid.New().String(),
		Name:       name,
		Artist:     artist,
		SourceURI:  path,
		CoverURI:   coverURI,
		Provenance: Local,
		Duration:   duration,
	}
}

// NewOnlineTrack creates an online track. The URL is accepted as is.
func NewOnlineTrack(name, artist, url string) Track {
	if strings.TrimSpace(name) == "" {
		name = UnknownSong
	}
	if strings.TrimSpace(artist) == "" {
		artist = UnknownArtist
	}
	return Track{
		ID:         uuid.New().String(),
		Name:       name,
		Artist:     artist,
		SourceURI:  url,
		CoverURI:   DefaultCoverURI,
		Provenance: Online,
	}
}

// Cover returns the cover URI to display, substituting the placeholder.
func (t Track) Cover() string {
	if t.CoverURI == "" {
		return DefaultCoverURI
	}
	return t.CoverURI
}

// String formats the track as "Artist - Name".
func (t Track) String() string {
	return fmt.Sprintf("%s - %s", t.Artist, t.Name)
}

// EmbeddedCoverURI refers to the picture stored in the tags of the file at path.
func EmbeddedCoverURI(path string) string {
	return embeddedCoverScheme + path
}

// EmbeddedCoverPath returns the file path of an EmbeddedCoverURI.
func EmbeddedCoverPath(uri string) (string, bool) {
	if !strings.HasPrefix(uri, embeddedCoverScheme) {
		return "", false
	}
	return strings.TrimPrefix(uri, embeddedCoverScheme), true
}
