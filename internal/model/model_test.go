package model

import (
	"strings"
	"testing"
	"time"
)

func TestNewOnlineTrack_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		inName     string
		inArtist   string
		wantName   string
		wantArtist string
	}{
		{"both blank", "", "", UnknownSong, UnknownArtist},
		{"whitespace only", "  ", "\t", UnknownSong, UnknownArtist},
		{"name only", "Jazz Fusion", "", "Jazz Fusion", UnknownArtist},
		{"both set", "Jazz Fusion", "Smooth Sax", "Jazz Fusion", "Smooth Sax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := NewOnlineTrack(tt.inName, tt.inArtist, "https://example.com/a.mp3")
			if track.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", track.Name, tt.wantName)
			}
			if track.Artist != tt.wantArtist {
				t.Errorf("Artist = %q, want %q", track.Artist, tt.wantArtist)
			}
			if track.CoverURI != DefaultCoverURI {
				t.Errorf("CoverURI = %q, want placeholder", track.CoverURI)
			}
			if track.Provenance != Online {
				t.Errorf("Provenance = %v, want online", track.Provenance)
			}
		})
	}
}

func TestNewLocalTrack_FallsBackToFileName(t *testing.T) {
	track := NewLocalTrack("/music/01 Intro.mp3", "", "", "", 90*time.Second)

	if track.Name != "01 Intro" {
		t.Errorf("Name = %q, want %q", track.Name, "01 Intro")
	}
	if track.Artist != LocalArtist {
		t.Errorf("Artist = %q, want %q", track.Artist, LocalArtist)
	}
	if track.Cover() != DefaultCoverURI {
		t.Errorf("Cover() = %q, want placeholder", track.Cover())
	}
	if track.ID == "" {
		t.Error("ID should be set")
	}
}

func TestTrack_UniqueIDs(t *testing.T) {
	a := NewOnlineTrack("a", "b", "https://example.com/1.mp3")
	b := NewOnlineTrack("a", "b", "https://example.com/1.mp3")
	if a.ID == b.ID {
		t.Errorf("two tracks share ID %q", a.ID)
	}
}

func TestEmbeddedCoverURI(t *testing.T) {
	uri := EmbeddedCoverURI("/music/song.mp3")
	if !strings.HasPrefix(uri, "embedded:") {
		t.Fatalf("EmbeddedCoverURI = %q", uri)
	}
	path, ok := EmbeddedCoverPath(uri)
	if !ok || path != "/music/song.mp3" {
		t.Errorf("EmbeddedCoverPath = %q, %v", path, ok)
	}
	if _, ok := EmbeddedCoverPath("https://example.com/a.jpg"); ok {
		t.Error("URL should not parse as embedded cover")
	}
}

func TestPlaylist_Wrap(t *testing.T) {
	pl := NewPlaylist(ModeOnline)
	for _, name := range []string{"A", "B", "C"} {
		pl.Add(NewOnlineTrack(name, "", "https://example.com/"+name))
	}

	tests := []struct {
		index, delta, want int
	}{
		{0, 1, 1},
		{2, 1, 0},
		{0, -1, 2},
		{1, -1, 0},
		{2, 4, 0},
	}

	for _, tt := range tests {
		if got := pl.Wrap(tt.index, tt.delta); got != tt.want {
			t.Errorf("Wrap(%d, %d) = %d, want %d", tt.index, tt.delta, got, tt.want)
		}
	}
}

func TestPlaylist_WrapIsAGroup(t *testing.T) {
	pl := NewPlaylist(ModeLocal)
	for i := 0; i < 5; i++ {
		pl.Add(NewLocalTrack("/music/x.mp3", "", "", "", 0))
	}
	for i := 0; i < pl.Len(); i++ {
		if got := pl.Wrap(pl.Wrap(i, 1), -1); got != i {
			t.Errorf("next then previous from %d = %d", i, got)
		}
		if got := pl.Wrap(pl.Wrap(i, -1), 1); got != i {
			t.Errorf("previous then next from %d = %d", i, got)
		}
	}
}

func TestPlaylist_TrackBounds(t *testing.T) {
	pl := NewPlaylist(ModeLocal)
	if _, ok := pl.Track(0); ok {
		t.Error("Track(0) on empty playlist should fail")
	}
	if !pl.Empty() {
		t.Error("new playlist should be empty")
	}
	if got := pl.Wrap(3, 1); got != 0 {
		t.Errorf("Wrap on empty = %d, want 0", got)
	}

	pl.Add(NewLocalTrack("/a.mp3", "A", "", "", 0))
	if tr, ok := pl.Track(0); !ok || tr.Name != "A" {
		t.Errorf("Track(0) = %v, %v", tr, ok)
	}
	if _, ok := pl.Track(1); ok {
		t.Error("Track(1) should be out of range")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"local", ModeLocal, false},
		{"ONLINE", ModeOnline, false},
		{" online ", ModeOnline, false},
		{"radio", ModeLocal, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
