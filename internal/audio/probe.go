package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bogem/id3v2"
	ioutils "github.com/handiism/waveplayer/internal/io"
	"github.com/handiism/waveplayer/internal/model"
)

var (
	// ErrNotAudio is returned by Probe for files that are not audio.
	ErrNotAudio = errors.New("not an audio file")

	// ErrNoCover is returned by ReadEmbeddedCover when the file has no picture.
	ErrNoCover = errors.New("no embedded cover")
)

// Prober reads the metadata a local file needs before it can be listed:
// duration, title, artist and whether it carries cover art.
//
// Probe decodes only the stream header. Title and artist come from ID3 tags
// for MP3 files; other formats fall back to the file name and LocalArtist.
//
// Example:
//
//	prober := NewProber()
//	track, err := prober.Probe(ctx, "/music/01 Intro.mp3")
//	// track.Name == "Intro" (from TIT2) or "01 Intro" without a tag
type Prober struct{}

// NewProber creates a new Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Probe reads the file at path and returns a local track.
//
// Returns ErrNotAudio if the file is not recognised as audio, or a wrapped
// decoder error if its metadata cannot be loaded.
func (p *Prober) Probe(ctx context.Context, path string) (model.Track, error) {
	if err := ctx.Err(); err != nil {
		return model.Track{}, err
	}

	mimeType := ioutils.AudioMIMEType(path)
	if mimeType == "" {
		return model.Track{}, ErrNotAudio
	}
	format := FormatFromPath(path)
	if format == "" {
		format = FormatFromContentType(mimeType)
	}

	duration, err := probeDuration(path, format)
	if err != nil {
		return model.Track{}, fmt.Errorf("probe %s: %w", path, err)
	}

	var name, artist, cover string
	if format == FormatMP3 {
		var hasCover bool
		name, artist, hasCover = readTags(path)
		if hasCover {
			cover = model.EmbeddedCoverURI(path)
		}
	}

	return model.NewLocalTrack(path, name, artist, cover, duration), nil
}

func probeDuration(path, format string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	stream, bf, err := Decode(f, format)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	if stream.Len() <= 0 {
		return 0, nil
	}
	return bf.SampleRate.D(stream.Len()), nil
}

// readTags returns the ID3 title and artist and whether an attached picture
// is present. Missing or unreadable tags yield empty values.
func readTags(path string) (title, artist string, hasCover bool) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return "", "", false
	}
	defer tag.Close()

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	return tag.Title(), tag.Artist(), len(pictures) > 0
}

// ReadEmbeddedCover returns the first attached picture of the MP3 at path.
//
// Files without a readable ID3 tag, including ones too short to hold a tag
// header, report ErrNoCover. Only a file that cannot be opened at all returns
// a different error.
func ReadEmbeddedCover(path string) ([]byte, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, statErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNoCover, err)
	}
	defer tag.Close()

	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		if pic, ok := f.(id3v2.PictureFrame); ok && len(pic.Picture) > 0 {
			return pic.Picture, nil
		}
	}
	return nil, ErrNoCover
}
