package audio

import (
	"errors"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Container names returned by FormatFromPath and FormatFromContentType.
const (
	FormatMP3    = "mp3"
	FormatWAV    = "wav"
	FormatFLAC   = "flac"
	FormatVorbis = "ogg"
)

// ErrUnsupportedFormat is returned when no decoder matches a stream.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// FormatFromPath guesses the container from a file path or URL extension.
// Query strings and fragments of URLs are ignored. Returns "" if unknown.
func FormatFromPath(p string) string {
	if u, err := url.Parse(p); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".mp3":
		return FormatMP3
	case ".wav", ".wave":
		return FormatWAV
	case ".flac":
		return FormatFLAC
	case ".ogg", ".oga":
		return FormatVorbis
	}
	return ""
}

// FormatFromContentType maps a MIME type to a container. Returns "" if unknown.
func FormatFromContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case "audio/mpeg", "audio/mp3", "audio/mpeg3", "audio/x-mpeg":
		return FormatMP3
	case "audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave":
		return FormatWAV
	case "audio/flac", "audio/x-flac":
		return FormatFLAC
	case "audio/ogg", "audio/vorbis", "application/ogg":
		return FormatVorbis
	}
	return ""
}

// Decode wraps rc in the beep decoder for format.
//
// On success the returned streamer owns rc and closes it. On failure rc is
// closed before returning.
func Decode(rc io.ReadCloser, format string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		stream beep.StreamSeekCloser
		f      beep.Format
		err    error
	)
	switch format {
	case FormatMP3:
		stream, f, err = mp3.Decode(rc)
	case FormatWAV:
		stream, f, err = wav.Decode(rc)
	case FormatFLAC:
		stream, f, err = flac.Decode(rc)
	case FormatVorbis:
		stream, f, err = vorbis.Decode(rc)
	default:
		rc.Close()
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, err
	}
	return stream, f, nil
}
