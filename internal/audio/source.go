package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/faiface/beep"
	httpclient "github.com/handiism/waveplayer/internal/http"
	ioutils "github.com/handiism/waveplayer/internal/io"
)

// SourceOpener opens a track's SourceURI as a decoded stream.
//
// Local paths are opened from disk. http and https URLs are streamed through
// the HTTP client; the container is chosen from the URL extension, falling
// back to the response Content-Type.
type SourceOpener struct {
	client *httpclient.Client
}

// NewSourceOpener creates a SourceOpener that streams online tracks with client.
func NewSourceOpener(client *httpclient.Client) *SourceOpener {
	return &SourceOpener{client: client}
}

// Open opens and decodes uri.
//
// For online tracks the stream stays tied to ctx: cancelling it aborts the
// download and ends playback.
func (o *SourceOpener) Open(ctx context.Context, uri string) (beep.StreamSeekCloser, beep.Format, error) {
	if httpclient.IsRemote(uri) {
		return o.openRemote(ctx, uri)
	}
	return o.openLocal(uri)
}

func (o *SourceOpener) openRemote(ctx context.Context, uri string) (beep.StreamSeekCloser, beep.Format, error) {
	if o.client == nil {
		return nil, beep.Format{}, fmt.Errorf("open %s: no http client", uri)
	}
	body, contentType, err := o.client.OpenStream(ctx, uri)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open %s: %w", uri, err)
	}

	format := FormatFromPath(uri)
	if format == "" {
		format = FormatFromContentType(contentType)
	}
	_, seekable := body.(io.Seeker)
	stream, f, err := Decode(body, format)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", uri, err)
	}
	if !seekable {
		return forwardOnly{stream}, f, nil
	}
	return stream, f, nil
}

// errNotSeekable is returned when seeking a stream whose server does not
// support byte ranges.
var errNotSeekable = errors.New("stream is not seekable")

// forwardOnly guards a decoder reading from a plain response body. The beep
// decoders panic when asked to seek such a source.
type forwardOnly struct {
	beep.StreamSeekCloser
}

func (forwardOnly) Seek(int) error {
	return errNotSeekable
}

func (o *SourceOpener) openLocal(path string) (beep.StreamSeekCloser, beep.Format, error) {
	format := FormatFromPath(path)
	if format == "" {
		format = FormatFromContentType(ioutils.AudioMIMEType(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open %s: %w", path, err)
	}
	stream, bf, err := Decode(f, format)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return stream, bf, nil
}
