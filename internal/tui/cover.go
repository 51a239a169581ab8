package tui

import (
	"context"
	"errors"
	"image"
	"os"

	"github.com/handiism/waveplayer/internal/audio"
	"github.com/handiism/waveplayer/internal/config"
	httpclient "github.com/handiism/waveplayer/internal/http"
	ioutils "github.com/handiism/waveplayer/internal/io"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/handiism/waveplayer/internal/visualizer"
	"github.com/rs/zerolog/log"
)

// CoverLoader fetches cover art for a track and scales it for display.
//
// A cover URI may be a file path, a URL, an embedded picture reference or
// the default cover. Anything that cannot be loaded falls back to the
// placeholder, so Load never fails.
type CoverLoader struct {
	client   *httpclient.Client
	images   *ioutils.ImageService
	retries  int
	backoff  float64
	fallback string
}

// NewCoverLoader creates a CoverLoader. client may be nil, in which case
// remote covers fall back to the placeholder.
func NewCoverLoader(client *httpclient.Client, settings *config.Settings) *CoverLoader {
	return &CoverLoader{
		client:   client,
		images:   ioutils.NewImageService(),
		retries:  settings.CoverMaxRetries,
		backoff:  settings.CoverRetryBackoff,
		fallback: settings.DefaultCover,
	}
}

// Load returns the cover at uri scaled to width x height pixels.
func (l *CoverLoader) Load(ctx context.Context, uri string, width, height int) image.Image {
	if uri == "" || uri == model.DefaultCoverURI {
		uri = l.fallback
	}
	if uri == "" {
		return l.images.Placeholder(width, height)
	}

	data, err := l.fetch(ctx, uri)
	if err == nil {
		var img image.Image
		if img, err = l.images.Thumbnail(ctx, data, width, height); err == nil {
			return img
		}
	}
	log.Debug().Err(err).Msgf("cover unavailable: %s", uri)
	return l.images.Placeholder(width, height)
}

func (l *CoverLoader) fetch(ctx context.Context, uri string) ([]byte, error) {
	if path, ok := model.EmbeddedCoverPath(uri); ok {
		return audio.ReadEmbeddedCover(path)
	}
	if httpclient.IsRemote(uri) {
		if l.client == nil {
			return nil, errors.New("no http client")
		}
		return l.client.GetWithRetry(ctx, uri, l.retries, l.backoff)
	}
	return os.ReadFile(uri)
}

// renderImage draws img as half-block terminal cells.
func renderImage(img image.Image) string {
	b := img.Bounds()
	g := visualizer.NewGrid(b.Dx(), b.Dy())
	g.Blit(img)
	return g.Render()
}
