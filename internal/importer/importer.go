package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/handiism/waveplayer/internal/audio"
	ioutils "github.com/handiism/waveplayer/internal/io"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Prober reads a local file into a track.
type Prober interface {
	Probe(ctx context.Context, path string) (model.Track, error)
}

// Importer turns files, directories and playlist files into tracks.
type Importer struct {
	prober     Prober
	maxProbes  int
	onProgress func(model.Event)

	total   int32
	probed  int32
	skipped int32
}

// NewImporter creates a new Importer.
//
// maxProbes bounds how many files are probed at once; values below 1 mean 1.
// onProgress may be nil.
func NewImporter(prober Prober, maxProbes int, onProgress func(model.Event)) *Importer {
	return &Importer{
		prober:     prober,
		maxProbes:  max(maxProbes, 1),
		onProgress: onProgress,
	}
}

// Import probes every audio file named by paths and calls deliver once per
// track as soon as it is ready.
//
// Directories are walked recursively. M3U and PLS files contribute their
// entries: local entries are probed like any other file and URL entries are
// delivered directly as online tracks. Files that are not audio are skipped
// without an error.
//
// deliver is called from worker goroutines, in completion order. Import
// returns when every probe has finished or ctx is cancelled.
func (i *Importer) Import(ctx context.Context, paths []string, deliver func(model.Track)) error {
	files, online := i.expand(paths)
	for _, track := range online {
		deliver(track)
	}

	atomic.StoreInt32(&i.total, int32(len(files)))
	atomic.StoreInt32(&i.probed, 0)
	atomic.StoreInt32(&i.skipped, 0)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.maxProbes)

	for _, path := range files {
		path := path // capture
		g.Go(func() error {
			track, err := i.prober.Probe(ctx, path)
			atomic.AddInt32(&i.probed, 1)
			switch {
			case errors.Is(err, audio.ErrNotAudio):
				atomic.AddInt32(&i.skipped, 1)
				log.Debug().Msgf("skipping non-audio file %s", path)
				return nil
			case ctx.Err() != nil:
				return ctx.Err()
			case err != nil:
				atomic.AddInt32(&i.skipped, 1)
				i.progress(model.Event{Message: fmt.Sprintf("Cannot read %s: %v", filepath.Base(path), err), Level: model.LevelWarning})
				return nil
			}
			i.progress(model.Event{Message: fmt.Sprintf("Added: %s", track), Level: model.LevelVerbose})
			deliver(track)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	added := len(online) + len(files) - int(atomic.LoadInt32(&i.skipped))
	if added > 0 {
		i.progress(model.Event{Message: fmt.Sprintf("Imported %d track(s)", added), Level: model.LevelSuccess})
	}
	return nil
}

// Progress returns how many files have been probed out of the current total.
func (i *Importer) Progress() (probed, total int32) {
	return atomic.LoadInt32(&i.probed), atomic.LoadInt32(&i.total)
}

// expand resolves the input paths into local files to probe and ready-made
// online tracks.
func (i *Importer) expand(paths []string) ([]string, []model.Track) {
	var (
		files  []string
		online []model.Track
	)

	for _, p := range paths {
		expanded, err := ioutils.ExpandPaths([]string{p})
		if err != nil {
			i.progress(model.Event{Message: fmt.Sprintf("Cannot open %s: %v", p, err), Level: model.LevelWarning})
			continue
		}

		// Files found by walking a directory are filtered by type up front, so
		// covers and notes never count towards the import total. Files named
		// explicitly are left for the prober to judge.
		walked := len(expanded) != 1 || expanded[0] != p
		for _, f := range expanded {
			if !audio.IsPlaylistFile(f) {
				if walked && !ioutils.IsAudioFile(f) {
					log.Debug().Msgf("skipping %s", f)
					continue
				}
				files = append(files, f)
				continue
			}

			entries, err := audio.ReadPlaylist(f)
			if err != nil {
				i.progress(model.Event{Message: fmt.Sprintf("Cannot read playlist %s: %v", filepath.Base(f), err), Level: model.LevelWarning})
				continue
			}
			for _, e := range entries {
				if e.Remote() {
					name, artist := splitTitle(e.Title)
					online = append(online, model.NewOnlineTrack(name, artist, e.Location))
					continue
				}
				if _, err := os.Stat(e.Location); err != nil {
					log.Debug().Msgf("playlist entry missing: %s", e.Location)
					continue
				}
				files = append(files, e.Location)
			}
		}
	}

	return files, online
}

// splitTitle splits an "Artist - Title" playlist title.
func splitTitle(title string) (name, artist string) {
	if a, n, ok := strings.Cut(title, " - "); ok {
		return strings.TrimSpace(n), strings.TrimSpace(a)
	}
	return title, ""
}

func (i *Importer) progress(event model.Event) {
	if i.onProgress != nil {
		i.onProgress(event)
	}
}
