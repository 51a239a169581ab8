// Package importer adds local files to the player.
//
// # Importer
//
// The Importer runs the asynchronous half of adding local tracks:
//
//  1. Expand directories and M3U/PLS playlist files
//  2. Probe each file concurrently for duration and tags
//  3. Skip files that are not audio
//  4. Hand each finished track to the caller
//
// # Basic Usage
//
//	imp := importer.NewImporter(audio.NewProber(), 4, func(e model.Event) {
//	    fmt.Println(e.Message)
//	})
//
//	err := imp.Import(ctx, []string{"/music/Album", "/music/mix.m3u"}, func(t model.Track) {
//	    events <- t // hand the track back to the event loop
//	})
//
// # Concurrency
//
// Probes run on an errgroup bounded by the maxProbes argument. Tracks are
// delivered in completion order, not input order, and the deliver callback
// runs on worker goroutines.
package importer
