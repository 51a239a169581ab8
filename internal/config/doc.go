// Package config provides configuration management for waveplayer.
//
// Settings are stored as JSON. A missing file is not an error: Load returns
// DefaultSettings so the player always starts.
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // malformed JSON or unreadable file
//	}
//
// Settings covers playback (start source, initial volume, speaker format),
// the visualizer (FFT size, smoothing, decibel range, bar scale, frame rate),
// the library (probe concurrency, default cover, preloaded online tracks),
// networking and logging.
package config
