// Package ioutils provides file system and image utilities for waveplayer.
//
// This package contains functions for:
//   - Recognising audio files the way a browser recognises audio/* types
//   - Expanding directories and dropped-path text into file lists
//   - Decoding, scaling and generating cover images
//
// # Audio Detection
//
//	ioutils.IsAudioFile("/music/song.mp3") // true
//	ioutils.IsAudioFile("/music/notes.txt") // false
//
// # Dropped Files
//
// Terminals paste the paths of files dragged onto them:
//
//	paths := ioutils.SplitDroppedPaths(pasted)
//
// # Cover Images
//
//	svc := ioutils.NewImageService()
//	thumb, err := svc.Thumbnail(ctx, jpegBytes, 16, 16)
//	placeholder := svc.Placeholder(16, 16)
package ioutils
