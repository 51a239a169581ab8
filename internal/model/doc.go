// Package model defines the core data structures used throughout
// the waveplayer application.
//
// # Track
//
// Track is one playable item. Local tracks carry a file path, online tracks
// carry a URL:
//
//	local := model.NewLocalTrack("/music/song.mp3", "", "", "", 3*time.Minute)
//	fmt.Println(local.Name)   // "song"
//	fmt.Println(local.Artist) // "Local File"
//
//	online := model.NewOnlineTrack("", "", "https://example.com/a.mp3")
//	fmt.Println(online.Name) // "Unknown Song"
//
// # Playlist
//
// Playlist is an ordered, append-only sequence of tracks. The player keeps one
// playlist per Mode and exactly one of them is current:
//
//	pl := model.NewPlaylist(model.ModeOnline)
//	pl.Add(online)
//	next := pl.Wrap(0, 1) // wraparound index arithmetic
//
// # Playback state
//
// PlaybackState is the snapshot the user interface renders; Status is Idle,
// Paused or Playing.
package model
