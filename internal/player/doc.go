// Package player holds the playback and playlist controller.
//
// The Controller owns both playlists, the active index, the play/pause flag
// and the volume. It drives an audio.Media and a Visualizer and is driven
// either directly by a host with its own event loop, such as the Bubble Tea
// UI, or through a Loop for hosts without one.
package player
