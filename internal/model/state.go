package model

// Status is the coarse playback state.
type Status int

const (
	// Idle means no track is loaded.
	Idle Status = iota

	// Paused means a track is bound to the media but not advancing.
	Paused

	// Playing means the media is advancing and the visualizer is active.
	Playing
)

// String returns a short upper-case label for the status line.
func (s Status) String() string {
	switch s {
	case Paused:
		return "PAUSED"
	case Playing:
		return "PLAYING"
	default:
		return "IDLE"
	}
}

// PlaybackState is a read-only snapshot of the controller.
type PlaybackState struct {
	Mode    Mode
	Index   int
	Playing bool
	Volume  float64
	Status  Status
}
