package player

import (
	"fmt"

	"github.com/handiism/waveplayer/internal/model"
)

// CommandKind identifies a user or media action.
type CommandKind int

const (
	CmdPlay CommandKind = iota
	CmdPause
	CmdToggle
	CmdNext
	CmdPrevious
	CmdTrackEnded
	CmdSwitchSource
	CmdSelect
	CmdSeek
	CmdSetVolume
	CmdToggleMute
	CmdAddOnline
	CmdAddLocal
)

var commandNames = map[CommandKind]string{
	CmdPlay:         "play",
	CmdPause:        "pause",
	CmdToggle:       "toggle",
	CmdNext:         "next",
	CmdPrevious:     "previous",
	CmdTrackEnded:   "track-ended",
	CmdSwitchSource: "switch-source",
	CmdSelect:       "select",
	CmdSeek:         "seek",
	CmdSetVolume:    "set-volume",
	CmdToggleMute:   "toggle-mute",
	CmdAddOnline:    "add-online",
	CmdAddLocal:     "add-local",
}

// String returns the command name.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is one action for the Controller. Only the fields used by Kind are
// read:
//   - CmdSwitchSource: Mode
//   - CmdSelect: Index
//   - CmdSeek: Fraction
//   - CmdSetVolume: Level
//   - CmdAddOnline: Name, Artist, URL
//   - CmdAddLocal: Track
type Command struct {
	Kind     CommandKind
	Mode     model.Mode
	Index    int
	Fraction float64
	Level    float64
	Name     string
	Artist   string
	URL      string
	Track    model.Track
}

// Dispatch applies cmd to the controller. Unknown kinds return an error and
// leave the state untouched.
func (c *Controller) Dispatch(cmd Command) error {
	switch cmd.Kind {
	case CmdPlay:
		c.Play()
	case CmdPause:
		c.Pause()
	case CmdToggle:
		c.Toggle()
	case CmdNext:
		c.Next()
	case CmdPrevious:
		c.Previous()
	case CmdTrackEnded:
		c.OnTrackEnded()
	case CmdSwitchSource:
		c.SwitchSource(cmd.Mode)
	case CmdSelect:
		c.Select(cmd.Index)
	case CmdSeek:
		c.Seek(cmd.Fraction)
	case CmdSetVolume:
		c.SetVolume(cmd.Level)
	case CmdToggleMute:
		c.ToggleMute()
	case CmdAddOnline:
		c.AddOnlineTrack(cmd.Name, cmd.Artist, cmd.URL)
	case CmdAddLocal:
		c.AddLocalTrack(cmd.Track)
	default:
		return fmt.Errorf("unknown command %s", cmd.Kind)
	}
	return nil
}

// AddTrack routes a track produced by an import to the playlist matching its
// provenance.
func AddTrack(track model.Track) Command {
	if track.Provenance == model.Online {
		return Command{Kind: CmdAddOnline, Name: track.Name, Artist: track.Artist, URL: track.SourceURI}
	}
	return Command{Kind: CmdAddLocal, Track: track}
}
