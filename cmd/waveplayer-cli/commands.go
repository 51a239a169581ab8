package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	ioutils "github.com/handiism/waveplayer/internal/io"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/handiism/waveplayer/internal/player"
)

var errEmptyLine = errors.New("empty line")

// verb is what a REPL line asks for.
type verb int

const (
	verbControl verb = iota
	verbAdd
	verbAddOnline
	verbList
	verbStatus
	verbSnapshot
	verbHelp
	verbQuit
)

// request is a parsed REPL line. cmd is set for verbControl, paths for
// verbAdd and path for verbSnapshot.
type request struct {
	verb  verb
	cmd   player.Command
	paths []string
	path  string
}

const helpText = `Commands:
  play | pause | toggle         control playback
  next (n) | prev (p)           change track
  select <n>                    play entry n of the current playlist
  seek <0-100>                  jump to a percentage of the track
  vol <0-100> | mute            change or mute the volume
  source local|online           switch playlists
  add <path>...                 import files, directories or playlists
  add-online                    add an online track (prompts)
  list | status                 show the playlist or the player state
  snapshot <file.png>           save the current visualizer frame
  help | quit`

// parseLine turns one REPL line into a request.
func parseLine(line string) (request, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return request{}, errEmptyLine
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	control := func(kind player.CommandKind) (request, error) {
		return request{verb: verbControl, cmd: player.Command{Kind: kind}}, nil
	}

	switch strings.ToLower(name) {
	case "play":
		return control(player.CmdPlay)
	case "pause":
		return control(player.CmdPause)
	case "toggle":
		return control(player.CmdToggle)
	case "next", "n":
		return control(player.CmdNext)
	case "prev", "previous", "p":
		return control(player.CmdPrevious)
	case "mute":
		return control(player.CmdToggleMute)

	case "source":
		mode, err := model.ParseMode(rest)
		if err != nil {
			return request{}, err
		}
		return request{verb: verbControl, cmd: player.Command{Kind: player.CmdSwitchSource, Mode: mode}}, nil

	case "select":
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return request{}, fmt.Errorf("usage: select <n> (n starts at 1)")
		}
		return request{verb: verbControl, cmd: player.Command{Kind: player.CmdSelect, Index: n - 1}}, nil

	case "seek":
		pct, err := parsePercent(rest)
		if err != nil {
			return request{}, fmt.Errorf("usage: seek <0-100>: %w", err)
		}
		return request{verb: verbControl, cmd: player.Command{Kind: player.CmdSeek, Fraction: pct}}, nil

	case "vol", "volume":
		pct, err := parsePercent(rest)
		if err != nil {
			return request{}, fmt.Errorf("usage: vol <0-100>: %w", err)
		}
		return request{verb: verbControl, cmd: player.Command{Kind: player.CmdSetVolume, Level: pct}}, nil

	case "add":
		paths := ioutils.SplitDroppedPaths(rest)
		if len(paths) == 0 {
			return request{}, fmt.Errorf("usage: add <path>...")
		}
		return request{verb: verbAdd, paths: paths}, nil

	case "add-online":
		return request{verb: verbAddOnline}, nil

	case "list", "ls":
		return request{verb: verbList}, nil

	case "status":
		return request{verb: verbStatus}, nil

	case "snapshot":
		if rest == "" {
			return request{}, fmt.Errorf("usage: snapshot <file.png>")
		}
		return request{verb: verbSnapshot, path: rest}, nil

	case "help", "?":
		return request{verb: verbHelp}, nil

	case "quit", "exit", "q":
		return request{verb: verbQuit}, nil
	}

	return request{}, fmt.Errorf("unknown command %q (type help)", name)
}

// parsePercent parses "0".."100" (an optional % suffix is allowed) into a
// fraction. Out of range values are left for the controller to clamp.
func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}
