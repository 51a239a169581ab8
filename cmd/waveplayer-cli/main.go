package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/handiism/waveplayer/internal/audio"
	"github.com/handiism/waveplayer/internal/config"
	httpclient "github.com/handiism/waveplayer/internal/http"
	"github.com/handiism/waveplayer/internal/importer"
	"github.com/handiism/waveplayer/internal/logging"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/handiism/waveplayer/internal/player"
	"github.com/handiism/waveplayer/internal/visualizer"
	"github.com/rs/zerolog/log"
)

func main() {
	// Command line flags
	var (
		configFlag  = flag.String("config", "", "Path to config file (default: user config dir)")
		sourceFlag  = flag.String("source", "", "Playlist shown at startup: local or online (overrides config)")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output and debug logs")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "waveplayer-cli - line-oriented music player")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  waveplayer-cli [options] [file|dir|playlist ...]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For the terminal UI, use: waveplayer")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load config
	path := *configFlag
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *sourceFlag != "" {
		if _, err := model.ParseMode(*sourceFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		settings.StartSource = *sourceFlag
	}

	closer, err := logging.Setup(settings, true, *verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "waveplayer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete:    completer(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	out := rl.Stdout()
	printEvent := func(event model.Event) {
		if event.Level == model.LevelVerbose && !*verboseFlag {
			return
		}
		fmt.Fprintln(out, eventPrefix(event.Level)+event.Message)
	}

	client := httpclient.NewClient(settings.UserAgent)
	media, err := audio.NewBeepMedia(settings.MediaConfig(), client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer media.Close()

	raster := visualizer.NewRaster(settings.SnapshotWidth, settings.SnapshotHeight)
	viz := visualizer.New(media, raster, settings.BarScale)
	ctrl := player.NewController(media, viz, player.Options{
		StartMode:     settings.StartMode(),
		InitialVolume: settings.InitialVolume,
		OnlineTracks:  settings.SeedTracks(),
		OnEvent:       printEvent,
	})

	loop := player.NewLoop(ctrl, viz, media.Ended(), settings.FrameInterval())
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("player loop stopped")
		}
	}()

	// Imports run one at a time in the background.
	imports := make(chan []string, 8)
	imp := importer.NewImporter(audio.NewProber(), settings.MaxConcurrentProbes, printEvent)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case paths := <-imports:
				err := imp.Import(ctx, paths, func(track model.Track) { loop.Deliver(ctx, track) })
				if err != nil && ctx.Err() == nil {
					printEvent(model.Event{Message: "Import failed: " + err.Error(), Level: model.LevelError})
				}
			}
		}
	}()
	if flag.NArg() > 0 {
		imports <- flag.Args()
	}

	fmt.Fprintln(out, "♫ waveplayer - type help for commands")
	printStatus(ctx, out, loop)

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		req, err := parseLine(line)
		if errors.Is(err, errEmptyLine) {
			continue
		}
		if err != nil {
			fmt.Fprintln(out, eventPrefix(model.LevelError)+err.Error())
			continue
		}

		switch req.verb {
		case verbControl:
			if err := loop.Send(ctx, req.cmd); err != nil {
				fmt.Fprintln(out, eventPrefix(model.LevelError)+err.Error())
			}
			if req.cmd.Kind != player.CmdSetVolume && req.cmd.Kind != player.CmdSeek {
				printStatus(ctx, out, loop)
			}

		case verbAdd:
			if err := queueImport(ctx, loop, imports, req.paths); err != nil {
				fmt.Fprintln(out, eventPrefix(model.LevelWarning)+err.Error())
			}

		case verbAddOnline:
			cmd, ok := askOnlineTrack(rl)
			rl.SetPrompt("waveplayer> ")
			if !ok {
				continue
			}
			_ = loop.Send(ctx, cmd)

		case verbList:
			printPlaylist(ctx, out, loop)

		case verbStatus:
			printStatus(ctx, out, loop)

		case verbSnapshot:
			var saveErr error
			_ = loop.Do(ctx, func(*player.Controller) { saveErr = raster.SavePNG(req.path) })
			if saveErr != nil {
				fmt.Fprintln(out, eventPrefix(model.LevelError)+saveErr.Error())
			} else {
				fmt.Fprintln(out, eventPrefix(model.LevelSuccess)+"Saved "+req.path)
			}

		case verbHelp:
			fmt.Fprintln(out, helpText)

		case verbQuit:
			return
		}
	}
}

var (
	errNotLocal    = errors.New("switch to the local source to add files (source local)")
	errImportsBusy = errors.New("too many imports queued, try again later")
)

// queueImport hands paths to the import worker. Files can only be added
// while the local playlist is current.
func queueImport(ctx context.Context, loop *player.Loop, imports chan<- []string, paths []string) error {
	var mode model.Mode
	if err := loop.Do(ctx, func(c *player.Controller) { mode = c.Mode() }); err != nil {
		return err
	}
	if mode != model.ModeLocal {
		return errNotLocal
	}
	select {
	case imports <- paths:
		return nil
	default:
		return errImportsBusy
	}
}

// askOnlineTrack prompts for the URL, name and artist of an online track.
// An interrupted or blank URL aborts; blank names and artists are allowed.
func askOnlineTrack(rl *readline.Instance) (player.Command, bool) {
	url, ok := ask(rl, "Enter the URL of the online music: ")
	if !ok || url == "" {
		return player.Command{}, false
	}
	name, _ := ask(rl, "Enter the name of the song: ")
	artist, _ := ask(rl, "Enter the artist name: ")
	return player.Command{Kind: player.CmdAddOnline, Name: name, Artist: artist, URL: url}, true
}

func ask(rl *readline.Instance, label string) (string, bool) {
	rl.SetPrompt(label)
	line, err := rl.Readline()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func printStatus(ctx context.Context, out io.Writer, loop *player.Loop) {
	var line string
	_ = loop.Do(ctx, func(c *player.Controller) {
		line = statusLine(c.State(), c)
	})
	fmt.Fprintln(out, line)
}

// statusLine formats a playback snapshot for the prompt.
func statusLine(state model.PlaybackState, c *player.Controller) string {
	pos, dur := c.Position()
	track := "-"
	if t, ok := c.Current(); ok {
		track = t.String()
	}
	total := "--:--"
	if dur > 0 {
		total = formatTime(dur.Seconds())
	}
	return fmt.Sprintf("[%s] %s %s/%s vol %.0f%% (%s, %d tracks)",
		state.Status, track, formatTime(pos.Seconds()), total, state.Volume*100, state.Mode, len(c.Tracks()))
}

func printPlaylist(ctx context.Context, out io.Writer, loop *player.Loop) {
	var b strings.Builder
	_ = loop.Do(ctx, func(c *player.Controller) {
		tracks := c.Tracks()
		fmt.Fprintf(&b, "%s playlist (%d)\n", c.Mode(), len(tracks))
		active := c.ActiveIndex()
		for i, t := range tracks {
			marker := "  "
			if i == active {
				marker = "▶ "
			}
			fmt.Fprintf(&b, "%s%2d. %s\n", marker, i+1, t)
		}
	})
	fmt.Fprint(out, b.String())
}

func eventPrefix(level model.Level) string {
	switch level {
	case model.LevelError:
		return "✗ "
	case model.LevelWarning:
		return "! "
	case model.LevelSuccess:
		return "✓ "
	case model.LevelInfo:
		return "› "
	default:
		return "  "
	}
}

func formatTime(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("play"),
		readline.PcItem("pause"),
		readline.PcItem("toggle"),
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("select"),
		readline.PcItem("seek"),
		readline.PcItem("vol"),
		readline.PcItem("mute"),
		readline.PcItem("source", readline.PcItem("local"), readline.PcItem("online")),
		readline.PcItem("add"),
		readline.PcItem("add-online"),
		readline.PcItem("list"),
		readline.PcItem("status"),
		readline.PcItem("snapshot"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
