package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/waveplayer/internal/audio"
	"github.com/handiism/waveplayer/internal/config"
	httpclient "github.com/handiism/waveplayer/internal/http"
	"github.com/handiism/waveplayer/internal/importer"
	"github.com/handiism/waveplayer/internal/logging"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/handiism/waveplayer/internal/player"
	"github.com/handiism/waveplayer/internal/tui"
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
		fmt.Fprintln(os.Stderr, "waveplayer - music player with a live spectrum visualizer")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  waveplayer [options] [file|dir|playlist ...]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For a line-oriented player, use: waveplayer-cli")
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

	closer, err := logging.Setup(settings, false, *verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	client := httpclient.NewClient(settings.UserAgent)
	media, err := audio.NewBeepMedia(settings.MediaConfig(), client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer media.Close()

	events := tui.NewEventLog(10)
	grid := visualizer.NewGrid(80, 16)
	viz := visualizer.New(media, grid, settings.BarScale)
	ctrl := player.NewController(media, viz, player.Options{
		StartMode:     settings.StartMode(),
		InitialVolume: settings.InitialVolume,
		OnlineTracks:  settings.SeedTracks(),
		OnEvent:       events.Add,
	})

	log.Info().Msgf("waveplayer started (source %s, %d online tracks)", ctrl.Mode(), len(ctrl.Playlist(model.ModeOnline)))

	err = tui.Run(tui.Options{
		Controller:    ctrl,
		Visualizer:    viz,
		Grid:          grid,
		Importer:      importer.NewImporter(audio.NewProber(), settings.MaxConcurrentProbes, events.Add),
		Covers:        tui.NewCoverLoader(client, settings),
		Events:        events,
		Ended:         media.Ended(),
		FrameInterval: settings.FrameInterval(),
		Imports:       flag.Args(),
		Verbose:       *verboseFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
