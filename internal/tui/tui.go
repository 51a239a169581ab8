// Package tui provides a Bubble Tea terminal user interface for waveplayer.
package tui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/waveplayer/internal/importer"
	ioutils "github.com/handiism/waveplayer/internal/io"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/handiism/waveplayer/internal/player"
	"github.com/handiism/waveplayer/internal/visualizer"
)

// Layout. Row numbers are used to map mouse clicks back to widgets.
const (
	headerRows     = 3
	coverPixels    = 16
	coverRows      = coverPixels / 2
	vizPixelHeight = 16
	vizRows        = vizPixelHeight / 2
	playlistRows   = 8
	seekStep       = 0.05
	volumeStep     = 0.05
	clockInterval  = 200 * time.Millisecond
)

// progressRow is the screen row of the seek bar.
func progressRow() int { return headerRows + coverRows + 1 }

// playlistRow is the screen row of the first visible playlist entry.
func playlistRow() int { return progressRow() + 2 + vizRows + 2 }

// progressColumn is where the seek bar starts, after the "mm:ss " label.
const progressColumn = 6

// State represents the current input mode.
type State int

const (
	StatePlayer State = iota
	StatePicker
	StatePrompt
)

// Options wires the model to the player components.
type Options struct {
	Controller    *player.Controller
	Visualizer    *visualizer.Visualizer
	Grid          *visualizer.Grid
	Importer      *importer.Importer
	Covers        *CoverLoader
	Events        *EventLog
	Ended         <-chan struct{}
	FrameInterval time.Duration

	// Imports are files, directories or playlists imported at startup.
	Imports []string
	Verbose bool
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	ctrl     *player.Controller
	viz      *visualizer.Visualizer
	grid     *visualizer.Grid
	importer *importer.Importer
	covers   *CoverLoader
	events   *EventLog
	ended    <-chan struct{}
	tracks   chan model.Track
	interval time.Duration

	picker   filepicker.Model
	prompt   onlinePrompt
	spinner  spinner.Model
	progress progress.Model

	// Import context
	ctx       context.Context
	cancel    context.CancelFunc
	importing bool
	pending   [][]string
	initial   []string

	showList bool
	cursor   int
	frameGen uint64
	coverKey string
	cover    string
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mp3", ".wav", ".flac", ".ogg", ".oga", ".m3u", ".m3u8", ".pls"}
	if dir, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = dir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = 50

	interval := opts.FrameInterval
	if interval <= 0 {
		interval = time.Second / 30
	}
	events := opts.Events
	if events == nil {
		events = NewEventLog(10)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StatePlayer,
		ctrl:     opts.Controller,
		viz:      opts.Visualizer,
		grid:     opts.Grid,
		importer: opts.Importer,
		covers:   opts.Covers,
		events:   events,
		ended:    opts.Ended,
		tracks:   make(chan model.Track, 64),
		interval: interval,
		picker:   fp,
		prompt:   newOnlinePrompt(),
		spinner:  sp,
		progress: prog,
		ctx:      ctx,
		cancel:   cancel,
		initial:  opts.Imports,
		verbose:  opts.Verbose,
		coverKey: "\x00",
	}
}

// Message types
type (
	// trackMsg carries an imported track to the controller.
	trackMsg struct {
		track model.Track
	}

	// importMsg requests an import of paths.
	importMsg struct {
		paths []string
	}

	// importDoneMsg is sent when an import finishes.
	importDoneMsg struct {
		err error
	}

	// endedMsg is sent when the loaded track plays to its end.
	endedMsg struct{}

	// frameMsg asks the visualizer to draw a frame of generation gen.
	frameMsg struct {
		gen uint64
	}

	// coverMsg delivers a rendered cover for key.
	coverMsg struct {
		key  string
		view string
	}

	// clockMsg refreshes the position display.
	clockMsg struct{}
)

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForTrack(m.tracks), waitForEnd(m.ended), tickClock()}
	if len(m.initial) > 0 {
		paths := m.initial
		cmds = append(cmds, func() tea.Msg { return importMsg{paths: paths} })
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-2*progressColumn-2, 20), 80)
		if m.viz != nil {
			m.viz.Resize(min(max(msg.Width-2, 20), 120), vizPixelHeight)
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		m.handleMouse(msg)

	case spinner.TickMsg:
		if m.importing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case importMsg:
		cmds = append(cmds, m.startImport(msg.paths))

	case trackMsg:
		_ = m.ctrl.Dispatch(player.AddTrack(msg.track))
		cmds = append(cmds, waitForTrack(m.tracks))

	case importDoneMsg:
		m.importing = false
		if msg.err != nil && m.ctx.Err() == nil {
			m.events.Add(model.Event{Message: "Import failed: " + msg.err.Error(), Level: model.LevelError})
		}
		if len(m.pending) > 0 {
			next := m.pending[0]
			m.pending = m.pending[1:]
			cmds = append(cmds, m.startImport(next))
		}

	case endedMsg:
		m.ctrl.OnTrackEnded()
		cmds = append(cmds, waitForEnd(m.ended))

	case frameMsg:
		if m.viz != nil && m.viz.Frame(msg.gen) {
			cmds = append(cmds, m.tickFrame(msg.gen))
		}

	case coverMsg:
		if msg.key == m.coverKey {
			m.cover = msg.view
		}

	case clockMsg:
		cmds = append(cmds, tickClock())

	default:
		if m.state == StatePicker {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return tea.Quit
	}

	switch m.state {
	case StatePicker:
		return m.handlePickerKey(msg)
	case StatePrompt:
		return m.handlePromptKey(msg)
	}

	// A drop arrives as a bracketed paste of one or more paths.
	if msg.Paste {
		if m.ctrl.Mode() != model.ModeLocal {
			return nil
		}
		return m.startImport(ioutils.SplitDroppedPaths(string(msg.Runes)))
	}

	switch msg.String() {
	case "q":
		m.cancel()
		return tea.Quit
	case " ":
		m.ctrl.Toggle()
	case "n":
		m.ctrl.Next()
	case "p":
		m.ctrl.Previous()
	case "]", "right":
		m.seekBy(seekStep)
	case "[", "left":
		m.seekBy(-seekStep)
	case "+", "=":
		m.ctrl.SetVolume(m.ctrl.Volume() + volumeStep)
	case "-":
		m.ctrl.SetVolume(m.ctrl.Volume() - volumeStep)
	case "m":
		m.ctrl.ToggleMute()
	case "1":
		m.switchSource(model.ModeLocal)
	case "2":
		m.switchSource(model.ModeOnline)
	case "tab":
		if m.ctrl.Mode() == model.ModeLocal {
			m.switchSource(model.ModeOnline)
		} else {
			m.switchSource(model.ModeLocal)
		}
	case "l":
		m.showList = !m.showList
	case "esc":
		m.showList = false
	case "up", "k":
		if m.showList {
			m.cursor = max(m.cursor-1, 0)
		}
	case "down", "j":
		if m.showList {
			m.cursor = min(m.cursor+1, max(len(m.ctrl.Tracks())-1, 0))
		}
	case "enter":
		if m.showList {
			m.ctrl.Select(m.cursor)
			m.showList = false
		}
	case "a":
		if m.ctrl.Mode() == model.ModeLocal {
			m.state = StatePicker
			return m.picker.Init()
		}
		m.state = StatePrompt
		return m.prompt.start()
	case "v":
		m.verbose = !m.verbose
	}
	return nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" || msg.String() == "q" {
		m.state = StatePlayer
		return nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.state = StatePlayer
		return tea.Batch(cmd, m.startImport([]string{path}))
	}
	return cmd
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	result, cmd := m.prompt.update(msg)
	switch result {
	case promptCancelled:
		m.state = StatePlayer
		return nil
	case promptDone:
		m.state = StatePlayer
		url, name, artist := m.prompt.values()
		_ = m.ctrl.Dispatch(player.Command{Kind: player.CmdAddOnline, Name: name, Artist: artist, URL: url})
		return nil
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.state != StatePlayer || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	if msg.Y == progressRow() {
		x := msg.X - progressColumn
		if x >= 0 && x < m.progress.Width {
			m.ctrl.Seek(float64(x) / float64(m.progress.Width))
		}
		return
	}

	if !m.showList {
		return
	}
	start, end := m.playlistWindow()
	if row := msg.Y - playlistRow(); row >= 0 && start+row < end {
		m.cursor = start + row
		m.ctrl.Select(m.cursor)
		m.showList = false
	}
}

func (m *Model) seekBy(delta float64) {
	pos, dur := m.ctrl.Position()
	if dur <= 0 {
		return
	}
	m.ctrl.Seek(float64(pos)/float64(dur) + delta)
}

func (m *Model) switchSource(mode model.Mode) {
	m.ctrl.SwitchSource(mode)
	m.cursor = 0
}

// playlistWindow returns the range of playlist entries on screen.
func (m Model) playlistWindow() (int, int) {
	n := len(m.ctrl.Tracks())
	start := 0
	if m.cursor >= playlistRows {
		start = m.cursor - playlistRows + 1
	}
	return start, min(start+playlistRows, n)
}

// startImport probes paths in the background. Imports run one at a time;
// later requests queue up behind the running one.
func (m *Model) startImport(paths []string) tea.Cmd {
	if len(paths) == 0 || m.importer == nil {
		return nil
	}
	if m.importing {
		m.pending = append(m.pending, paths)
		return nil
	}
	m.importing = true

	ctx, imp, tracks := m.ctx, m.importer, m.tracks
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		err := imp.Import(ctx, paths, func(track model.Track) {
			select {
			case tracks <- track:
			case <-ctx.Done():
			}
		})
		return importDoneMsg{err: err}
	})
}

// sync schedules visualizer frames and cover loads to follow the controller.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd

	if m.viz != nil && m.viz.Active() && m.frameGen != m.viz.Generation() {
		m.frameGen = m.viz.Generation()
		cmds = append(cmds, m.tickFrame(m.frameGen))
	}

	if n := len(m.ctrl.Tracks()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}

	uri, key := model.DefaultCoverURI, ""
	if track, ok := m.ctrl.Current(); ok {
		uri, key = track.Cover(), track.ID
	}
	if key != m.coverKey && m.covers != nil {
		m.coverKey = key
		cmds = append(cmds, loadCover(m.ctx, m.covers, key, uri))
	}

	return tea.Batch(cmds...)
}

func (m Model) tickFrame(gen uint64) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func tickClock() tea.Cmd {
	return tea.Tick(clockInterval, func(time.Time) tea.Msg {
		return clockMsg{}
	})
}

func waitForTrack(tracks <-chan model.Track) tea.Cmd {
	return func() tea.Msg {
		return trackMsg{track: <-tracks}
	}
}

func waitForEnd(ended <-chan struct{}) tea.Cmd {
	if ended == nil {
		return nil
	}
	return func() tea.Msg {
		<-ended
		return endedMsg{}
	}
}

func loadCover(ctx context.Context, covers *CoverLoader, key, uri string) tea.Cmd {
	return func() tea.Msg {
		img := covers.Load(ctx, uri, coverPixels, coverPixels)
		return coverMsg{key: key, view: renderImage(img)}
	}
}

// Run starts the TUI application.
func Run(opts Options) error {
	m := NewModel(opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
