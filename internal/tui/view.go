package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/waveplayer/internal/model"
	"github.com/handiism/waveplayer/internal/player"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♫ waveplayer"))
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	b.WriteString(m.viewNowPlaying())
	b.WriteString("\n\n")
	b.WriteString(m.viewProgress())
	b.WriteString("\n\n")
	if m.grid != nil {
		b.WriteString(m.grid.Render())
	}
	b.WriteString("\n\n")

	switch m.state {
	case StatePicker:
		b.WriteString(subtitleStyle.Render("Add local music:"))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
	case StatePrompt:
		b.WriteString(m.prompt.view())
	default:
		b.WriteString(m.viewPlaylist())
	}
	b.WriteString("\n")

	b.WriteString(m.renderLogs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewTabs() string {
	local, online := tabStyle, tabStyle
	if m.ctrl.Mode() == model.ModeLocal {
		local = activeTabStyle
	} else {
		online = activeTabStyle
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		local.Render("1 Local"),
		online.Render("2 Online"),
	)
	if m.importing {
		probed, total := m.importer.Progress()
		tabs += "  " + m.spinner.View() + dimStyle.Render(fmt.Sprintf(" importing %d/%d", probed, total))
	}
	return tabs
}

func (m Model) viewNowPlaying() string {
	cover := m.cover
	if cover == "" {
		cover = strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", coverPixels)+"\n", coverRows), "\n")
	}

	var info strings.Builder
	if track, ok := m.ctrl.Current(); ok {
		info.WriteString(trackStyle.Render(track.Name))
		info.WriteString("\n")
		info.WriteString(subtitleStyle.Render(track.Artist))
		info.WriteString("\n")
		info.WriteString(dimStyle.Render(track.Provenance.String()))
	} else {
		info.WriteString(dimStyle.Render("No track loaded"))
		info.WriteString("\n\n")
	}
	info.WriteString("\n\n")
	info.WriteString(infoStyle.Render(m.ctrl.Status().String()))
	info.WriteString("\n")
	info.WriteString(fmt.Sprintf("%s %3.0f%%", volumeGlyph(m.ctrl.VolumeIcon()), m.ctrl.Volume()*100))

	return lipgloss.JoinHorizontal(lipgloss.Top, cover, "  ", info.String())
}

func (m Model) viewProgress() string {
	pos, dur := m.ctrl.Position()
	var percent float64
	if dur > 0 {
		percent = min(float64(pos)/float64(dur), 1)
	}
	total := "--:--"
	if dur > 0 {
		total = formatTime(dur)
	}
	return formatTime(pos) + " " + m.progress.ViewAs(percent) + " " + total
}

func (m Model) viewPlaylist() string {
	var b strings.Builder

	tracks := m.ctrl.Tracks()
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s playlist (%d)", m.ctrl.Mode(), len(tracks))))
	b.WriteString("\n")

	if !m.showList && len(tracks) > 0 {
		b.WriteString(dimStyle.Render("Press l to show the playlist"))
		b.WriteString("\n")
		return b.String()
	}

	if len(tracks) == 0 {
		hint := "Press a to add an online track"
		if m.ctrl.Mode() == model.ModeLocal {
			hint = "Press a to browse, or drop files onto the terminal"
		}
		b.WriteString(dimStyle.Render(hint))
		b.WriteString("\n")
		return b.String()
	}

	start, end := m.playlistWindow()
	active := m.ctrl.ActiveIndex()
	for i := start; i < end; i++ {
		t := tracks[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%2d. %s", cursor, i+1, t)
		if t.Duration > 0 {
			line += dimStyle.Render(" " + formatTime(t.Duration))
		}
		if i == active {
			line = activeRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, e := range m.events.Events(m.verbose) {
		style, prefix := eventStyle(e.Level)
		b.WriteString(style.Render(prefix + " " + e.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StatePicker:
		return "enter: add • esc: back"
	case StatePrompt:
		return "enter: next • esc: skip/cancel"
	}
	if m.showList {
		return "↑/↓: move • enter: play • esc/l: close • a: add • q: quit"
	}
	return "space: play/pause • n/p: next/prev • [/]: seek • +/-: volume • m: mute • l: playlist • tab: source • a: add • v: verbose • q: quit"
}

func volumeGlyph(icon player.VolumeIcon) string {
	switch icon {
	case player.IconMuted:
		return "🔇"
	case player.IconLow:
		return "🔉"
	default:
		return "🔊"
	}
}

func formatTime(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
