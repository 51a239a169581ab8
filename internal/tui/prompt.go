package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	promptURL = iota
	promptName
	promptArtist
	promptSteps
)

var promptLabels = [promptSteps]string{
	"Enter the URL of the online music:",
	"Enter the name of the song:",
	"Enter the artist name:",
}

// onlinePrompt asks for a URL, a name and an artist, one after the other.
// Cancelling or leaving the URL blank aborts; a skipped name or artist is
// left blank and gets a placeholder when the track is created.
type onlinePrompt struct {
	inputs [promptSteps]textinput.Model
	step   int
}

type promptResult int

const (
	promptPending promptResult = iota
	promptDone
	promptCancelled
)

func newOnlinePrompt() onlinePrompt {
	var p onlinePrompt
	placeholders := [promptSteps]string{"https://example.com/song.mp3", "Unknown Song", "Unknown Artist"}
	for i := range p.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 500
		ti.Width = 60
		p.inputs[i] = ti
	}
	return p
}

// start clears the inputs and focuses the URL field.
func (p *onlinePrompt) start() tea.Cmd {
	for i := range p.inputs {
		p.inputs[i].SetValue("")
		p.inputs[i].Blur()
	}
	p.step = promptURL
	p.inputs[promptURL].Focus()
	return textinput.Blink
}

func (p *onlinePrompt) update(msg tea.KeyMsg) (promptResult, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if p.step == promptURL {
			return promptCancelled, nil
		}
		p.inputs[p.step].SetValue("")
		return p.advance()
	case "enter":
		if p.step == promptURL && strings.TrimSpace(p.inputs[promptURL].Value()) == "" {
			return promptCancelled, nil
		}
		return p.advance()
	}

	var cmd tea.Cmd
	p.inputs[p.step], cmd = p.inputs[p.step].Update(msg)
	return promptPending, cmd
}

func (p *onlinePrompt) advance() (promptResult, tea.Cmd) {
	p.inputs[p.step].Blur()
	p.step++
	if p.step == promptSteps {
		return promptDone, nil
	}
	p.inputs[p.step].Focus()
	return promptPending, textinput.Blink
}

func (p onlinePrompt) values() (url, name, artist string) {
	return strings.TrimSpace(p.inputs[promptURL].Value()),
		p.inputs[promptName].Value(),
		p.inputs[promptArtist].Value()
}

func (p onlinePrompt) view() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render(promptLabels[p.step]))
	b.WriteString("\n\n")
	b.WriteString(p.inputs[p.step].View())
	b.WriteString("\n")
	return b.String()
}
