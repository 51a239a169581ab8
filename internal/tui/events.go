package tui

import (
	"sync"

	"github.com/handiism/waveplayer/internal/model"
)

// EventLog keeps the most recent status events for the log pane. It is
// written by the controller on the UI goroutine and by importer workers, so
// access is synchronised.
type EventLog struct {
	mu     sync.Mutex
	limit  int
	events []model.Event
}

// NewEventLog creates a log holding at most limit events.
func NewEventLog(limit int) *EventLog {
	return &EventLog{limit: max(limit, 1)}
}

// Add records an event, dropping the oldest once the log is full.
func (l *EventLog) Add(event model.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)
	if len(l.events) > l.limit {
		l.events = l.events[len(l.events)-l.limit:]
	}
}

// Events returns a copy of the recorded events, oldest first. Verbose
// events are left out unless verbose is true.
func (l *EventLog) Events(verbose bool) []model.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Event, 0, len(l.events))
	for _, e := range l.events {
		if e.Level == model.LevelVerbose && !verbose {
			continue
		}
		out = append(out, e)
	}
	return out
}
