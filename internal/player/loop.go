package player

import (
	"context"
	"time"

	"github.com/handiism/waveplayer/internal/model"
)

// FrameLoop is a Visualizer whose frames are scheduled by the host.
type FrameLoop interface {
	Visualizer
	Active() bool
	Generation() uint64
	Frame(gen uint64) bool
}

type request struct {
	fn   func(*Controller)
	done chan struct{}
}

// Loop is an event loop for hosts without one of their own, such as the
// line-oriented REPL. It owns the Controller: commands, media end
// notifications, imported tracks and visualizer frames are all serialised
// through Run.
//
// Example:
//
//	loop := NewLoop(ctrl, viz, media.Ended(), time.Second/30)
//	go loop.Run(ctx)
//	loop.Send(ctx, Command{Kind: CmdNext})
type Loop struct {
	ctrl     *Controller
	frames   FrameLoop
	ended    <-chan struct{}
	interval time.Duration
	requests chan request
}

// NewLoop creates a Loop. frames may be nil when there is no visualizer.
func NewLoop(ctrl *Controller, frames FrameLoop, ended <-chan struct{}, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second / 30
	}
	return &Loop{
		ctrl:     ctrl,
		frames:   frames,
		ended:    ended,
		interval: interval,
		requests: make(chan request),
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	var (
		ticker *time.Ticker
		tick   <-chan time.Time
		gen    uint64
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
		}
		ticker, tick = nil, nil
	}
	defer stopTicker()

	for {
		// Start, restart or stop frames to follow the visualizer generation.
		switch {
		case l.frames == nil:
		case l.frames.Active() && (ticker == nil || gen != l.frames.Generation()):
			gen = l.frames.Generation()
			if ticker == nil {
				ticker = time.NewTicker(l.interval)
				tick = ticker.C
			}
		case !l.frames.Active() && ticker != nil:
			stopTicker()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-l.requests:
			req.fn(l.ctrl)
			close(req.done)
		case <-l.ended:
			l.ctrl.OnTrackEnded()
		case <-tick:
			if !l.frames.Frame(gen) {
				stopTicker()
			}
		}
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func(*Controller)) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case l.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send dispatches cmd on the loop.
func (l *Loop) Send(ctx context.Context, cmd Command) error {
	var dispatchErr error
	if err := l.Do(ctx, func(c *Controller) { dispatchErr = c.Dispatch(cmd) }); err != nil {
		return err
	}
	return dispatchErr
}

// Deliver hands an imported track to the controller. It is safe to call from
// importer goroutines.
func (l *Loop) Deliver(ctx context.Context, track model.Track) {
	_ = l.Send(ctx, AddTrack(track))
}
