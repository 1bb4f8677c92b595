// Package liveview shows the receive buffer full-screen and keeps it
// current until the operator presses a key.
package liveview

import (
	"context"
	"strings"
	"time"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/logger"
)

// Source is what the view polls. *rxbuffer.Buffer satisfies it.
type Source interface {
	Snapshot() string
}

// Screen is the history side of the display: the view blanks it on entry
// and rebuilds it on exit. *history.Recorder satisfies it.
type Screen interface {
	ClearDisplay()
	Replay()
}

// Option configures a Poller.
type Option func(*Poller)

// WithPollInterval sets the pause between polls.
func WithPollInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

// Poller runs the live view. Repaints go straight to the terminal and are
// never recorded in history.
type Poller struct {
	src      Source
	screen   Screen
	term     domain.Terminal
	log      *logger.Logger
	interval time.Duration
}

// New creates a poller.
func New(src Source, screen Screen, term domain.Terminal, log *logger.Logger, opts ...Option) *Poller {
	p := &Poller{
		src:      src,
		screen:   screen,
		term:     term,
		log:      log,
		interval: 15 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run blocks until a key is pressed or ctx is done. The key is consumed
// without echo so it is not read as the start of a command, and the
// screen is then rebuilt from history.
func (p *Poller) Run(ctx context.Context) {
	p.screen.ClearDisplay()
	shown := -1
	repaints := 0

	var tick <-chan time.Time
	if p.interval > 0 {
		t := time.NewTicker(p.interval)
		defer t.Stop()
		tick = t.C
	}

	for !p.term.KeyAvailable() {
		snap := p.src.Snapshot()
		if len(snap) != shown {
			p.term.ClearScreen()
			p.term.Write(strings.TrimRight(snap, " \t\r\n"))
			shown = len(snap)
			repaints++
		}
		if !wait(ctx, tick) {
			break
		}
	}

	if ctx.Err() == nil {
		if _, err := p.term.ReadKey(true); err != nil {
			p.log.Warn("live view: reading exit key: %v", err)
		}
	}
	p.log.Debug("live view closed after %d repaint(s)", repaints)
	p.screen.Replay()
}

// wait sleeps until the next tick. It reports false once ctx is done.
func wait(ctx context.Context, tick <-chan time.Time) bool {
	if tick == nil {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-tick:
		return true
	}
}
