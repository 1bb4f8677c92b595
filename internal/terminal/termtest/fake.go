// Package termtest provides an in-memory terminal for tests.
package termtest

import (
	"io"
	"strings"
	"sync"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
)

// Compile-time interface check.
var _ domain.Terminal = (*Fake)(nil)

// Cell is one character as it appeared on screen.
type Cell struct {
	Fg, Bg domain.Color
	Ch     rune
}

// Fake records every character with the colors active when it was written.
// Input lines and keys are queued by the test. Safe for concurrent use so a
// test goroutine can press keys while the code under test polls.
type Fake struct {
	mu     sync.Mutex
	fg, bg domain.Color
	screen []Cell
	clears int
	lines  []string
	keys   []rune
	polls  int
}

// New returns a fake terminal in the default colors.
func New() *Fake {
	return &Fake{fg: domain.DefaultForeground, bg: domain.DefaultBackground}
}

// QueueLines queues operator input for ReadLine.
func (f *Fake) QueueLines(lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, lines...)
}

// PressKey makes a keypress available.
func (f *Fake) PressKey(r rune) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, r)
}

// ReadLine pops the next queued line, or returns io.EOF.
func (f *Fake) ReadLine() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	f.put(line + "\n")
	return line, nil
}

// ReadKey pops the next pressed key, or returns io.EOF.
func (f *Fake) ReadKey(intercept bool) (rune, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.keys) == 0 {
		return 0, io.EOF
	}
	k := f.keys[0]
	f.keys = f.keys[1:]
	if !intercept {
		f.put(string(k))
	}
	return k, nil
}

// KeyAvailable reports whether a key has been pressed.
func (f *Fake) KeyAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	return len(f.keys) > 0
}

// Write appends text to the screen in the active colors.
func (f *Fake) Write(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(text)
}

func (f *Fake) put(text string) {
	for _, r := range text {
		f.screen = append(f.screen, Cell{Fg: f.fg, Bg: f.bg, Ch: r})
	}
}

// ClearScreen blanks the screen.
func (f *Fake) ClearScreen() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screen = f.screen[:0]
	f.clears++
}

func (f *Fake) Foreground() domain.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fg
}

func (f *Fake) Background() domain.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bg
}

func (f *Fake) SetForeground(c domain.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fg = c
}

func (f *Fake) SetBackground(c domain.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bg = c
}

// Cells returns a copy of what is currently on screen.
func (f *Fake) Cells() []Cell {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Cell(nil), f.screen...)
}

// Screen returns the on-screen text.
func (f *Fake) Screen() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b strings.Builder
	for _, c := range f.screen {
		b.WriteRune(c.Ch)
	}
	return b.String()
}

// Clears returns how many times the screen was cleared.
func (f *Fake) Clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

// Polls returns how many times KeyAvailable was called.
func (f *Fake) Polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}
