// Package history mirrors everything written to the operator's display into
// an in-memory log, together with every color change and the log offset it
// took effect at, so the exact screen can be rebuilt with [Recorder.Replay].
//
// A Recorder is used from the foreground command loop only and does no
// locking of its own.
package history

import (
	"fmt"
	"sort"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
)

// colorMark records that a color applies from pos onward.
type colorMark struct {
	pos   int
	color domain.Color
}

// Recorder writes through to a terminal and keeps a replayable copy.
type Recorder struct {
	term domain.Terminal
	text []rune
	fg   []colorMark
	bg   []colorMark
}

// New creates an empty recorder seeded with the default colors at offset 0.
func New(term domain.Terminal) *Recorder {
	r := &Recorder{term: term}
	r.reseed()
	return r
}

func (r *Recorder) reseed() {
	r.fg = append(r.fg[:0], colorMark{pos: 0, color: domain.DefaultForeground})
	r.bg = append(r.bg[:0], colorMark{pos: 0, color: domain.DefaultBackground})
}

// Write emits text to the display and appends it to the log.
func (r *Recorder) Write(text string) {
	r.term.Write(text)
	r.text = append(r.text, []rune(text)...)
}

// WriteLine is Write with a trailing newline.
func (r *Recorder) WriteLine(text string) {
	r.Write(text + "\n")
}

// Writef formats according to a format specifier and writes the result.
func (r *Recorder) Writef(format string, a ...any) {
	r.Write(fmt.Sprintf(format, a...))
}

// WriteLinef formats according to a format specifier and writes the result
// followed by a newline.
func (r *Recorder) WriteLinef(format string, a ...any) {
	r.Write(fmt.Sprintf(format, a...) + "\n")
}

// RecordInput appends an operator line that the terminal has already
// echoed. Nothing is written to the display.
func (r *Recorder) RecordInput(line string) {
	r.text = append(r.text, []rune(line+"\n")...)
}

// Foreground returns the live foreground color.
func (r *Recorder) Foreground() domain.Color { return r.term.Foreground() }

// Background returns the live background color.
func (r *Recorder) Background() domain.Color { return r.term.Background() }

// SetForeground changes the live foreground color and records that it
// applies from the current log offset onward.
func (r *Recorder) SetForeground(c domain.Color) {
	r.term.SetForeground(c)
	r.fg = mark(r.fg, len(r.text), c)
}

// SetBackground changes the live background color and records that it
// applies from the current log offset onward.
func (r *Recorder) SetBackground(c domain.Color) {
	r.term.SetBackground(c)
	r.bg = mark(r.bg, len(r.text), c)
}

// mark appends a run start. The log only grows, so positions arrive in
// ascending order; a second change at the same offset replaces the first.
func mark(marks []colorMark, pos int, c domain.Color) []colorMark {
	if n := len(marks); n > 0 && marks[n-1].pos == pos {
		marks[n-1].color = c
		return marks
	}
	return append(marks, colorMark{pos: pos, color: c})
}

// ClearDisplay clears the visible screen only. Anything written afterwards
// is shown on a blank screen but still appended after the existing log, so
// the display and the log disagree until the next Replay.
func (r *Recorder) ClearDisplay() {
	r.term.ClearScreen()
}

// Clear clears the screen and the log, and resets both the live colors and
// the offset 0 markers to the defaults.
func (r *Recorder) Clear() {
	r.term.SetForeground(domain.DefaultForeground)
	r.term.SetBackground(domain.DefaultBackground)
	r.term.ClearScreen()
	r.text = r.text[:0]
	r.reseed()
}

// Len returns the number of characters in the log.
func (r *Recorder) Len() int { return len(r.text) }

// String returns the logged text without color information.
func (r *Recorder) String() string { return string(r.text) }

// Replay clears the screen and re-emits the whole log, switching colors at
// every recorded offset. The live colors in effect before the call are
// restored afterwards.
func (r *Recorder) Replay() {
	liveFg, liveBg := r.term.Foreground(), r.term.Background()

	r.term.ClearScreen()
	for pos := 0; pos < len(r.text); {
		if c, ok := colorAt(r.fg, pos); ok {
			r.term.SetForeground(c)
		}
		if c, ok := colorAt(r.bg, pos); ok {
			r.term.SetBackground(c)
		}
		end := min(nextMark(r.fg, pos), nextMark(r.bg, pos), len(r.text))
		r.term.Write(string(r.text[pos:end]))
		pos = end
	}

	r.term.SetForeground(liveFg)
	r.term.SetBackground(liveBg)
}

// colorAt returns the color recorded exactly at pos, if any.
func colorAt(marks []colorMark, pos int) (domain.Color, bool) {
	i := sort.Search(len(marks), func(i int) bool { return marks[i].pos >= pos })
	if i < len(marks) && marks[i].pos == pos {
		return marks[i].color, true
	}
	return 0, false
}

// nextMark returns the first recorded offset after pos, or the largest int
// when there is none.
func nextMark(marks []colorMark, pos int) int {
	i := sort.Search(len(marks), func(i int) bool { return marks[i].pos > pos })
	if i < len(marks) {
		return marks[i].pos
	}
	return int(^uint(0) >> 1)
}
