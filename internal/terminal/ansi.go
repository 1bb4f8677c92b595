// Package terminal implements domain.Terminal on an ANSI console. Colors and
// clearing go through termenv; keyboard input is read in raw mode by a
// single goroutine so that pending keys can be polled without blocking.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/logger"
)

// Compile-time interface check.
var _ domain.Terminal = (*ANSI)(nil)

const (
	keyInterrupt = 0x03
	keyEOF       = 0x04
	keyBackspace = 0x08
	keyEscape    = 0x1b
	keyDelete    = 0x7f

	keyQueueDepth = 256
)

// Option configures an ANSI terminal.
type Option func(*ANSI)

// WithProfile forces the color profile instead of detecting it from the
// output.
func WithProfile(p termenv.Profile) Option {
	return func(t *ANSI) {
		t.profile = &p
	}
}

// ANSI is a console terminal. Only the command loop calls its methods; the
// reader goroutine owns the input side and hands keys over a channel.
type ANSI struct {
	out     *termenv.Output
	profile *termenv.Profile
	log     *logger.Logger

	keys    chan rune
	readErr error
	peeked  *rune

	fg, bg domain.Color

	raw     bool
	restore func() error
}

// New returns a terminal reading keys from in and writing to out. The
// caller is responsible for any tty mode changes; see Open.
func New(in io.Reader, out io.Writer, log *logger.Logger, opts ...Option) *ANSI {
	t := &ANSI{
		log:  log,
		keys: make(chan rune, keyQueueDepth),
		fg:   domain.DefaultForeground,
		bg:   domain.DefaultBackground,
	}
	for _, o := range opts {
		o(t)
	}

	var outOpts []termenv.OutputOption
	if t.profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*t.profile))
	}
	t.out = termenv.NewOutput(out, outOpts...)

	go t.readKeys(in)
	return t
}

// Open attaches to the process's stdin and stdout, switching stdin to raw
// mode when it is a terminal. Close restores it.
func Open(log *logger.Logger, opts ...Option) (*ANSI, error) {
	fd := int(os.Stdin.Fd())

	var state *term.State
	if term.IsTerminal(fd) {
		s, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("setting raw mode: %w", err)
		}
		state = s
		log.Debug("stdin switched to raw mode")
	}

	t := New(os.Stdin, os.Stdout, log, opts...)
	if state != nil {
		t.raw = true
		t.restore = func() error { return term.Restore(fd, state) }
	}
	return t, nil
}

// Close resets colors and restores the tty mode. The reader goroutine stays
// blocked on stdin until the process exits.
func (t *ANSI) Close() error {
	t.out.Reset()
	if t.restore == nil {
		return nil
	}
	restore := t.restore
	t.restore = nil
	return restore()
}

// readKeys decodes runes from in until it fails. Enter arrives as CR in raw
// mode and Backspace usually as DEL; both are normalized.
func (t *ANSI) readKeys(in io.Reader) {
	defer close(t.keys)

	r := bufio.NewReader(in)
	for {
		c, _, err := r.ReadRune()
		if err != nil {
			t.readErr = err
			return
		}
		switch c {
		case '\r':
			c = '\n'
		case keyDelete:
			c = keyBackspace
		}
		t.keys <- c
	}
}

func (t *ANSI) nextKey() (rune, error) {
	if t.peeked != nil {
		c := *t.peeked
		t.peeked = nil
		return c, nil
	}
	c, ok := <-t.keys
	if !ok {
		if t.readErr == nil || errors.Is(t.readErr, io.EOF) {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("reading keyboard: %w", t.readErr)
	}
	return c, nil
}

// KeyAvailable reports whether a key is waiting. A closed input counts as
// available so that pollers stop and the next read reports the error.
func (t *ANSI) KeyAvailable() bool {
	if t.peeked != nil {
		return true
	}
	select {
	case c, ok := <-t.keys:
		if ok {
			t.peeked = &c
		}
		return true
	default:
		return false
	}
}

// ReadKey blocks for one key. Unless intercept is set, printable keys are
// echoed.
func (t *ANSI) ReadKey(intercept bool) (rune, error) {
	c, err := t.nextKey()
	if err != nil {
		return 0, err
	}
	if !intercept && unicode.IsPrint(c) {
		t.Write(string(c))
	}
	return c, nil
}

// ReadLine reads and echoes one line with basic editing. Ctrl-C, or Ctrl-D
// on an empty line, ends input with io.EOF. Escape sequences such as arrow
// keys are dropped.
func (t *ANSI) ReadLine() (string, error) {
	var line []rune
	for {
		c, err := t.nextKey()
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				t.Write("\n")
				return string(line), nil
			}
			return "", err
		}

		switch {
		case c == '\n':
			t.Write("\n")
			return string(line), nil
		case c == keyBackspace:
			if len(line) > 0 {
				line = line[:len(line)-1]
				t.Write("\b \b")
			}
		case c == keyInterrupt:
			t.Write("^C\n")
			return "", io.EOF
		case c == keyEOF:
			if len(line) == 0 {
				return "", io.EOF
			}
		case c == keyEscape:
			t.skipEscape()
		case c == '\t' || unicode.IsPrint(c):
			line = append(line, c)
			t.Write(string(c))
		}
	}
}

// skipEscape consumes the rest of a CSI or SS3 sequence. Any other key
// after a lone Esc is kept for the next read. A read error is left for the
// caller's next read to report.
func (t *ANSI) skipEscape() {
	c, err := t.nextKey()
	if err != nil {
		return
	}
	if c != '[' && c != 'O' {
		t.peeked = &c
		return
	}
	for {
		c, err = t.nextKey()
		if err != nil || (c >= 0x40 && c <= 0x7e) {
			return
		}
	}
}

// Write prints text in the active colors. Raw mode turns off output
// post-processing, so newlines are expanded here.
func (t *ANSI) Write(text string) {
	if t.raw {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	if _, err := t.out.WriteString(text); err != nil {
		t.log.Debug("terminal write: %v", err)
	}
}

// ClearScreen erases the display and homes the cursor.
func (t *ANSI) ClearScreen() {
	t.out.ClearScreen()
}

func (t *ANSI) Foreground() domain.Color { return t.fg }
func (t *ANSI) Background() domain.Color { return t.bg }

func (t *ANSI) SetForeground(c domain.Color) {
	t.fg = c
	t.sgr(c, false)
}

func (t *ANSI) SetBackground(c domain.Color) {
	t.bg = c
	t.sgr(c, true)
}

// sgr emits the color through the output's profile, which drops it
// entirely on outputs without color support.
func (t *ANSI) sgr(c domain.Color, bg bool) {
	seq := t.out.Profile.Convert(termenv.ANSIColor(c)).Sequence(bg)
	if seq == "" {
		return
	}
	if _, err := t.out.WriteString(termenv.CSI + seq + "m"); err != nil {
		t.log.Debug("terminal color: %v", err)
	}
}
