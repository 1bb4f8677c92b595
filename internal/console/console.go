// Package console is the operator-facing prompt: it owns the command
// table, the foreground read loop and the styling of every message.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hammamikhairi/duinoprompt/internal/command"
	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/history"
	"github.com/hammamikhairi/duinoprompt/internal/logger"
	"github.com/hammamikhairi/duinoprompt/internal/rxbuffer"
)

// InputColor is used for everything the operator types.
const InputColor = domain.Red

// Kind selects how a message is decorated.
type Kind int

const (
	// KindStandard is plain gray text.
	KindStandard Kind = iota
	// KindPrompt asks the operator for input.
	KindPrompt
	// KindSerial reports link activity behind a "[Serial] " tag.
	KindSerial
)

// LiveView blocks while the receive buffer is shown full-screen.
// *liveview.Poller satisfies it.
type LiveView interface {
	Run(ctx context.Context)
}

// Console wires the prompt together. It is driven from a single goroutine.
type Console struct {
	rec  *history.Recorder
	term domain.Terminal
	link domain.SerialLink
	buf  *rxbuffer.Buffer
	view LiveView
	log  *logger.Logger
	cmds *command.Dispatcher
}

// New builds a console and registers the commands for the buffer's mode.
func New(rec *history.Recorder, term domain.Terminal, link domain.SerialLink,
	buf *rxbuffer.Buffer, view LiveView, log *logger.Logger) *Console {
	c := &Console{
		rec:  rec,
		term: term,
		link: link,
		buf:  buf,
		view: view,
		log:  log,
	}
	c.cmds = command.New(printer{c}, c.send, log)
	c.registerCommands()
	return c
}

// Mode returns the console's fixed mode.
func (c *Console) Mode() domain.Mode { return c.buf.Mode() }

// Commands returns the registered commands in help order.
func (c *Console) Commands() []command.Entry { return c.cmds.Entries() }

// Dispatch handles one line of operator input.
func (c *Console) Dispatch(ctx context.Context, line string) command.Result {
	return c.cmds.Dispatch(ctx, line)
}

// Welcome prints the greeting shown above the first prompt.
func (c *Console) Welcome() {
	c.rec.SetForeground(domain.Yellow)
	c.rec.WriteLine("Welcome to the serial communication prompt. Type /help for help.")
	c.rec.SetForeground(domain.Gray)
}

// Run reads lines until /exit, end of input or ctx is done. The link is
// closed on the way out in every case.
func (c *Console) Run(ctx context.Context) error {
	defer func() {
		if err := c.link.Close(); err != nil {
			c.log.Error("closing link: %v", err)
		}
	}()

	for ctx.Err() == nil {
		line, err := c.readInput()
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.log.Info("input closed, leaving")
				return nil
			}
			return fmt.Errorf("reading operator input: %w", err)
		}

		res := c.Dispatch(ctx, line)
		c.log.Debug("handled %q: %s", line, res)
		if res == command.ResultExit {
			c.log.Info("exit requested")
			return nil
		}
	}
	return nil
}

// readInput reads one operator line in the input color and records it.
func (c *Console) readInput() (string, error) {
	c.rec.SetForeground(InputColor)
	line, err := c.term.ReadLine()
	if err != nil {
		return "", err
	}
	c.rec.RecordInput(line)
	c.rec.SetForeground(domain.Gray)
	return line, nil
}

// say writes a decorated message and leaves the input color active.
func (c *Console) say(kind Kind, text string) {
	if kind == KindSerial {
		c.rec.SetForeground(domain.DarkGray)
		c.rec.Write("[Serial] ")
	}
	c.rec.SetForeground(domain.Gray)
	c.rec.WriteLine(text)
	c.rec.SetForeground(InputColor)
}

// printer routes dispatcher messages through say.
type printer struct{ c *Console }

func (p printer) WriteLine(text string) { p.c.say(KindStandard, text) }
