// Package command maps slash-commands typed by the operator to handlers.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/logger"
)

// Marker starts every command line.
const Marker = "/"

// UnknownMessage is shown for a command name with no handler.
const UnknownMessage = "Unknown command. Type /help for help."

// Result tells the command loop what to do after a line was handled.
type Result int

const (
	// ResultContinue keeps reading input.
	ResultContinue Result = iota
	// ResultExit asks the loop to close the link and return.
	ResultExit
)

// String returns a human-readable result.
func (r Result) String() string {
	switch r {
	case ResultContinue:
		return "continue"
	case ResultExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Handler runs one command. args is everything after the first space,
// or "" when the command had none. It is only valid for this call.
type Handler func(ctx context.Context, args string) Result

// Sender handles a line that is not a command.
type Sender func(ctx context.Context, line string)

// Printer receives the dispatcher's own messages. *history.Recorder
// satisfies it.
type Printer interface {
	WriteLine(text string)
}

// Entry describes a registered command for help output.
type Entry struct {
	Usage       string // e.g. "/input <view|clear|amount>"
	Description string
}

// Dispatcher owns the command table. Register everything at startup;
// the table is read-only afterwards.
type Dispatcher struct {
	handlers map[string]Handler
	entries  []Entry
	send     Sender
	out      Printer
	log      *logger.Logger
}

// New creates an empty dispatcher. Lines without the marker go to send.
func New(out Printer, send Sender, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		send:     send,
		out:      out,
		log:      log,
	}
}

// Register adds a command. Names are case-insensitive; registering the
// same name twice panics.
func (d *Dispatcher) Register(name, usage, description string, h Handler) {
	key := strings.ToLower(name)
	if _, dup := d.handlers[key]; dup {
		panic(fmt.Sprintf("command: %q registered twice", name))
	}
	d.handlers[key] = h
	d.entries = append(d.entries, Entry{Usage: usage, Description: description})
}

// Entries returns the registered commands in registration order.
func (d *Dispatcher) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Has reports whether name is registered.
func (d *Dispatcher) Has(name string) bool {
	_, err := d.Lookup(name)
	return err == nil
}

// Lookup returns the handler for name. Unregistered names wrap
// domain.ErrUnknownCommand.
func (d *Dispatcher) Lookup(name string) (Handler, error) {
	h, ok := d.handlers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, name)
	}
	return h, nil
}

// Parse splits a command line into its name and arguments. ok is false
// when the line does not start with Marker.
func Parse(line string) (name, args string, ok bool) {
	if !strings.HasPrefix(line, Marker) {
		return "", "", false
	}
	name, args, _ = strings.Cut(line[len(Marker):], " ")
	return name, args, true
}

// Dispatch handles one line of operator input.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) Result {
	name, args, ok := Parse(line)
	if !ok {
		d.send(ctx, line)
		return ResultContinue
	}

	h, err := d.Lookup(name)
	if err != nil {
		d.log.Debug("%v", err)
		d.out.WriteLine(UnknownMessage)
		return ResultContinue
	}

	d.log.Debug("command %s (args=%q)", strings.ToLower(name), args)
	return h(ctx, args)
}
