// Package serial implements the device link over a serial port using
// github.com/tarm/serial.
package serial

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	tarm "github.com/tarm/serial"

	"github.com/hammamikhairi/duinoprompt/internal/charset"
	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/logger"
)

// Compile-time interface check.
var _ domain.SerialLink = (*Port)(nil)

// Defaults for a typical microcontroller board.
const (
	DefaultBaud        = 9600
	DefaultNewline     = "\n"
	DefaultReadTimeout = 100 * time.Millisecond
)

// DefaultPortName returns the usual first USB serial adapter for the
// platform.
func DefaultPortName() string {
	switch runtime.GOOS {
	case "windows":
		return "COM3"
	case "darwin":
		return "/dev/tty.usbmodem1"
	default:
		return "/dev/ttyUSB0"
	}
}

// Config describes the port to open.
type Config struct {
	Name        string
	Baud        int
	Charset     charset.Charset
	Newline     string
	ReadTimeout time.Duration
}

// opener is swapped out in tests.
var opener = func(c *tarm.Config) (io.ReadWriteCloser, error) {
	return tarm.OpenPort(c)
}

// Port is an open serial link. Reads happen on the receive pump's
// goroutine while writes come from the command loop.
type Port struct {
	rwc     io.ReadWriteCloser
	cs      charset.Charset
	newline string
	name    string
	log     *logger.Logger

	wmu    sync.Mutex
	closed atomic.Bool
}

// Open opens the port as 8N1. Failures wrap domain.ErrConnection.
func Open(cfg Config, log *logger.Logger) (*Port, error) {
	if cfg.Baud <= 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.Newline == "" {
		cfg.Newline = DefaultNewline
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	rwc, err := opener(&tarm.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
		Size:        8,
		Parity:      tarm.ParityNone,
		StopBits:    tarm.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s at %d baud: %v", domain.ErrConnection, cfg.Name, cfg.Baud, err)
	}

	log.Info("opened %s at %d baud (encoding=%s)", cfg.Name, cfg.Baud, cfg.Charset.Name)
	return &Port{
		rwc:     rwc,
		cs:      cfg.Charset,
		newline: cfg.Newline,
		name:    cfg.Name,
		log:     log,
	}, nil
}

// Read returns whatever the device has sent. A read timeout yields
// (0, nil); after Close it returns io.EOF.
func (p *Port) Read(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, io.EOF
	}
	n, err := p.rwc.Read(b)
	if err == nil {
		return n, nil
	}
	if p.closed.Load() {
		return n, io.EOF
	}
	// tarm/serial reports an expired read timeout as io.EOF on POSIX.
	if errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, fmt.Errorf("reading %s: %w", p.name, err)
}

// Write sends text encoded with the port's charset.
func (p *Port) Write(text string) error {
	data, err := p.cs.Encode(text)
	if err != nil {
		return err
	}
	return p.WriteBytes(data)
}

// WriteLine sends text followed by the newline.
func (p *Port) WriteLine(text string) error {
	return p.Write(text + p.newline)
}

// WriteBytes sends raw bytes.
func (p *Port) WriteBytes(b []byte) error {
	if p.closed.Load() {
		return fmt.Errorf("writing %s: %w", p.name, io.ErrClosedPipe)
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()

	if _, err := p.rwc.Write(b); err != nil {
		return fmt.Errorf("writing %s: %w", p.name, err)
	}
	p.log.Debug("wrote %d byte(s) to %s", len(b), p.name)
	return nil
}

// Close closes the port. Safe to call more than once.
func (p *Port) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.log.Info("closing %s", p.name)
	return p.rwc.Close()
}
