// Package domain defines the core types and interfaces for the serial prompt.
// All other packages depend on domain; domain depends on nothing.
package domain

import "io"

// SerialLink is an open connection to the device. Reads return whatever
// bytes the device has sent; implementations may return (0, nil) when a
// read times out with nothing available.
type SerialLink interface {
	io.Reader
	// Write sends text as-is, encoded with the link's encoding.
	Write(text string) error
	// WriteLine sends text followed by the link's newline.
	WriteLine(text string) error
	// WriteBytes sends raw bytes.
	WriteBytes(b []byte) error
	Close() error
}

// Terminal is the operator's console. Implementations are driven from the
// foreground command loop only.
type Terminal interface {
	// ReadLine blocks until the operator submits a line. The terminal echoes
	// the line itself; it is returned without its terminator.
	ReadLine() (string, error)
	// ReadKey blocks for a single keypress. With intercept set the key is
	// not echoed.
	ReadKey(intercept bool) (rune, error)
	// KeyAvailable reports whether a keypress is waiting, without blocking.
	KeyAvailable() bool

	Write(text string)
	ClearScreen()

	Foreground() Color
	Background() Color
	SetForeground(c Color)
	SetBackground(c Color)
}
