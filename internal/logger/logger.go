// Package logger provides a small leveled logger for the prompt.
// Levels are off, normal (info/warn/error) and verbose (adds debug).
// Component loggers created with Named share the parent's level and
// output. The logger is safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Level controls the verbosity of the logger.
type Level int32

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the flag spelling of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	level     *atomic.Int32
	out       *log.Logger
	component string
}

// New creates a logger with the given level, writing to out.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	lv := new(atomic.Int32)
	lv.Store(int32(level))
	return &Logger{
		level: lv,
		out:   log.New(out, "", log.Ltime|log.Lmicroseconds),
	}
}

// Named returns a logger that tags every line with the component name.
// Level changes on either logger apply to both.
func (l *Logger) Named(component string) *Logger {
	return &Logger{level: l.level, out: l.out, component: component}
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) { l.level.Store(int32(level)) }

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level { return Level(l.level.Load()) }

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) { l.emit(LevelVerbose, "DBG", format, args) }

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) { l.emit(LevelNormal, "INF", format, args) }

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) { l.emit(LevelNormal, "WRN", format, args) }

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) { l.emit(LevelNormal, "ERR", format, args) }

func (l *Logger) emit(min Level, tag, format string, args []any) {
	if l.GetLevel() < min {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		msg = "[" + tag + "] " + l.component + ": " + msg
	} else {
		msg = "[" + tag + "] " + msg
	}
	l.out.Output(3, msg)
}
