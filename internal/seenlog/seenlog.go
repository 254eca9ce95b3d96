// Package seenlog is the ambient terminal-aware leveled logger used to
// trace pipeline stages and pretty-print diagnostics: colorized
// level-prefixed lines on a TTY, detected via go-isatty, plain text
// otherwise, with go-colorable wrapping os.Stderr for Windows ANSI support.
package seenlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level is a logger's minimum emitted severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "?"
	}
}

var levelColor = map[Level]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

// Logger writes level-prefixed lines to an underlying writer, colorizing
// them when that writer is attached to a terminal.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
	colorize bool
}

// New returns a Logger writing to w at minLevel, auto-detecting color
// support via go-isatty when w is *os.File.
func New(w io.Writer, minLevel Level) *Logger {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{out: w, minLevel: minLevel, colorize: colorize}
}

// NewStderr returns the default logger used by cmd/seenc: os.Stderr
// wrapped with go-colorable so ANSI codes render correctly on Windows
// consoles.
func NewStderr(minLevel Level) *Logger {
	return New(colorable.NewColorable(os.Stderr), minLevel)
}

func (lg *Logger) log(level Level, format string, args ...interface{}) {
	if level < lg.minLevel {
		return
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if lg.colorize {
		levelColor[level].Fprintf(lg.out, "[%s] %s\n", level, msg)
		return
	}
	fmt.Fprintf(lg.out, "[%s] %s\n", level, msg)
}

func (lg *Logger) Debug(format string, args ...interface{}) { lg.log(LevelDebug, format, args...) }
func (lg *Logger) Info(format string, args ...interface{})  { lg.log(LevelInfo, format, args...) }
func (lg *Logger) Warn(format string, args ...interface{})  { lg.log(LevelWarn, format, args...) }
func (lg *Logger) Error(format string, args ...interface{}) { lg.log(LevelError, format, args...) }
