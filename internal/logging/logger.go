// Package logging provides the leveled logger injected into the engine.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger is the logging interface accepted by every package that reports
// progress. Build and run code never log through the global logger.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (n *NoOpLogger) Debugf(format string, v ...any) {}
func (n *NoOpLogger) Infof(format string, v ...any)  {}
func (n *NoOpLogger) Warnf(format string, v ...any)  {}
func (n *NoOpLogger) Errorf(format string, v ...any) {}

// NewNoOp returns a logger that discards everything.
func NewNoOp() Logger {
	return &NoOpLogger{}
}

// Level is a logging threshold.
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
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a case-insensitive level name. Unknown names map to
// info.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Leveled writes messages at or above its level to an io.Writer.
type Leveled struct {
	level Level
	out   *log.Logger
}

// New returns a leveled logger writing to stderr.
func New(level string) *Leveled {
	return NewWriter(os.Stderr, level)
}

// NewWriter returns a leveled logger writing to w.
func NewWriter(w io.Writer, level string) *Leveled {
	return &Leveled{
		level: ParseLevel(level),
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *Leveled) Level() Level { return l.level }

func (l *Leveled) logf(level Level, format string, v ...any) {
	if level < l.level {
		return
	}
	l.out.Print("[", strings.ToUpper(level.String()), "] ", fmt.Sprintf(format, v...))
}

func (l *Leveled) Debugf(format string, v ...any) { l.logf(LevelDebug, format, v...) }
func (l *Leveled) Infof(format string, v ...any)  { l.logf(LevelInfo, format, v...) }
func (l *Leveled) Warnf(format string, v ...any)  { l.logf(LevelWarn, format, v...) }
func (l *Leveled) Errorf(format string, v ...any) { l.logf(LevelError, format, v...) }
