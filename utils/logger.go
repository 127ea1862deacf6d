package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/term"
)

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger

	colour       bool
	debugEnabled bool
}

// NewLogger creates a new Logger writing to stdout/stderr. Colours are only
// emitted when stdout is a terminal; debug lines only when level is "debug".
func NewLogger(level string) *Logger {
	l := NewLoggerTo(os.Stdout, os.Stderr, level)
	l.colour = term.IsTerminal(int(os.Stdout.Fd()))
	return l
}

// NewLoggerTo creates an uncoloured Logger over arbitrary writers.
func NewLoggerTo(out, errOut io.Writer, level string) *Logger {
	flags := 0
	return &Logger{
		info:         log.New(out, "", flags),
		warn:         log.New(out, "", flags),
		err:          log.New(errOut, "", flags),
		debug:        log.New(out, "", flags),
		debugEnabled: level == "debug",
	}
}

// Discard returns a Logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, io.Discard, "debug")
}

// Colour reports whether stdout is a terminal that gets ANSI colours.
func (l *Logger) Colour() bool {
	return l.colour
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) tag(name, code string) string {
	if !l.colour {
		return name
	}
	return "\033[" + code + "m" + name + "\033[0m"
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf(fmt.Sprintf("[%s] %s  %s\n", l.timestamp(), l.tag("INFO", "32"), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf(fmt.Sprintf("[%s] %s  %s\n", l.timestamp(), l.tag("WARN", "33"), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] %s %s\n", l.timestamp(), l.tag("ERROR", "31"), format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugEnabled {
		return
	}
	l.debug.Printf(fmt.Sprintf("[%s] %s %s\n", l.timestamp(), l.tag("DEBUG", "36"), format), args...)
}
