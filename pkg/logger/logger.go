// Package logger provides a GORM-style logging interface for uapush.
// The HTTP client, response cache and CLI log through it; payload builders
// never log.
package logger

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// Silent suppresses all log output.
	Silent LogLevel = iota + 1
	// Error only logs error messages.
	Error
	// Warn logs warnings and errors.
	Warn
	// Info logs informational messages, warnings, and errors.
	Info
	// Debug logs all messages including debug information.
	Debug
)

// String returns the string representation of log level
func (l LogLevel) String() string {
	switch l {
	case Silent:
		return "silent"
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel maps a configuration string onto a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "off", "none":
		return Silent, nil
	case "error":
		return Error, nil
	case "warn", "warning":
		return Warn, nil
	case "info", "":
		return Info, nil
	case "debug", "trace":
		return Debug, nil
	default:
		return Info, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is the interface that wraps the basic logging methods.
type Logger interface {
	// LogMode sets the log level and returns a new logger instance.
	LogMode(level LogLevel) Logger
	// Info logs an informational message with structured key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning message with structured key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error message with structured key-value pairs.
	Error(msg string, args ...any)
	// Debug logs a debug message with structured key-value pairs.
	Debug(msg string, args ...any)
}

// StandardLogger writes one line per entry through a *log.Logger:
// prefix, bracketed level, message, then key=value pairs. Values containing
// spaces, quotes or '=' are quoted so lines stay machine-splittable.
type StandardLogger struct {
	out    *log.Logger
	level  LogLevel
	prefix string
}

// NewStandardLogger returns a StandardLogger writing to out at level.
func NewStandardLogger(out *log.Logger, level LogLevel, prefix string) Logger {
	return &StandardLogger{out: out, level: level, prefix: prefix}
}

// LogMode returns a copy of l filtered at level.
func (l *StandardLogger) LogMode(level LogLevel) Logger {
	c := *l
	c.level = level
	return &c
}

func (l *StandardLogger) Info(msg string, args ...any)  { l.emit(Info, msg, args) }
func (l *StandardLogger) Warn(msg string, args ...any)  { l.emit(Warn, msg, args) }
func (l *StandardLogger) Error(msg string, args ...any) { l.emit(Error, msg, args) }
func (l *StandardLogger) Debug(msg string, args ...any) { l.emit(Debug, msg, args) }

func (l *StandardLogger) emit(level LogLevel, msg string, args []any) {
	if l.level < level {
		return
	}
	l.out.Print(l.format(level, msg, args))
}

func (l *StandardLogger) format(level LogLevel, msg string, args []any) string {
	var b strings.Builder
	if l.prefix != "" {
		b.WriteString(l.prefix)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(level.String()), msg)
	for i := 0; i < len(args); i += 2 {
		val := "(no value)"
		if i+1 < len(args) {
			val = formatValue(args[i+1])
		}
		fmt.Fprintf(&b, " %v=%s", args[i], val)
	}
	return b.String()
}

func formatValue(v any) string {
	var s string
	switch x := v.(type) {
	case error:
		s = x.Error()
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// discardLogger drops every entry.
type discardLogger struct{}

// LogMode returns the discard logger itself; there is no level to change.
func (d *discardLogger) LogMode(LogLevel) Logger { return d }

// Info drops the entry.
func (d *discardLogger) Info(string, ...any) {}

// Warn drops the entry.
func (d *discardLogger) Warn(string, ...any) {}

// Error drops the entry.
func (d *discardLogger) Error(string, ...any) {}

// Debug drops the entry.
func (d *discardLogger) Debug(string, ...any) {}

// Discard is a logger that discards all output. It is the client default
// and the logger of test configurations.
var Discard Logger = &discardLogger{}

// New returns the uapush default: warn level on stderr.
func New() Logger {
	return NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags), Warn, "[uapush]")
}
