package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	zl    zerolog.Logger
	level LogLevel
}

// NewZerologLogger wraps an existing zerolog logger.
func NewZerologLogger(zl zerolog.Logger, level LogLevel) Logger {
	return &ZerologLogger{zl: zl, level: level}
}

// NewZerolog builds a zerolog-backed logger writing to w. format "json"
// keeps structured output, anything else renders a console writer.
func NewZerolog(w io.Writer, level LogLevel, format string) Logger {
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	zl := zerolog.New(w).With().Timestamp().Str("component", "uapush").Logger()
	return NewZerologLogger(zl, level)
}

// LogMode sets the log level and returns a new logger instance.
func (z *ZerologLogger) LogMode(level LogLevel) Logger {
	return &ZerologLogger{zl: z.zl, level: level}
}

// Info logs an informational message.
func (z *ZerologLogger) Info(msg string, args ...any) {
	if z.level >= Info {
		z.emit(z.zl.Info(), msg, args)
	}
}

// Warn logs a warning message.
func (z *ZerologLogger) Warn(msg string, args ...any) {
	if z.level >= Warn {
		z.emit(z.zl.Warn(), msg, args)
	}
}

// Error logs an error message.
func (z *ZerologLogger) Error(msg string, args ...any) {
	if z.level >= Error {
		z.emit(z.zl.Error(), msg, args)
	}
}

// Debug logs a debug message.
func (z *ZerologLogger) Debug(msg string, args ...any) {
	if z.level >= Debug {
		z.emit(z.zl.Debug(), msg, args)
	}
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, args []any) {
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			e = e.Str(key, "(no value)")
			break
		}
		switch v := args[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case string:
			e = e.Str(key, v)
		case int:
			e = e.Int(key, v)
		case time.Duration:
			e = e.Dur(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
