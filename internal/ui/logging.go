package ui

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	Debug bool
	zl    zerolog.Logger
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, debug)
}

// NewLoggerTo writes to w instead of the console.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return &Logger{
		Debug: debug,
		zl:    zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msgf(trimNewline(format), args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msgf(trimNewline(format), args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(trimNewline(format), args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msgf(trimNewline(format), args...)
}

// Zerolog exposes the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// the console writer already terminates every entry
func trimNewline(format string) string {
	return strings.TrimSuffix(format, "\n")
}
